package adaptr

// Generic helpers as top-level functions (methods cannot have type parameters yet)

// AdaptTo allocates a descriptor T and binds it to record.
func AdaptTo[T any](a *Adapter, record any) (*T, error) {
	var d T
	if err := a.Adapt(record, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Adapt binds a new descriptor T to record using a default Adapter.
func Adapt[T any](record any) (*T, error) { return AdaptTo[T](defaultAdapter, record) }

// MustAdapt is like Adapt but panics on error. Intended for fixtures and package-level vars.
func MustAdapt[T any](record any) *T {
	d, err := Adapt[T](record)
	if err != nil {
		panic(err)
	}
	return d
}

var defaultAdapter = New()
