package coerce

const (
	ErrMsgNilType      = "Target type cannot be nil."
	ErrMsgNotCoercible = "Value of type %T cannot be coerced into %s"
)
