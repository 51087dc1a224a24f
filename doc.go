// Package adaptr adapts a generic key-value record into a value satisfying a
// caller-defined set of methods, without a concrete implementing type.
//
// Go cannot add methods to a type at runtime, so the method set is described
// by a struct whose fields are all funcs ("method fields"). Adapt binds every
// field to a call interceptor that resolves the record key for that method
// and returns the matching value.
//
// # Basic Usage
//
//	type Person struct {
//	    GetName     func() string
//	    GetAge      func() int    `adaptr:"age_in_years"`
//	    GetFullName func() string `adaptr:"full_name"`
//	    IsActive    func() bool
//	    String      func() string
//	}
//
//	person, err := adaptr.Adapt[Person](map[string]any{"name": "John Doe", "age_in_years": 30})
//	person.GetName() // "John Doe"
//	person.GetAge()  // 30
//
// # Key Resolution
//
// The key is resolved on every call, in order:
//  1. the `adaptr:"key"` struct tag, used verbatim
//  2. an override registered for the descriptor type (RegisterOverrideFor)
//  3. a global override registered by method name (RegisterOverride)
//  4. the naming convention: GetFullName -> fullName, IsActive -> active;
//     a bare Get or Is, and names without either prefix, are used unchanged
//
// A missing key yields the zero value of the result type. Use the
// func() (T, bool) shape to tell a missing key from a nil value, and the
// func() (T, error) shape to receive failures instead of panics.
//
// # Method Fields
//
// Fields named String, Hash and Equal do not read the record: String returns
// a fixed prefix followed by the record, Hash hashes the record contents and
// Equal reports whether its argument is the same proxy instance. GoString and
// Format fail with ErrUnsupportedOperation. The tag value "-" leaves a field
// unbound.
//
// Descriptors compose by embedding, by value or by pointer:
//
//	type Named struct{ GetName func() string }
//	type Employee struct {
//	    Named
//	    GetRole func() string
//	}
//
// Embedded method fields are bound like direct ones (nil embedded pointers are
// allocated) and an outer field shadows an embedded one of the same name.
// Overrides registered for Employee apply to the promoted methods.
//
// # Coercion
//
// Values that are not assignable to the result type are converted by package
// coerce (null.* wrappers, JSON byte types, spf13/cast for scalars). Disable
// with WithDisableCoercion.
//
// # Thread Safety
//
// The Adapter is safe for concurrent use. Overrides live in a copy-on-write
// registry and descriptor metadata is cached per type. Proxies never mutate
// the record; synchronizing writers to the record is up to the caller.
package adaptr
