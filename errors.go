package adaptr

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrInvalidArgument is wrapped by every error returned from the factory.
var ErrInvalidArgument = errors.New("adaptr: invalid argument")

var (
	ErrNilRecord    = fmt.Errorf("%w: record must not be nil", ErrInvalidArgument)
	ErrNilTarget    = fmt.Errorf("%w: target must not be nil", ErrInvalidArgument)
	ErrNotInterface = fmt.Errorf("%w: target must point to a struct of method fields", ErrInvalidArgument)
	ErrNotMapping   = fmt.Errorf("%w: record must be a map with string keys", ErrInvalidArgument)
)

var (
	ErrUnsupportedOperation = errors.New("adaptr: unsupported operation")
	ErrTypeMismatch         = errors.New("adaptr: type mismatch")
)

// UnsupportedOperationError is raised when a base-object method other than
// String, Hash or Equal is invoked on a proxy.
type UnsupportedOperationError struct {
	Method string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("adaptr: method %s not supported", e.Method)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }

// TypeMismatchError reports a record value that could not be returned as the
// method's declared result type.
type TypeMismatchError struct {
	Method string
	Key    string
	Want   reflect.Type
	Value  any
	Err    error // coercion failure, nil when coercion is disabled
}

func (e *TypeMismatchError) Error() string {
	msg := fmt.Sprintf("adaptr: method %s: value of type %T under key %q is not a %s", e.Method, e.Value, e.Key, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeMismatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTypeMismatch}
	}
	return []error{ErrTypeMismatch, e.Err}
}
