// Package coerce converts loosely typed record values into the concrete types
// declared by method fields.
//
// Conversion order:
//  1. nil yields the zero value of the target type
//  2. values assignable to the target are used unchanged
//  3. null.* targets are wrapped (invalid when the value is nil)
//  4. null.* sources are unwrapped and re-checked for assignability
//  5. raw JSON targets (null.JSON, types.JSON, json.RawMessage) are encoded with go-json
//  6. same-kind values are converted (named string/int types)
//  7. scalars, time, durations, string slices and string maps go through spf13/cast;
//     numbers that do not fit the target type are rejected
package coerce

import (
	"reflect"
	"time"

	"github.com/Station-Manager/errors"
	"github.com/spf13/cast"
)

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
)

// To converts src into a value of typ.
func To(src any, typ reflect.Type) (reflect.Value, error) {
	const op errors.Op = "coerce.To"
	if typ == nil {
		return reflect.Value{}, errors.New(op).Msg(ErrMsgNilType)
	}
	if src == nil {
		return reflect.Zero(typ), nil
	}
	if v := reflect.ValueOf(src); v.Type().AssignableTo(typ) {
		return assign(v, typ), nil
	}
	if isNullType(typ) {
		v, err := wrapNull(src, typ)
		if err != nil {
			return reflect.Value{}, err
		}
		return v, nil
	}

	plain := Unwrap(src)
	if plain == nil {
		return reflect.Zero(typ), nil
	}
	v := reflect.ValueOf(plain)
	if v.Type().AssignableTo(typ) {
		return assign(v, typ), nil
	}
	if typ == boilerJSONType || typ == rawMessageType {
		return toJSON(plain, typ)
	}
	if v.Kind() == typ.Kind() && v.Type().ConvertibleTo(typ) {
		return v.Convert(typ), nil
	}

	out, err := castTo(plain, typ)
	if err != nil {
		return reflect.Value{}, errors.New(op).Err(err)
	}
	ov := reflect.ValueOf(out)
	if ov.Type() != typ {
		if overflows(ov, typ) {
			return reflect.Value{}, errors.New(op).Errorf(ErrMsgNotCoercible, src, typ)
		}
		ov = ov.Convert(typ)
	}
	return ov, nil
}

// overflows reports whether the widened number v does not fit typ.
func overflows(v reflect.Value, typ reflect.Type) bool {
	z := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return z.OverflowInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return z.OverflowUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return z.OverflowFloat(v.Float())
	}
	return false
}

// Value is the generic form of To.
func Value[T any](src any) (T, error) {
	var zero T
	v, err := To(src, reflect.TypeOf(&zero).Elem())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

func assign(v reflect.Value, typ reflect.Type) reflect.Value {
	if v.Type() == typ {
		return v
	}
	out := reflect.New(typ).Elem()
	out.Set(v)
	return out
}

// castTo dispatches on the target kind. The returned value always has a type
// convertible to typ.
func castTo(src any, typ reflect.Type) (any, error) {
	const op errors.Op = "coerce.castTo"
	switch typ {
	case timeType:
		return cast.ToTimeE(src)
	case durationType:
		return cast.ToDurationE(src)
	}
	switch typ.Kind() {
	case reflect.String:
		return cast.ToStringE(src)
	case reflect.Bool:
		return cast.ToBoolE(src)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(src)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToUint64E(src)
	case reflect.Float32, reflect.Float64:
		return cast.ToFloat64E(src)
	case reflect.Slice:
		switch typ.Elem().Kind() {
		case reflect.String:
			return cast.ToStringSliceE(src)
		case reflect.Int:
			return cast.ToIntSliceE(src)
		case reflect.Interface:
			if typ.Elem().NumMethod() == 0 {
				return cast.ToSliceE(src)
			}
		}
	case reflect.Map:
		if typ.Key().Kind() != reflect.String {
			break
		}
		switch typ.Elem().Kind() {
		case reflect.String:
			return cast.ToStringMapStringE(src)
		case reflect.Interface:
			if typ.Elem().NumMethod() == 0 {
				return cast.ToStringMapE(src)
			}
		}
	}
	return nil, errors.New(op).Errorf(ErrMsgNotCoercible, src, typ)
}
