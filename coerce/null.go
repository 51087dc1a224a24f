package coerce

import (
	"database/sql/driver"
	"reflect"

	"github.com/Station-Manager/errors"
	"github.com/aarondl/null/v8"
	"github.com/spf13/cast"
)

var (
	nullStringType  = reflect.TypeOf(null.String{})
	nullBoolType    = reflect.TypeOf(null.Bool{})
	nullIntType     = reflect.TypeOf(null.Int{})
	nullInt64Type   = reflect.TypeOf(null.Int64{})
	nullFloat64Type = reflect.TypeOf(null.Float64{})
	nullTimeType    = reflect.TypeOf(null.Time{})
	nullJSONType    = reflect.TypeOf(null.JSON{})
)

// Unwrap returns the plain value held by a null.* wrapper, or nil when the
// wrapper is not valid. Values that are not null wrappers are returned unchanged.
func Unwrap(src any) any {
	switch v := src.(type) {
	case null.String:
		if !v.Valid {
			return nil
		}
		return v.String
	case null.Bool:
		if !v.Valid {
			return nil
		}
		return v.Bool
	case null.Int:
		if !v.Valid {
			return nil
		}
		return v.Int
	case null.Int64:
		if !v.Valid {
			return nil
		}
		return v.Int64
	case null.Float64:
		if !v.Valid {
			return nil
		}
		return v.Float64
	case null.Time:
		if !v.Valid {
			return nil
		}
		return v.Time
	case null.JSON:
		if !v.Valid {
			return nil
		}
		return []byte(v.JSON)
	case driver.Valuer:
		// Other nullable wrappers (null.Int32, null.Uint, sql.NullString, ...)
		out, err := v.Value()
		if err != nil {
			return src
		}
		return out
	}
	return src
}

// isNullType reports whether typ is one of the null.* wrappers handled by wrapNull.
func isNullType(typ reflect.Type) bool {
	switch typ {
	case nullStringType, nullBoolType, nullIntType, nullInt64Type, nullFloat64Type, nullTimeType, nullJSONType:
		return true
	}
	return false
}

// wrapNull converts src into the null.* wrapper typ. A nil src yields the
// invalid (null) wrapper.
func wrapNull(src any, typ reflect.Type) (reflect.Value, error) {
	const op errors.Op = "coerce.wrapNull"
	plain := Unwrap(src)
	if plain == nil {
		return reflect.Zero(typ), nil
	}
	var out any
	switch typ {
	case nullStringType:
		s, err := cast.ToStringE(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.StringFrom(s)
	case nullBoolType:
		b, err := cast.ToBoolE(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.BoolFrom(b)
	case nullIntType:
		i, err := cast.ToIntE(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.IntFrom(i)
	case nullInt64Type:
		i, err := cast.ToInt64E(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.Int64From(i)
	case nullFloat64Type:
		f, err := cast.ToFloat64E(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.Float64From(f)
	case nullTimeType:
		t, err := cast.ToTimeE(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.TimeFrom(t)
	case nullJSONType:
		b, err := encodeJSON(plain)
		if err != nil {
			return reflect.Value{}, errors.New(op).Err(err)
		}
		out = null.JSONFrom(b)
	default:
		return reflect.Value{}, errors.New(op).Errorf(ErrMsgNotCoercible, src, typ)
	}
	return reflect.ValueOf(out), nil
}
