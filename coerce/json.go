package coerce

import (
	"reflect"

	"github.com/Station-Manager/errors"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
)

var (
	boilerJSONType = reflect.TypeOf(boilertypes.JSON{})
	rawMessageType = reflect.TypeOf(json.RawMessage{})
)

// encodeJSON returns src as JSON bytes. Byte slices are taken to already hold
// JSON and are copied as-is.
func encodeJSON(src any) ([]byte, error) {
	const op errors.Op = "coerce.encodeJSON"
	switch v := src.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case json.RawMessage:
		return append([]byte(nil), v...), nil
	case boilertypes.JSON:
		return append([]byte(nil), v...), nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, errors.New(op).Err(err)
	}
	return b, nil
}

// toJSON coerces src into one of the raw JSON byte types.
func toJSON(src any, typ reflect.Type) (reflect.Value, error) {
	b, err := encodeJSON(src)
	if err != nil {
		return reflect.Value{}, err
	}
	switch typ {
	case boilerJSONType:
		return reflect.ValueOf(boilertypes.JSON(b)), nil
	default:
		return reflect.ValueOf(json.RawMessage(b)), nil
	}
}
