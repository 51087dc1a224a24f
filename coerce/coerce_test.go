package coerce

import (
	"reflect"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

func TestTo_Scalars(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		typ     reflect.Type
		want    any
		wantErr bool
	}{
		{name: "assignable string", input: "x", typ: reflect.TypeOf(""), want: "x"},
		{name: "nil yields zero int", input: nil, typ: reflect.TypeOf(0), want: 0},
		{name: "float64 to int", input: 30.0, typ: reflect.TypeOf(0), want: 30},
		{name: "int to int64", input: 30, typ: reflect.TypeOf(int64(0)), want: int64(30)},
		{name: "string to int", input: "42", typ: reflect.TypeOf(0), want: 42},
		{name: "string to bool", input: "true", typ: reflect.TypeOf(false), want: true},
		{name: "int to string", input: 7, typ: reflect.TypeOf(""), want: "7"},
		{name: "int to float32", input: 2, typ: reflect.TypeOf(float32(0)), want: float32(2)},
		{name: "int to uint8", input: 200, typ: reflect.TypeOf(uint8(0)), want: uint8(200)},
		{name: "int overflows uint8", input: 300, typ: reflect.TypeOf(uint8(0)), wantErr: true},
		{name: "int overflows int32", input: 3000000000, typ: reflect.TypeOf(int32(0)), wantErr: true},
		{name: "string overflows int16", input: "70000", typ: reflect.TypeOf(int16(0)), wantErr: true},
		{name: "float64 overflows float32", input: 1e300, typ: reflect.TypeOf(float32(0)), wantErr: true},
		{name: "int32 bounds fit", input: int64(-2147483648), typ: reflect.TypeOf(int32(0)), want: int32(-2147483648)},
		{name: "string to named string", input: "active", typ: reflect.TypeOf(status("")), want: status("active")},
		{name: "named string to string", input: status("active"), typ: reflect.TypeOf(""), want: "active"},
		{name: "duration from string", input: "1m30s", typ: reflect.TypeOf(time.Duration(0)), want: 90 * time.Second},
		{name: "bad int", input: "abc", typ: reflect.TypeOf(0), wantErr: true},
		{name: "struct to int", input: struct{}{}, typ: reflect.TypeOf(0), wantErr: true},
		{name: "string to chan", input: "x", typ: reflect.TypeOf(make(chan int)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := To(tt.input, tt.typ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, got.Type())
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestTo_NilType(t *testing.T) {
	_, err := To("x", nil)
	assert.Error(t, err)
}

func TestTo_InterfaceTarget(t *testing.T) {
	got, err := To(12, reflect.TypeOf((*any)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, reflect.Interface, got.Kind())
	assert.Equal(t, 12, got.Interface())
}

func TestTo_Collections(t *testing.T) {
	got, err := To([]any{"a", "b"}, reflect.TypeOf([]string{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Interface())

	got, err = To(map[string]any{"k": "v"}, reflect.TypeOf(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k": "v"}, got.Interface())

	got, err = To(map[any]any{"k": 1}, reflect.TypeOf(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": 1}, got.Interface())
}

func TestTo_Time(t *testing.T) {
	got, err := To("2025-11-07T12:00:00Z", reflect.TypeOf(time.Time{}))
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 11, 7, 12, 0, 0, 0, time.UTC).Equal(got.Interface().(time.Time)))
}

func TestTo_NullSources(t *testing.T) {
	got, err := To(null.StringFrom("Jane"), reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Interface())

	got, err = To(null.String{}, reflect.TypeOf(""))
	require.NoError(t, err)
	assert.Equal(t, "", got.Interface())

	got, err = To(null.Int64From(5), reflect.TypeOf(0))
	require.NoError(t, err)
	assert.Equal(t, 5, got.Interface())

	got, err = To(null.BoolFrom(true), reflect.TypeOf(false))
	require.NoError(t, err)
	assert.Equal(t, true, got.Interface())
}

func TestTo_NullTargets(t *testing.T) {
	got, err := To("Bob", reflect.TypeOf(null.String{}))
	require.NoError(t, err)
	assert.Equal(t, null.StringFrom("Bob"), got.Interface())

	got, err = To(30.0, reflect.TypeOf(null.Int{}))
	require.NoError(t, err)
	assert.Equal(t, null.IntFrom(30), got.Interface())

	got, err = To(null.String{}, reflect.TypeOf(null.Int64{}))
	require.NoError(t, err)
	assert.False(t, got.Interface().(null.Int64).Valid)

	got, err = To(1.5, reflect.TypeOf(null.Float64{}))
	require.NoError(t, err)
	assert.Equal(t, null.Float64From(1.5), got.Interface())

	_, err = To("nope", reflect.TypeOf(null.Bool{}))
	assert.Error(t, err)
}

func TestTo_JSONTargets(t *testing.T) {
	in := map[string]any{"b": 2, "a": 1}

	got, err := To(in, reflect.TypeOf(null.JSON{}))
	require.NoError(t, err)
	nj := got.Interface().(null.JSON)
	assert.True(t, nj.Valid)
	assert.JSONEq(t, `{"a":1,"b":2}`, string(nj.JSON))

	got, err = To(in, reflect.TypeOf(boilertypes.JSON{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"b":2}`, string(got.Interface().(boilertypes.JSON)))

	got, err = To([]byte(`[1,2]`), reflect.TypeOf(json.RawMessage{}))
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`[1,2]`), got.Interface())

	_, err = To(map[string]any{"f": func() {}}, reflect.TypeOf(null.JSON{}))
	assert.Error(t, err)
}

func TestValue_Generic(t *testing.T) {
	n, err := Value[int]("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	s, err := Value[null.String](nil)
	require.NoError(t, err)
	assert.False(t, s.Valid)

	_, err = Value[int]([]int{1})
	assert.Error(t, err)
}

func TestUnwrap(t *testing.T) {
	assert.Nil(t, Unwrap(null.Time{}))
	now := time.Now()
	assert.Equal(t, now, Unwrap(null.TimeFrom(now)))
	assert.Equal(t, int64(3), Unwrap(null.Int16From(3)))
	assert.Equal(t, "plain", Unwrap("plain"))
}
