package adaptr

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
	"strings"

	"github.com/Station-Manager/adaptr/coerce"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Proxy is the shared handle behind every method field bound by Adapt. It
// holds a reference to the record and never copies or mutates it.
//
// A Proxy created with NewProxy can also be used directly, e.g. to satisfy a
// Go interface by hand:
//
//	type person struct{ *adaptr.Proxy }
//
//	func (p person) GetName() string { n, _ := adaptr.Get[string](p.Proxy, "GetName"); return n }
type Proxy struct {
	adapter *Adapter
	record  reflect.Value
	self    any          // the proxy instance Equal compares against
	target  reflect.Type // descriptor type, nil for dynamic proxies
}

// Record returns the backing record.
func (p *Proxy) Record() any { return p.record.Interface() }

// String returns the configured prefix followed by the record rendering.
func (p *Proxy) String() string {
	rec := p.record.Interface()
	if p.adapter.options.JSONString {
		if b, err := json.Marshal(rec); err == nil {
			return p.adapter.options.StringPrefix + string(b)
		}
	}
	return p.adapter.options.StringPrefix + fmt.Sprint(rec)
}

// Hash returns a hash of the record contents. fmt prints map keys sorted, so
// proxies over equal records hash equally.
func (p *Proxy) Hash() uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprint(h, p.record.Interface())
	return h.Sum64()
}

// Equal reports whether other is this same proxy instance.
func (p *Proxy) Equal(other any) bool {
	return other != nil && other == p.self
}

// Call invokes method by name. String, Hash and Equal are handled as on bound
// proxies; any other name is resolved to a key and looked up. A missing key
// yields nil and no error.
func (p *Proxy) Call(method string, args ...any) (any, error) {
	switch method {
	case "String":
		return p.String(), nil
	case "Hash":
		return p.Hash(), nil
	case "Equal":
		var other any
		if len(args) > 0 {
			other = args[0]
		}
		return p.Equal(other), nil
	case "GoString", "Format":
		return nil, &UnsupportedOperationError{Method: method}
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("adaptr: method %s takes no arguments, got %d", method, len(args))
	}
	v, _ := p.Lookup(method)
	return v, nil
}

// Lookup resolves method to a key and returns the record value and whether
// the key is present.
func (p *Proxy) Lookup(method string) (any, bool) {
	key, source := p.adapter.keyFor(p.target, method, "", false)
	v, found := p.lookup(key)
	p.trace(method, key, source, found)
	return v, found
}

// Get is the typed form of Proxy.Lookup. Values are coerced to T unless
// coercion is disabled; a missing key yields the zero value of T.
func Get[T any](p *Proxy, method string) (T, error) {
	var zero T
	key, source := p.adapter.keyFor(p.target, method, "", false)
	raw, found := p.lookup(key)
	p.trace(method, key, source, found)
	v, err := p.valueOf(method, key, raw, reflect.TypeOf(&zero).Elem())
	if err != nil {
		return zero, err
	}
	out, _ := v.Interface().(T)
	return out, nil
}

func (p *Proxy) lookup(key string) (any, bool) {
	kv := reflect.ValueOf(key).Convert(p.record.Type().Key())
	v := p.record.MapIndex(kv)
	if !v.IsValid() && p.adapter.options.CaseInsensitiveKeys {
		v = p.foldedLookup(key)
	}
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// foldedLookup picks the smallest key equal to key under case folding so the
// result does not depend on map iteration order.
func (p *Proxy) foldedLookup(key string) reflect.Value {
	var matches []string
	iter := p.record.MapRange()
	for iter.Next() {
		if k := iter.Key().String(); strings.EqualFold(k, key) {
			matches = append(matches, k)
		}
	}
	if len(matches) == 0 {
		return reflect.Value{}
	}
	sort.Strings(matches)
	return p.record.MapIndex(reflect.ValueOf(matches[0]).Convert(p.record.Type().Key()))
}

// valueOf turns a looked-up record value into a value of the result type.
func (p *Proxy) valueOf(method, key string, raw any, out reflect.Type) (reflect.Value, error) {
	if raw == nil {
		return reflect.Zero(out), nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(out) {
		if rv.Type() == out {
			return rv, nil
		}
		v := reflect.New(out).Elem()
		v.Set(rv)
		return v, nil
	}
	if p.adapter.options.DisableCoercion {
		return reflect.Value{}, &TypeMismatchError{Method: method, Key: key, Want: out, Value: raw}
	}
	v, err := coerce.To(raw, out)
	if err != nil {
		return reflect.Value{}, &TypeMismatchError{Method: method, Key: key, Want: out, Value: raw, Err: err}
	}
	return v, nil
}

func (p *Proxy) trace(method, key, source string, found bool) {
	if ce := p.adapter.logger.Check(zap.DebugLevel, "resolved key"); ce != nil {
		ce.Write(zap.String("method", method), zap.String("key", key), zap.String("source", source), zap.Bool("found", found))
	}
}

// handler builds the reflect.MakeFunc body for a bound method field.
func (p *Proxy) handler(m *methodInfo) func([]reflect.Value) []reflect.Value {
	return func(args []reflect.Value) []reflect.Value {
		return p.invoke(m, args)
	}
}

func (p *Proxy) invoke(m *methodInfo, args []reflect.Value) []reflect.Value {
	switch m.kind {
	case kindString:
		return []reflect.Value{reflect.ValueOf(p.String()).Convert(m.out)}
	case kindHash:
		return []reflect.Value{reflect.ValueOf(p.Hash()).Convert(m.out)}
	case kindEqual:
		return []reflect.Value{reflect.ValueOf(p.Equal(args[0].Interface())).Convert(m.out)}
	case kindUnsupported:
		return p.fail(m, &UnsupportedOperationError{Method: m.name})
	}

	key, source := p.adapter.keyFor(p.target, m.name, m.tag, m.hasTag)
	raw, found := p.lookup(key)
	p.trace(m.name, key, source, found)
	v, err := p.valueOf(m.name, key, raw, m.out)
	if err != nil {
		return p.fail(m, err)
	}
	switch m.kind {
	case kindPresence:
		return []reflect.Value{v, reflect.ValueOf(found)}
	case kindChecked:
		return []reflect.Value{v, reflect.Zero(errorType)}
	}
	return []reflect.Value{v}
}

// fail returns err through a trailing error result when the method declares
// one, and panics with it otherwise.
func (p *Proxy) fail(m *methodInfo, err error) []reflect.Value {
	n := m.typ.NumOut()
	if n == 0 || m.typ.Out(n-1) != errorType {
		panic(err)
	}
	out := make([]reflect.Value, n)
	for i := 0; i < n-1; i++ {
		out[i] = reflect.Zero(m.typ.Out(i))
	}
	ev := reflect.New(errorType).Elem()
	ev.Set(reflect.ValueOf(err))
	out[n-1] = ev
	return out
}
