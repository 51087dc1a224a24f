package adaptr

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// TagName is the struct tag carrying a method field's key override.
// The value "-" leaves the field unbound.
const TagName = "adaptr"

// DefaultStringPrefix is prepended to the record rendering returned by String.
const DefaultStringPrefix = "AdaptR Proxy: "

type Options struct {
	StringPrefix        string      // prefix of the String representation
	JSONString          bool        // when true, String renders the record as JSON
	CaseInsensitiveKeys bool        // when true, a missing key is retried under case folding
	DisableCoercion     bool        // when true, values not assignable to the result type are a mismatch
	Logger              *zap.Logger // debug tracing of adaptation and key resolution
}

type Option func(*Options)

func WithStringPrefix(p string) Option { return func(o *Options) { o.StringPrefix = p } }
func WithJSONString(v bool) Option     { return func(o *Options) { o.JSONString = v } }
func WithCaseInsensitiveKeys(v bool) Option {
	return func(o *Options) { o.CaseInsensitiveKeys = v }
}
func WithDisableCoercion(v bool) Option { return func(o *Options) { o.DisableCoercion = v } }
func WithLogger(l *zap.Logger) Option   { return func(o *Options) { o.Logger = l } }

// overrideRegistry stores key overrides at two scopes and is swapped atomically (copy-on-write)
type overrideRegistry struct {
	global   map[string]string
	byTarget map[reflect.Type]map[string]string
}

func (r *overrideRegistry) clone() *overrideRegistry {
	out := &overrideRegistry{
		global:   make(map[string]string, len(r.global)+1),
		byTarget: make(map[reflect.Type]map[string]string, len(r.byTarget)+1),
	}
	for k, v := range r.global {
		out.global[k] = v
	}
	for t, m := range r.byTarget {
		sub := make(map[string]string, len(m))
		for k, v := range m {
			sub[k] = v
		}
		out.byTarget[t] = sub
	}
	return out
}

type methodKind int

const (
	kindValue       methodKind = iota // func() T
	kindPresence                      // func() (T, bool)
	kindChecked                       // func() (T, error)
	kindString                        // String func() string
	kindHash                          // Hash func() <integer>
	kindEqual                         // Equal func(any) bool
	kindUnsupported                   // GoString, Format
)

type methodInfo struct {
	index  []int // field path, through embedded descriptors
	depth  int
	name   string
	typ    reflect.Type // func type of the field
	out    reflect.Type // first result
	kind   methodKind
	tag    string
	hasTag bool
	ignore bool
}

type descriptorMetadata struct {
	typ     reflect.Type
	methods []methodInfo
	byName  map[string]*methodInfo
}

// Adapter binds records to descriptor structs. The zero value is not usable; use New.
// An Adapter is safe for concurrent use.
type Adapter struct {
	overrides     atomic.Value // holds *overrideRegistry
	metadataCache sync.Map     // map[reflect.Type]*descriptorMetadata
	options       Options
	logger        *zap.Logger
}

// New creates an Adapter with default options.
func New() *Adapter { return NewWithOptions() }

// NewWithOptions creates a new Adapter with provided options.
func NewWithOptions(opts ...Option) *Adapter {
	a := &Adapter{}
	optsState := Options{StringPrefix: DefaultStringPrefix}
	for _, f := range opts {
		f(&optsState)
	}
	a.options = optsState
	a.logger = optsState.Logger
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.overrides.Store(&overrideRegistry{global: make(map[string]string), byTarget: make(map[reflect.Type]map[string]string)})
	return a
}

// RegisterOverride maps a method name to a record key for every descriptor.
func (a *Adapter) RegisterOverride(method, key string) {
	reg := a.overrides.Load().(*overrideRegistry).clone()
	reg.global[method] = key
	a.overrides.Store(reg)
}

// RegisterOverrideFor scope: descriptor type + method name. Takes precedence over global overrides.
func (a *Adapter) RegisterOverrideFor(target any, method, key string) {
	reg := a.overrides.Load().(*overrideRegistry).clone()
	tt := indirectType(reflect.TypeOf(target))
	m := reg.byTarget[tt]
	if m == nil {
		m = make(map[string]string)
		reg.byTarget[tt] = m
	}
	m[method] = key
	a.overrides.Store(reg)
}

// ResolveKey reports the record key a call to method would look up. A nil
// target resolves against global overrides and the naming convention only.
func (a *Adapter) ResolveKey(target any, method string) (string, error) {
	if target == nil {
		key, _ := a.keyFor(nil, method, "", false)
		return key, nil
	}
	tt := indirectType(reflect.TypeOf(target))
	meta, err := a.getOrBuildMetadata(tt)
	if err != nil {
		return "", err
	}
	m, ok := meta.byName[method]
	if !ok {
		return "", fmt.Errorf("adaptr: %s has no method %s", tt, method)
	}
	if m.ignore {
		return "", fmt.Errorf("adaptr: %s.%s is not bound", tt, method)
	}
	if m.kind >= kindString {
		return "", fmt.Errorf("adaptr: %s.%s does not read the record", tt, method)
	}
	key, _ := a.keyFor(tt, m.name, m.tag, m.hasTag)
	return key, nil
}

// WarmMetadata pre-builds metadata for provided example values or types (pass either a value or a *T or T).
// Types that are not valid descriptors are skipped.
func (a *Adapter) WarmMetadata(examples ...any) {
	for _, e := range examples {
		if e == nil {
			continue
		}
		t := indirectType(reflect.TypeOf(e))
		if t.Kind() != reflect.Struct {
			continue
		}
		_, _ = a.getOrBuildMetadata(t)
	}
}

// Adapt binds every method field of target, a pointer to a descriptor struct,
// to record. Preconditions are checked in order: record not nil, target not
// nil, target describes methods only, record is a map with string keys.
func (a *Adapter) Adapt(record, target any) error {
	if isNil(record) {
		return ErrNilRecord
	}
	if isNil(target) {
		return ErrNilTarget
	}
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Ptr || tv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: got %T", ErrNotInterface, target)
	}
	meta, err := a.getOrBuildMetadata(tv.Elem().Type())
	if err != nil {
		return err
	}
	rv, ok := mappingOf(record)
	if !ok {
		return fmt.Errorf("%w: got %T", ErrNotMapping, record)
	}

	p := &Proxy{adapter: a, record: rv, self: target, target: meta.typ}
	sv := tv.Elem()
	bound := 0
	for i := range meta.methods {
		m := &meta.methods[i]
		if m.ignore {
			continue
		}
		methodField(sv, m.index).Set(reflect.MakeFunc(m.typ, p.handler(m)))
		bound++
	}
	a.logger.Debug("adapted record", zap.Stringer("target", meta.typ), zap.Int("methods", bound), zap.Int("keys", rv.Len()))
	return nil
}

// NewProxy returns a dynamic proxy over record, for callers that satisfy a Go
// interface by delegating to Call or Get.
func (a *Adapter) NewProxy(record any) (*Proxy, error) {
	if isNil(record) {
		return nil, ErrNilRecord
	}
	rv, ok := mappingOf(record)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, record)
	}
	p := &Proxy{adapter: a, record: rv}
	p.self = p
	return p, nil
}

// --- metadata helpers ---

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	boolType  = reflect.TypeOf(false)
)

func (a *Adapter) getOrBuildMetadata(typ reflect.Type) (*descriptorMetadata, error) {
	if cached, ok := a.metadataCache.Load(typ); ok {
		return cached.(*descriptorMetadata), nil
	}
	meta, err := buildMetadata(typ)
	if err != nil {
		return nil, err
	}
	actual, _ := a.metadataCache.LoadOrStore(typ, meta)
	return actual.(*descriptorMetadata), nil
}

func buildMetadata(typ reflect.Type) (*descriptorMetadata, error) {
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrNotInterface, typ)
	}
	meta := &descriptorMetadata{typ: typ, methods: make([]methodInfo, 0, typ.NumField()), byName: make(map[string]*methodInfo, typ.NumField())}
	if err := collectMethods(typ, meta, nil, map[reflect.Type]bool{typ: true}); err != nil {
		return nil, err
	}
	// The shallowest field wins a name, as with Go field promotion.
	for i := range meta.methods {
		m := &meta.methods[i]
		if prev, ok := meta.byName[m.name]; !ok || m.depth < prev.depth {
			meta.byName[m.name] = m
		}
	}
	return meta, nil
}

// collectMethods appends the method fields of typ, flattening embedded
// descriptor structs (by value or pointer) into index paths.
func collectMethods(typ reflect.Type, meta *descriptorMetadata, prefix []int, visiting map[reflect.Type]bool) error {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Name == "_" {
			continue
		}
		idx := append(append([]int(nil), prefix...), i)
		tag, hasTag := f.Tag.Lookup(TagName)
		if f.Anonymous {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if hasTag && tag == "-" {
					continue
				}
				if f.PkgPath != "" && f.Type.Kind() == reflect.Ptr {
					return fmt.Errorf("%w: embedded field %s of %s is an unexported pointer", ErrNotInterface, f.Name, typ)
				}
				if visiting[ft] {
					return fmt.Errorf("%w: %s embeds itself through %s", ErrNotInterface, ft, f.Name)
				}
				visiting[ft] = true
				err := collectMethods(ft, meta, idx, visiting)
				delete(visiting, ft)
				if err != nil {
					return err
				}
				continue
			}
		}
		if f.PkgPath != "" {
			return fmt.Errorf("%w: field %s of %s is unexported", ErrNotInterface, f.Name, typ)
		}
		if f.Type.Kind() != reflect.Func {
			return fmt.Errorf("%w: field %s of %s is a %s, not a method", ErrNotInterface, f.Name, typ, f.Type)
		}
		kind, err := classify(f.Name, f.Type)
		if err != nil {
			return fmt.Errorf("%w: field %s of %s: %v", ErrNotInterface, f.Name, typ, err)
		}
		mi := methodInfo{index: idx, depth: len(prefix), name: f.Name, typ: f.Type, kind: kind, tag: tag, hasTag: hasTag}
		if hasTag && tag == "-" {
			mi.ignore = true
			mi.hasTag = false
			mi.tag = ""
		}
		if f.Type.NumOut() > 0 {
			mi.out = f.Type.Out(0)
		}
		meta.methods = append(meta.methods, mi)
	}
	return nil
}

// methodField walks index from the descriptor struct v, allocating nil
// embedded pointers on the way.
func methodField(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// classify checks the func shape of a method field. It returns a plain error
// describing the problem; the caller adds context.
func classify(name string, ft reflect.Type) (methodKind, error) {
	switch name {
	case "String":
		if ft.NumIn() != 0 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.String {
			return 0, fmt.Errorf("method String must be func() string, got %s", ft)
		}
		return kindString, nil
	case "Hash":
		if ft.NumIn() != 0 || ft.NumOut() != 1 || !isInteger(ft.Out(0).Kind()) {
			return 0, fmt.Errorf("method Hash must return a single integer, got %s", ft)
		}
		return kindHash, nil
	case "Equal":
		if ft.NumIn() != 1 || ft.IsVariadic() || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Bool {
			return 0, fmt.Errorf("method Equal must be func(any) bool, got %s", ft)
		}
		return kindEqual, nil
	case "GoString", "Format":
		return kindUnsupported, nil
	}
	if ft.NumIn() != 0 {
		return 0, fmt.Errorf("takes %d arguments, methods take none", ft.NumIn())
	}
	switch ft.NumOut() {
	case 1:
		return kindValue, nil
	case 2:
		switch ft.Out(1) {
		case boolType:
			return kindPresence, nil
		case errorType:
			return kindChecked, nil
		}
		return 0, fmt.Errorf("second result must be bool or error, got %s", ft.Out(1))
	}
	return 0, fmt.Errorf("must return one value, optionally followed by bool or error, got %s", ft)
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func indirectType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// mappingOf returns the map behind record, following one pointer.
func mappingOf(record any) (reflect.Value, bool) {
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return reflect.Value{}, false
	}
	return rv, true
}
