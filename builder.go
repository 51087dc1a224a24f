package adaptr

import "reflect"

// Builder provides a fluent API to construct an Adapter with options and key overrides pre-registered.
type Builder struct {
	opts     []Option
	global   map[string]string
	byTarget map[reflect.Type]map[string]string
}

// NewBuilder creates a new builder.
func NewBuilder() *Builder {
	return &Builder{
		global:   make(map[string]string),
		byTarget: make(map[reflect.Type]map[string]string),
	}
}

// WithOptions appends adapter options to the builder.
func (b *Builder) WithOptions(opts ...Option) *Builder { b.opts = append(b.opts, opts...); return b }

// AddOverride registers a global key override by method name.
func (b *Builder) AddOverride(method, key string) *Builder {
	b.global[method] = key
	return b
}

// AddOverrides registers several global key overrides, e.g. from a config file.
func (b *Builder) AddOverrides(overrides map[string]string) *Builder {
	for m, k := range overrides {
		b.global[m] = k
	}
	return b
}

// AddOverrideFor registers a key override for a descriptor type and method name.
func (b *Builder) AddOverrideFor(target any, method, key string) *Builder {
	tt := indirectType(reflect.TypeOf(target))
	m := b.byTarget[tt]
	if m == nil {
		m = make(map[string]string)
		b.byTarget[tt] = m
	}
	m[method] = key
	return b
}

// Build constructs an Adapter using a single registry swap for overrides.
func (b *Builder) Build() *Adapter {
	a := NewWithOptions(b.opts...)
	seed := &overrideRegistry{global: b.global, byTarget: b.byTarget}
	a.overrides.Store(seed.clone())
	return a
}
