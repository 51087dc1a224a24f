package adaptr

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key sources, reported in debug logs.
const (
	sourceTag        = "tag"
	sourceTarget     = "target"
	sourceGlobal     = "global"
	sourceConvention = "convention"
)

// DeriveKey applies the getter naming convention to a method name:
// GetFullName and getFullName become fullName, IsActive and isActive become
// active. Names that are exactly a prefix (get, Get, is, Is) and names without
// a prefix are returned unchanged.
func DeriveKey(method string) string {
	if rest, ok := cutPrefix(method, "get", "Get"); ok {
		return lowerFirst(rest)
	}
	if rest, ok := cutPrefix(method, "is", "Is"); ok {
		return lowerFirst(rest)
	}
	return method
}

func cutPrefix(s string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(s, p); ok && rest != "" {
			return rest, true
		}
	}
	return "", false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// keyFor resolves the record key of a method. Precedence: struct tag, override
// registered for the descriptor type, global override, naming convention.
// Nothing is cached; registrations made after adaptation are visible.
func (a *Adapter) keyFor(target reflect.Type, name, tag string, hasTag bool) (string, string) {
	if hasTag {
		return tag, sourceTag
	}
	reg := a.overrides.Load().(*overrideRegistry)
	if target != nil {
		if k, ok := reg.byTarget[target][name]; ok {
			return k, sourceTarget
		}
	}
	if k, ok := reg.global[name]; ok {
		return k, sourceGlobal
	}
	return DeriveKey(name), sourceConvention
}
