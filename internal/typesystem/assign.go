package typesystem

import (
	"slices"

	"github.com/jfxcore/compiler/internal/classpath"
)

// AssignmentContext selects which conversions an assignment may use.
type AssignmentContext int

const (
	// Strict allows identity and primitive widening only.
	Strict AssignmentContext = iota
	// Loose additionally allows boxing and unboxing.
	Loose
)

// wideningSources lists, per numeric primitive target, the primitives that
// widen into it.
var wideningSources = map[string][]string{
	"char":   {"char"},
	"byte":   {"byte"},
	"short":  {"short", "byte"},
	"int":    {"int", "short", "char", "byte"},
	"long":   {"long", "int", "short", "char", "byte"},
	"float":  {"float", "long", "int", "short", "char", "byte"},
	"double": {"double", "float", "long", "int", "short", "char", "byte"},
}

// IsAssignableFrom reports whether a value of type from can be assigned to t.
func (t *TypeInstance) IsAssignableFrom(from *TypeInstance, ctx AssignmentContext) bool {
	if t.Equal(from) {
		return true
	}

	target, source := t.class.Name(), from.class.Name()
	scalar := t.dims == 0 && from.dims == 0

	if scalar && classpath.IsNumericPrimitiveName(target) && classpath.IsNumericName(source) {
		if ctx == Loose {
			if p, ok := classpath.UnboxName(source); ok {
				source = p
			}
		}
		return slices.Contains(wideningSources[target], source)
	}

	if ctx == Loose && scalar && classpath.IsBoxOf(source, target) {
		return true
	}

	if ctx == Loose && from.IsPrimitive() {
		if t.dims != 0 {
			return false
		}
		boxName, ok := classpath.BoxName(source)
		if !ok {
			return false
		}
		box, err := from.class.Pool().Lookup(boxName)
		return err == nil && box.SubtypeOf(t.class)
	}

	if t.dims != from.dims {
		return t.isObject()
	}

	if len(t.args) > 0 && len(t.args) != len(from.args) {
		for _, s := range from.supers {
			if t.IsAssignableFrom(s, ctx) {
				return true
			}
		}
		return false
	}

	if !from.class.SubtypeOf(t.class) {
		return false
	}

	for i, ta := range t.args {
		fa := from.args[i]
		switch ta.wildcard {
		case WildcardLower:
			if !ta.SubtypeOf(fa) {
				return false
			}
		case WildcardUpper:
			if !fa.SubtypeOf(ta) {
				return false
			}
		case WildcardNone:
			if !ta.Equal(fa) {
				return false
			}
		}
	}
	return true
}

// IsConvertibleFrom additionally accepts direct boxing and unboxing between a
// primitive and its own wrapper in either direction.
func (t *TypeInstance) IsConvertibleFrom(from *TypeInstance) bool {
	if t.dims == 0 && from.dims == 0 {
		target, source := t.class.Name(), from.class.Name()
		if classpath.IsBoxOf(target, source) || classpath.IsBoxOf(source, target) {
			return true
		}
	}
	return t.IsAssignableFrom(from, Loose)
}
