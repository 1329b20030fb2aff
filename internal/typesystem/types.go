package typesystem

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
)

// Wildcard is the variance marker of a type argument.
type Wildcard int

const (
	WildcardNone Wildcard = iota
	WildcardAny
	WildcardLower
	WildcardUpper
)

// WildcardOf maps a signature token (' ', '*', '-', '+') to a Wildcard.
func WildcardOf(token byte) (Wildcard, error) {
	switch token {
	case ' ':
		return WildcardNone, nil
	case '*':
		return WildcardAny, nil
	case '-':
		return WildcardLower, nil
	case '+':
		return WildcardUpper, nil
	}
	return WildcardNone, fmt.Errorf("invalid wildcard token %q", token)
}

func (w Wildcard) String() string {
	switch w {
	case WildcardAny:
		return "ANY"
	case WildcardLower:
		return "LOWER"
	case WildcardUpper:
		return "UPPER"
	}
	return "NONE"
}

// ErrPrimitiveArguments is returned when type arguments are given to a
// primitive or a primitive wrapper.
var ErrPrimitiveArguments = errors.New("primitive types cannot have type arguments")

// TypeInstance is a raw class together with its type arguments, array
// dimensions, wildcard marker and the instantiated supertypes. Instances are
// immutable once the resolver has finished building them; supertype lists
// may refer back to instances further down the hierarchy, so the supertype
// graph can be cyclic. The argument graph never is.
type TypeInstance struct {
	class    *classpath.Class
	args     []*TypeInstance
	supers   []*TypeInstance
	dims     int
	wildcard Wildcard
}

// New creates an instance of class. If class is an array class its
// dimensions move onto the instance and the component becomes the raw class.
func New(class *classpath.Class, args, supers []*TypeInstance, wildcard Wildcard) (*TypeInstance, error) {
	return NewWithDimensions(class, 0, args, supers, wildcard)
}

func NewWithDimensions(class *classpath.Class, dims int, args, supers []*TypeInstance, wildcard Wildcard) (*TypeInstance, error) {
	if class.IsArray() {
		dims += class.Dimensions()
		class = class.Component()
	}
	if len(args) > 0 && (class.IsPrimitive() || classpath.IsBoxName(class.Name())) {
		return nil, fmt.Errorf("%s: %w", class.Name(), ErrPrimitiveArguments)
	}
	return &TypeInstance{
		class:    class,
		args:     append([]*TypeInstance(nil), args...),
		supers:   append([]*TypeInstance(nil), supers...),
		dims:     dims,
		wildcard: wildcard,
	}, nil
}

// Of is the raw instance of class with no arguments and no supertypes.
func Of(class *classpath.Class) *TypeInstance {
	t, _ := NewWithDimensions(class, 0, nil, nil, WildcardNone)
	return t
}

// AddSuperType appends a direct supertype. Only the resolver calls this,
// while it is still building t.
func (t *TypeInstance) AddSuperType(s *TypeInstance) {
	t.supers = append(t.supers, s)
}

// Class is the raw component class; dimensions are not included.
func (t *TypeInstance) Class() *classpath.Class { return t.class }

// RawClass is the erased class including array dimensions.
func (t *TypeInstance) RawClass() *classpath.Class { return classpath.ArrayOf(t.class, t.dims) }

// Arguments must not be modified by callers.
func (t *TypeInstance) Arguments() []*TypeInstance { return t.args }

// SuperTypes must not be modified by callers.
func (t *TypeInstance) SuperTypes() []*TypeInstance { return t.supers }

func (t *TypeInstance) Dimensions() int    { return t.dims }
func (t *TypeInstance) Wildcard() Wildcard { return t.wildcard }
func (t *TypeInstance) IsArray() bool      { return t.dims > 0 }
func (t *TypeInstance) IsPrimitive() bool  { return t.dims == 0 && t.class.IsPrimitive() }

// IsRaw reports a generic class used without type arguments.
func (t *TypeInstance) IsRaw() bool {
	return len(t.args) == 0 && t.class.IsGeneric()
}

func (t *TypeInstance) isObject() bool {
	return t.dims == 0 && len(t.args) == 0 && t.class.Name() == config.ObjectClassName
}

func (t *TypeInstance) with(f func(c *TypeInstance)) *TypeInstance {
	c := *t
	f(&c)
	return &c
}

// WithDimensions returns a copy with exactly n dimensions.
func (t *TypeInstance) WithDimensions(n int) *TypeInstance {
	if n == t.dims {
		return t
	}
	return t.with(func(c *TypeInstance) { c.dims = n })
}

func (t *TypeInstance) WithWildcard(w Wildcard) *TypeInstance {
	if w == t.wildcard {
		return t
	}
	return t.with(func(c *TypeInstance) { c.wildcard = w })
}

// ComponentType drops all array dimensions.
func (t *TypeInstance) ComponentType() *TypeInstance {
	return t.WithDimensions(0)
}

// Erased drops the type arguments but keeps supertypes.
func (t *TypeInstance) Erased() *TypeInstance {
	if len(t.args) == 0 {
		return t
	}
	return t.with(func(c *TypeInstance) { c.args = nil })
}

type visitPair struct {
	a, b *TypeInstance
}

// Equal compares raw class, dimensions and arguments recursively. Wildcards
// and supertypes do not take part.
func (t *TypeInstance) Equal(o *TypeInstance) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if len(t.args) == 0 && len(o.args) == 0 {
		return t.dims == o.dims && t.class.Equal(o.class)
	}
	return t.equalVisited(o, set.New[visitPair](4))
}

func (t *TypeInstance) equalVisited(o *TypeInstance, visited *set.Set[visitPair]) bool {
	if t == o {
		return true
	}
	p := visitPair{t, o}
	if visited.Contains(p) {
		return true
	}
	visited.Insert(p)
	if t.dims != o.dims || len(t.args) != len(o.args) || !t.class.Equal(o.class) {
		return false
	}
	for i := range t.args {
		if !t.args[i].equalVisited(o.args[i], visited) {
			return false
		}
	}
	return true
}

// ArgumentsEqual compares two argument lists element-wise.
func ArgumentsEqual(a, b []*TypeInstance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// SubtypeOf is raw subtyping with matching dimensions. Everything is a
// subtype of the root object type.
func (t *TypeInstance) SubtypeOf(other *TypeInstance) bool {
	if other.isObject() {
		return true
	}
	return other.dims == t.dims && t.class.SubtypeOf(other.class)
}

// SubtypeOfClass is SubtypeOf against an erased class.
func (t *TypeInstance) SubtypeOfClass(other *classpath.Class) bool {
	dims := other.Dimensions()
	comp := other.Component()
	if dims == 0 && comp.Name() == config.ObjectClassName {
		return true
	}
	return dims == t.dims && t.class.SubtypeOf(comp)
}
