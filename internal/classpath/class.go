package classpath

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jfxcore/compiler/internal/config"
)

// Modifier is a bit set of access and declaration flags.
type Modifier uint32

const (
	Public Modifier = 1 << iota
	Private
	Protected
	Static
	Final
	Abstract
	Synthetic
)

var modifierNames = map[string]Modifier{
	"public":    Public,
	"private":   Private,
	"protected": Protected,
	"static":    Static,
	"final":     Final,
	"abstract":  Abstract,
	"synthetic": Synthetic,
}

// ParseModifiers converts manifest modifier names into a bit set.
func ParseModifiers(names []string) (Modifier, error) {
	var m Modifier
	for _, n := range names {
		bit, ok := modifierNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", n)
		}
		m |= bit
	}
	return m, nil
}

func (m Modifier) Has(flag Modifier) bool {
	return m&flag != 0
}

func (m Modifier) String() string {
	var parts []string
	for name, bit := range modifierNames {
		if m.Has(bit) {
			parts = append(parts, name)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}

// Kind distinguishes the shapes a Class can take.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindPrimitive
	KindArray
)

// Class describes one class of the universe. Instances are immutable once
// their pool hands them out; signatures are parsed lazily.
type Class struct {
	name       string
	kind       Kind
	modifiers  Modifier
	superSrc   string
	ifaceSrcs  []string
	typeParams []string
	fields     []*Field
	methods    []*Method
	ctors      []*Method
	annots     []*Annotation
	component  *Class
	dims       int
	pool       Pool
	spec       ClassSpec

	sigOnce sync.Once
	sig     *ClassSignature
	sigErr  error
}

func newPrimitive(name string, pool Pool) *Class {
	return &Class{name: name, kind: KindPrimitive, modifiers: Public | Final, pool: pool}
}

// newClass builds a class from a manifest entry that already had its
// defaults applied.
func newClass(spec ClassSpec, pool Pool) (*Class, error) {
	mods, err := ParseModifiers(spec.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", spec.Name, err)
	}
	c := &Class{
		name:       spec.Name,
		kind:       KindClass,
		modifiers:  mods,
		superSrc:   spec.Superclass,
		ifaceSrcs:  spec.Interfaces,
		typeParams: spec.TypeParameters,
		annots:     newAnnotations(spec.Annotations),
		pool:       pool,
		spec:       spec,
	}
	if spec.Kind == "interface" {
		c.kind = KindInterface
		c.modifiers |= Abstract
	}
	for _, fs := range spec.Fields {
		fm, err := ParseModifiers(fs.Modifiers)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", spec.Name, fs.Name, err)
		}
		c.fields = append(c.fields, &Field{name: fs.Name, modifiers: fm, typeSrc: fs.Type, declaring: c})
	}
	for _, ms := range spec.Methods {
		m, err := newMethod(ms, c, false)
		if err != nil {
			return nil, err
		}
		c.methods = append(c.methods, m)
	}
	for _, ms := range spec.Constructors {
		m, err := newMethod(ms, c, true)
		if err != nil {
			return nil, err
		}
		c.ctors = append(c.ctors, m)
	}
	return c, nil
}

// ArrayOf returns the array class with dims more dimensions than c.
func ArrayOf(c *Class, dims int) *Class {
	if dims <= 0 {
		return c
	}
	if c.kind == KindArray {
		return ArrayOf(c.component, c.dims+dims)
	}
	return &Class{
		name:      c.name + strings.Repeat("[]", dims),
		kind:      KindArray,
		modifiers: Public | Final,
		component: c,
		dims:      dims,
		pool:      c.pool,
	}
}

// Name is the binary name, e.g. "a.b.Outer$Inner" or "int[][]".
func (c *Class) Name() string { return c.name }

// JavaName is the source-level name with nested classes dot-separated.
func (c *Class) JavaName() string {
	return strings.ReplaceAll(c.name, "$", ".")
}

func (c *Class) SimpleName() string {
	n := c.Component().name
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		n = n[i+1:]
	}
	if i := strings.LastIndexByte(n, '$'); i >= 0 {
		n = n[i+1:]
	}
	return n + strings.Repeat("[]", c.dims)
}

func (c *Class) PackageName() string {
	n := c.Component().name
	if i := strings.LastIndexByte(n, '.'); i >= 0 {
		return n[:i]
	}
	return ""
}

func (c *Class) Kind() Kind          { return c.kind }
func (c *Class) Modifiers() Modifier { return c.modifiers }
func (c *Class) Pool() Pool          { return c.pool }
func (c *Class) IsInterface() bool   { return c.kind == KindInterface }
func (c *Class) IsPrimitive() bool   { return c.kind == KindPrimitive }
func (c *Class) IsArray() bool       { return c.kind == KindArray }
func (c *Class) Dimensions() int     { return c.dims }

// IsGeneric reports whether the class declares type parameters.
func (c *Class) IsGeneric() bool { return len(c.typeParams) > 0 }

// Component is the element type of an array class, or c itself.
func (c *Class) Component() *Class {
	if c.kind == KindArray {
		return c.component
	}
	return c
}

// Spec returns the manifest entry the class was built from.
func (c *Class) Spec() ClassSpec { return c.spec }

func (c *Class) Equal(other *Class) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c == other || c.name == other.name
}

func (c *Class) String() string { return c.name }

func (c *Class) isObject() bool { return c.name == config.ObjectClassName }

// Superclass returns nil only for primitives and the root object class.
// Interfaces and arrays report the root object class.
func (c *Class) Superclass() (*Class, error) {
	switch {
	case c.kind == KindPrimitive, c.isObject():
		return nil, nil
	case c.kind == KindArray, c.kind == KindInterface, c.superSrc == "":
		return c.pool.Lookup(config.ObjectClassName)
	}
	return c.pool.Lookup(RawName(c.superSrc))
}

func (c *Class) Interfaces() ([]*Class, error) {
	if c.kind == KindArray {
		return c.lookupAll([]string{config.CloneableClassName, config.SerializableClassName})
	}
	names := make([]string, len(c.ifaceSrcs))
	for i, src := range c.ifaceSrcs {
		names[i] = RawName(src)
	}
	return c.lookupAll(names)
}

func (c *Class) lookupAll(names []string) ([]*Class, error) {
	if len(names) == 0 {
		return nil, nil
	}
	res := make([]*Class, 0, len(names))
	for _, n := range names {
		ic, err := c.pool.Lookup(n)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		res = append(res, ic)
	}
	return res, nil
}

// SubtypeOf is the reflexive, transitive raw subtype relation.
func (c *Class) SubtypeOf(other *Class) bool {
	if c == nil || other == nil {
		return false
	}
	if c.Equal(other) {
		return true
	}
	if c.kind == KindPrimitive || other.kind == KindPrimitive {
		return false
	}
	if c.kind == KindArray {
		switch other.name {
		case config.ObjectClassName, config.CloneableClassName, config.SerializableClassName:
			return true
		}
		return other.kind == KindArray && c.elementType().SubtypeOf(other.elementType())
	}
	if super, err := c.Superclass(); err == nil && super != nil && super.SubtypeOf(other) {
		return true
	}
	ifaces, err := c.Interfaces()
	if err != nil {
		return false
	}
	for _, ic := range ifaces {
		if ic.SubtypeOf(other) {
			return true
		}
	}
	return false
}

// elementType peels one array dimension.
func (c *Class) elementType() *Class {
	if c.dims <= 1 {
		return c.component
	}
	return ArrayOf(c.component, c.dims-1)
}

func (c *Class) DeclaredFields() []*Field   { return c.fields }
func (c *Class) DeclaredMethods() []*Method { return c.methods }
func (c *Class) Constructors() []*Method    { return c.ctors }

// Annotations are those declared on c itself, in manifest order.
func (c *Class) Annotations() []*Annotation { return c.annots }

// Methods returns all non-private methods, declared ones first, then those
// inherited from the superclass chain and the interfaces. A method overridden
// in a subclass hides the inherited one.
func (c *Class) Methods() ([]*Method, error) {
	seen := make(map[string]bool)
	var res []*Method
	var walk func(k *Class) error
	walk = func(k *Class) error {
		for _, m := range k.methods {
			if m.modifiers.Has(Private) {
				continue
			}
			key := m.name + m.Descriptor()
			if seen[key] {
				continue
			}
			seen[key] = true
			res = append(res, m)
		}
		super, err := k.Superclass()
		if err != nil {
			return err
		}
		if super != nil {
			if err := walk(super); err != nil {
				return err
			}
		}
		ifaces, err := k.Interfaces()
		if err != nil {
			return err
		}
		for _, ic := range ifaces {
			if err := walk(ic); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(c); err != nil {
		return nil, err
	}
	return res, nil
}

// typeParameters parses the declared type parameters.
func (c *Class) typeParameters() ([]TypeParameter, error) {
	sig, err := c.parseSignature()
	if err != nil {
		return nil, err
	}
	return sig.Params, nil
}

func (c *Class) parseSignature() (*ClassSignature, error) {
	c.sigOnce.Do(func() {
		sig := &ClassSignature{}
		sig.Params, c.sigErr = parseTypeParameters(c.typeParams, nil)
		if c.sigErr != nil {
			return
		}
		vars := typeParameterNames(c.typeParams)
		if c.superSrc != "" && c.kind == KindClass {
			sig.Superclass, c.sigErr = parseClassType(c.superSrc, vars)
		} else if !c.isObject() && c.kind != KindPrimitive && c.kind != KindArray {
			sig.Superclass = &ClassType{Name: config.ObjectClassName}
		}
		if c.sigErr != nil {
			return
		}
		for _, src := range c.ifaceSrcs {
			var it *ClassType
			if it, c.sigErr = parseClassType(src, vars); c.sigErr != nil {
				return
			}
			sig.Interfaces = append(sig.Interfaces, it)
		}
		c.sig = sig
	})
	return c.sig, c.sigErr
}

// Signature returns the generic signature, or nil when the class neither
// declares type parameters nor extends a parameterized type.
func (c *Class) Signature() (*ClassSignature, error) {
	sig, err := c.parseSignature()
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", c.name, err)
	}
	if sig == nil || !c.hasGenericSignature(sig) {
		return nil, nil
	}
	return sig, nil
}

func (c *Class) hasGenericSignature(sig *ClassSignature) bool {
	if len(sig.Params) > 0 {
		return true
	}
	if sig.Superclass != nil && hasGenerics(sig.Superclass) {
		return true
	}
	for _, it := range sig.Interfaces {
		if hasGenerics(it) {
			return true
		}
	}
	return false
}

func parseClassType(src string, vars []string) (*ClassType, error) {
	t, err := ParseType(src, vars...)
	if err != nil {
		return nil, err
	}
	ct, ok := t.(*ClassType)
	if !ok {
		return nil, &SignatureError{Source: src, Msg: "supertype must be a class type"}
	}
	return ct, nil
}

// erasure maps a signature type to its raw class. Type variables erase to
// their first bound, searched in scopes in order.
func erasure(pool Pool, t TypeSig, scopes ...[]TypeParameter) (*Class, error) {
	switch t := t.(type) {
	case *BaseType:
		return pool.Lookup(t.Name)
	case *ClassType:
		return pool.Lookup(t.Name)
	case *ArrayType:
		comp, err := erasure(pool, t.Component, scopes...)
		if err != nil {
			return nil, err
		}
		return ArrayOf(comp, t.Dims), nil
	case *TypeVariable:
		for _, scope := range scopes {
			for _, tp := range scope {
				if tp.Name != t.Name {
					continue
				}
				if len(tp.Bounds) == 0 {
					return pool.Lookup(config.ObjectClassName)
				}
				return erasure(pool, tp.Bounds[0], scopes...)
			}
		}
		return pool.Lookup(config.ObjectClassName)
	}
	return nil, fmt.Errorf("unsupported signature type %T", t)
}

// Field is a declared field.
type Field struct {
	name      string
	modifiers Modifier
	typeSrc   string
	declaring *Class

	sigOnce sync.Once
	sig     TypeSig
	sigErr  error
}

func (f *Field) Name() string           { return f.name }
func (f *Field) Modifiers() Modifier    { return f.modifiers }
func (f *Field) DeclaringClass() *Class { return f.declaring }
func (f *Field) TypeSource() string     { return f.typeSrc }
func (f *Field) String() string         { return f.declaring.name + "." + f.name }

func (f *Field) parse() (TypeSig, error) {
	f.sigOnce.Do(func() {
		vars := typeParameterNames(f.declaring.typeParams)
		f.sig, f.sigErr = ParseType(f.typeSrc, vars...)
		if f.sigErr != nil {
			f.sigErr = fmt.Errorf("field %s: %w", f, f.sigErr)
		}
	})
	return f.sig, f.sigErr
}

// Type is the erased field type.
func (f *Field) Type() (*Class, error) {
	t, err := f.parse()
	if err != nil {
		return nil, err
	}
	params, err := f.declaring.typeParameters()
	if err != nil {
		return nil, err
	}
	return erasure(f.declaring.pool, t, params)
}

// Signature returns nil for fields whose type is not generic.
func (f *Field) Signature() (TypeSig, error) {
	t, err := f.parse()
	if err != nil || !hasGenerics(t) {
		return nil, err
	}
	return t, nil
}

// Method is a declared method or constructor.
type Method struct {
	name       string
	modifiers  Modifier
	returnSrc  string
	paramSrcs  []string
	typeParams []string
	annots     []*Annotation
	declaring  *Class
	ctor       bool

	sigOnce sync.Once
	sig     *MethodSignature
	sigErr  error
}

func newMethod(spec MethodSpec, declaring *Class, ctor bool) (*Method, error) {
	mods, err := ParseModifiers(spec.Modifiers)
	if err != nil {
		return nil, fmt.Errorf("method %s.%s: %w", declaring.name, spec.Name, err)
	}
	m := &Method{
		name:       spec.Name,
		modifiers:  mods,
		returnSrc:  spec.Returns,
		paramSrcs:  spec.Params,
		typeParams: spec.TypeParameters,
		annots:     newAnnotations(spec.Annotations),
		declaring:  declaring,
		ctor:       ctor,
	}
	if ctor {
		m.name = config.ConstructorMethodName
		m.returnSrc = "void"
	}
	return m, nil
}

func (m *Method) Name() string           { return m.name }
func (m *Method) Modifiers() Modifier    { return m.modifiers }
func (m *Method) DeclaringClass() *Class { return m.declaring }
func (m *Method) IsConstructor() bool    { return m.ctor }
func (m *Method) IsSynthetic() bool      { return m.modifiers.Has(Synthetic) }
func (m *Method) ParameterCount() int    { return len(m.paramSrcs) }

func (m *Method) Annotations() []*Annotation { return m.annots }

func (m *Method) String() string {
	return m.declaring.name + "." + m.name + "(" + strings.Join(m.paramSrcs, ", ") + ")"
}

func (m *Method) parse() (*MethodSignature, error) {
	m.sigOnce.Do(func() {
		classVars := typeParameterNames(m.declaring.typeParams)
		sig := &MethodSignature{}
		if sig.TypeParams, m.sigErr = parseTypeParameters(m.typeParams, classVars); m.sigErr != nil {
			m.sigErr = fmt.Errorf("method %s: %w", m, m.sigErr)
			return
		}
		vars := append(typeParameterNames(m.typeParams), classVars...)
		if sig.Return, m.sigErr = ParseType(m.returnSrc, vars...); m.sigErr != nil {
			m.sigErr = fmt.Errorf("method %s: %w", m, m.sigErr)
			return
		}
		for _, src := range m.paramSrcs {
			var p TypeSig
			if p, m.sigErr = ParseType(src, vars...); m.sigErr != nil {
				m.sigErr = fmt.Errorf("method %s: %w", m, m.sigErr)
				return
			}
			sig.Params = append(sig.Params, p)
		}
		m.sig = sig
	})
	return m.sig, m.sigErr
}

// Signature returns nil for methods that mention no type variables and no
// parameterized types.
func (m *Method) Signature() (*MethodSignature, error) {
	sig, err := m.parse()
	if err != nil {
		return nil, err
	}
	if len(sig.TypeParams) > 0 || hasGenerics(sig.Return) {
		return sig, nil
	}
	for _, p := range sig.Params {
		if hasGenerics(p) {
			return sig, nil
		}
	}
	return nil, nil
}

func (m *Method) scopes() ([][]TypeParameter, error) {
	sig, err := m.parse()
	if err != nil {
		return nil, err
	}
	classParams, err := m.declaring.typeParameters()
	if err != nil {
		return nil, err
	}
	return [][]TypeParameter{sig.TypeParams, classParams}, nil
}

// ReturnType is the erased return type.
func (m *Method) ReturnType() (*Class, error) {
	scopes, err := m.scopes()
	if err != nil {
		return nil, err
	}
	return erasure(m.declaring.pool, m.sig.Return, scopes...)
}

// ParameterTypes are the erased parameter types.
func (m *Method) ParameterTypes() ([]*Class, error) {
	scopes, err := m.scopes()
	if err != nil {
		return nil, err
	}
	res := make([]*Class, 0, len(m.sig.Params))
	for _, p := range m.sig.Params {
		c, err := erasure(m.declaring.pool, p, scopes...)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

// Descriptor renders the erased parameter and return types, e.g.
// "(java.lang.String,int)void". Unresolvable types fall back to their
// source text.
func (m *Method) Descriptor() string {
	params, err := m.ParameterTypes()
	ret, rerr := m.ReturnType()
	if err != nil || rerr != nil {
		return "(" + strings.Join(m.paramSrcs, ",") + ")" + m.returnSrc
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.name
	}
	return "(" + strings.Join(names, ",") + ")" + ret.name
}
