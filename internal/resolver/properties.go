package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
	"github.com/jfxcore/compiler/internal/diagnostics"
)

// PropertyInfo describes a resolved property. A property has at least one
// of PropertyGetter and Getter.
type PropertyInfo struct {
	Name string

	// PropertyGetter returns the observable value backing the property,
	// like textProperty().
	PropertyGetter *classpath.Method
	Getter         *classpath.Method
	Setter         *classpath.Method

	// Type is the value type. Observable primitive families yield the
	// primitive, not its box.
	Type           *typeInstance
	ObservableType *typeInstance
	DeclaringType  *typeInstance

	// Static is set for attached properties like GridPane.rowIndex.
	Static bool

	// Writable is set when ObservableType is a writable value.
	Writable bool
}

// IsReadOnly reports a property that can be neither set nor written
// through its observable.
func (p *PropertyInfo) IsReadOnly() bool {
	return p.Setter == nil && !p.Writable
}

// Accessors lists the methods the property was resolved from.
func (p *PropertyInfo) Accessors() []*classpath.Method {
	var res []*classpath.Method
	for _, m := range []*classpath.Method{p.PropertyGetter, p.Getter, p.Setter} {
		if m != nil {
			res = append(res, m)
		}
	}
	return res
}

// ResolveProperty is TryResolveProperty failing with a property-not-found
// diagnostic.
func (r *Resolver) ResolveProperty(declaring *typeInstance, allowQualifiedName bool, names ...string) (*PropertyInfo, error) {
	p, err := r.TryResolveProperty(declaring, allowQualifiedName, names...)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, diagnostics.PropertyNotFound(r.source, declaring.JavaName(), strings.Join(names, "."))
	}
	return p, nil
}

// TryResolveProperty resolves a property of declaring. The last name is the
// property name; any names before it form a class name that qualifies it.
//
// A qualified name first looks for an attached property that applies to
// declaring, trying every class the qualifier can name under the unit's
// imports in turn. Failing that, it falls back to an ordinary property of
// the first such class only when allowQualifiedName is set and declaring is
// a subtype of it.
func (r *Resolver) TryResolveProperty(declaring *typeInstance, allowQualifiedName bool, names ...string) (*PropertyInfo, error) {
	if len(names) == 0 {
		return nil, diagnostics.Internal(r.source, errors.New("empty property name"))
	}
	key := newKey("tryResolveProperty", r.imports, declaring, allowQualifiedName, names)
	return memo(r, key, func() (*PropertyInfo, error) {
		name := names[len(names)-1]
		owner := declaring
		if len(names) > 1 {
			qualifier := strings.Join(names[:len(names)-1], ".")
			owner = nil
			for _, candidate := range candidateClassNames(r.imports, qualifier) {
				c, err := r.TryResolveClass(candidate)
				if err != nil {
					return nil, err
				}
				if c == nil {
					continue
				}
				t, err := r.TypeInstanceOf(c)
				if err != nil {
					return nil, err
				}
				p, err := r.tryResolveStaticProperty(t, declaring, name)
				if err != nil || p != nil {
					return p, err
				}
				if owner == nil {
					owner = t
				}
			}
			if owner == nil || !allowQualifiedName || !declaring.SubtypeOf(owner) {
				return nil, nil
			}
		}
		return r.tryResolveInstanceProperty(owner, name)
	})
}

func (r *Resolver) tryResolveInstanceProperty(declaring *typeInstance, name string) (*PropertyInfo, error) {
	class := declaring.RawClass()
	chain := []*typeInstance{declaring}

	propertyGetter, err := r.TryResolvePropertyGetter(class, nil, name)
	if err != nil {
		return nil, err
	}
	var observable, valueType *typeInstance
	if propertyGetter != nil {
		if observable, err = r.MethodType(propertyGetter.Method, chain, nil); err != nil {
			return nil, err
		}
		if valueType, err = r.FindObservableArgument(observable); err != nil {
			return nil, err
		}
	}

	// A verbatim property getter means the naming convention is not in use,
	// so there is no plain getter to pair it with.
	var getter *classpath.Method
	if propertyGetter == nil || !propertyGetter.Verbatim {
		var returns *classpath.Class
		if valueType != nil {
			returns = valueType.RawClass()
		}
		if getter, err = r.TryResolveGetter(class, name, false, returns); err != nil {
			return nil, err
		}
	}
	if valueType == nil && getter != nil {
		if valueType, err = r.MethodType(getter, chain, nil); err != nil {
			return nil, err
		}
	}
	if valueType == nil {
		return nil, nil
	}

	setter, err := r.TryResolveSetter(class, name, false, setterParameter(getter, valueType))
	if err != nil {
		return nil, err
	}
	return r.newPropertyInfo(name, propertyGetter, getter, setter, valueType, observable, declaring, false)
}

// tryResolveStaticProperty resolves an attached property declared by
// declaring and set on receiver.
func (r *Resolver) tryResolveStaticProperty(declaring, receiver *typeInstance, name string) (*PropertyInfo, error) {
	class, receiverClass := declaring.RawClass(), receiver.RawClass()

	getter, err := r.TryResolveStaticGetter(class, receiverClass, name, false)
	if err != nil {
		return nil, err
	}
	propertyGetter, err := r.TryResolvePropertyGetter(class, receiverClass, name)
	if err != nil {
		return nil, err
	}
	if getter == nil && propertyGetter == nil {
		return nil, nil
	}

	var observable, valueType *typeInstance
	if propertyGetter != nil {
		if observable, err = r.attachedMethodType(propertyGetter.Method, declaring, receiver); err != nil {
			return nil, err
		}
		if valueType, err = r.FindObservableArgument(observable); err != nil {
			return nil, err
		}
		if getter != nil && !propertyGetter.Verbatim {
			getterType, err := r.MethodType(getter, []*typeInstance{declaring}, nil)
			if err != nil {
				return nil, err
			}
			if !valueType.Equal(getterType) {
				getter = nil
			}
		} else {
			getter = nil
		}
	} else if valueType, err = r.attachedMethodType(getter, declaring, receiver); err != nil {
		return nil, err
	}

	setter, err := r.TryResolveStaticSetter(class, receiverClass, name, false, setterParameter(getter, valueType))
	if err != nil {
		return nil, err
	}
	return r.newPropertyInfo(name, propertyGetter, getter, setter, valueType, observable, declaring, true)
}

// attachedMethodType instantiates an attached accessor with the receiver
// bound as its type argument. Accessors that are not generic in the
// receiver are instantiated without arguments instead.
func (r *Resolver) attachedMethodType(m *classpath.Method, declaring, receiver *typeInstance) (*typeInstance, error) {
	chain := []*typeInstance{declaring}
	ti, err := r.MethodType(m, chain, []*typeInstance{receiver})
	if diagnostics.IsCode(err, diagnostics.ErrR004) {
		return r.MethodType(m, chain, nil)
	}
	return ti, err
}

// setterParameter is the parameter type a setter must accept: the erased
// return type of the plain getter if there is one, else the value type.
func setterParameter(getter *classpath.Method, valueType *typeInstance) *classpath.Class {
	if getter != nil {
		if ret := returnType(getter); ret != nil {
			return ret
		}
	}
	return valueType.RawClass()
}

func (r *Resolver) newPropertyInfo(
	name string,
	propertyGetter *GetterInfo,
	getter, setter *classpath.Method,
	valueType, observable, declaring *typeInstance,
	static bool,
) (*PropertyInfo, error) {
	p := &PropertyInfo{
		Name:           name,
		Getter:         getter,
		Setter:         setter,
		Type:           valueType,
		ObservableType: observable,
		DeclaringType:  declaring,
		Static:         static,
	}
	if propertyGetter != nil {
		p.PropertyGetter = propertyGetter.Method
	}
	if observable != nil {
		writable, err := r.TryFindWritableArgument(observable)
		if err != nil {
			return nil, err
		}
		p.Writable = writable != nil
	}
	r.logger.Debug("property resolved",
		"owner", declaring.JavaName(), "name", name, "type", valueType.JavaName(), "static", static)
	return p, nil
}

// valueFamily is a group of observable classes that carry a primitive
// value. The first primitive is the value type; the others widen to it.
type valueFamily struct {
	primitives []string
	observable string
	writable   string
	property   string
}

var valueFamilies = []valueFamily{
	{
		primitives: []string{"boolean"},
		observable: config.ObservableBooleanValueClassName,
		writable:   config.WritableBooleanValueClassName,
		property:   config.BooleanPropertyClassName,
	},
	{
		primitives: []string{"int", "short", "byte", "char"},
		observable: config.ObservableIntegerValueClassName,
		writable:   config.WritableIntegerValueClassName,
		property:   config.IntegerPropertyClassName,
	},
	{
		primitives: []string{"long"},
		observable: config.ObservableLongValueClassName,
		writable:   config.WritableLongValueClassName,
		property:   config.LongPropertyClassName,
	},
	{
		primitives: []string{"float"},
		observable: config.ObservableFloatValueClassName,
		writable:   config.WritableFloatValueClassName,
		property:   config.FloatPropertyClassName,
	},
	{
		primitives: []string{"double"},
		observable: config.ObservableDoubleValueClassName,
		writable:   config.WritableDoubleValueClassName,
		property:   config.DoublePropertyClassName,
	},
}

// holds reports whether a primitive or boxed class name belongs to f.
func (f valueFamily) holds(name string) bool {
	for _, p := range f.primitives {
		if name == p || classpath.IsBoxOf(name, p) {
			return true
		}
	}
	return false
}

// FindObservableArgument is TryFindObservableArgument failing with an
// internal error when t is not an observable value.
func (r *Resolver) FindObservableArgument(t *typeInstance) (*typeInstance, error) {
	arg, err := r.TryFindObservableArgument(t)
	if err != nil {
		return nil, err
	}
	if arg == nil {
		return nil, diagnostics.Internal(r.source, fmt.Errorf("%s is not an observable value", t.JavaName()))
	}
	return arg, nil
}

// TryFindObservableArgument returns the type of the value carried by an
// observable type.
func (r *Resolver) TryFindObservableArgument(t *typeInstance) (*typeInstance, error) {
	return r.findFamilyArgument(t, config.ObservableValueClassName, func(f valueFamily) string { return f.observable })
}

// FindWritableArgument is TryFindWritableArgument failing with an internal
// error when t is not a writable value.
func (r *Resolver) FindWritableArgument(t *typeInstance) (*typeInstance, error) {
	arg, err := r.TryFindWritableArgument(t)
	if err != nil {
		return nil, err
	}
	if arg == nil {
		return nil, diagnostics.Internal(r.source, fmt.Errorf("%s is not a writable value", t.JavaName()))
	}
	return arg, nil
}

// TryFindWritableArgument returns the type of the value accepted by a
// writable type.
func (r *Resolver) TryFindWritableArgument(t *typeInstance) (*typeInstance, error) {
	return r.findFamilyArgument(t, config.WritableValueClassName, func(f valueFamily) string { return f.writable })
}

func (r *Resolver) findFamilyArgument(t *typeInstance, generic string, member func(valueFamily) string) (*typeInstance, error) {
	for _, f := range valueFamilies {
		c, err := r.lookup(member(f))
		if err != nil {
			return nil, err
		}
		if t.SubtypeOfClass(c) {
			return r.primitiveType(f.primitives[0])
		}
	}
	if t.RawClass().Name() == generic {
		if len(t.Arguments()) == 0 {
			return r.objectType()
		}
		return t.Arguments()[0], nil
	}
	for _, s := range t.SuperTypes() {
		arg, err := r.findFamilyArgument(s, generic, member)
		if err != nil || arg != nil {
			return arg, err
		}
	}
	return nil, nil
}

// TryFindArgument returns the first type argument t passes to generic,
// either directly or through one of its supertypes.
func TryFindArgument(t *typeInstance, generic *classpath.Class) *typeInstance {
	if t.RawClass().Equal(generic) {
		if len(t.Arguments()) == 0 {
			return nil
		}
		return t.Arguments()[0]
	}
	for _, s := range t.SuperTypes() {
		if arg := TryFindArgument(s, generic); arg != nil {
			return arg
		}
	}
	return nil
}

// ObservableClassFor maps a value class to the observable class that
// carries it. With requestProperty, property classes map to their property
// family instead.
func (r *Resolver) ObservableClassFor(c *classpath.Class, requestProperty bool) (*classpath.Class, error) {
	pick := func(observable, property string) (*classpath.Class, error) {
		if requestProperty {
			pc, err := r.lookup(property)
			if err != nil {
				return nil, err
			}
			if c.SubtypeOf(pc) {
				return pc, nil
			}
		}
		return r.lookup(observable)
	}
	for _, f := range valueFamilies {
		if f.holds(c.Name()) {
			return pick(f.observable, f.property)
		}
		oc, err := r.lookup(f.observable)
		if err != nil {
			return nil, err
		}
		if c.SubtypeOf(oc) {
			return pick(f.observable, f.property)
		}
	}
	return pick(config.ObservableValueClassName, config.PropertyClassName)
}

// ObservableTypeFor is the observable type that carries values of t:
// a primitive family for primitives and their boxes, else
// ObservableValue<t>.
func (r *Resolver) ObservableTypeFor(t *typeInstance) (*typeInstance, error) {
	if !t.IsArray() && len(t.Arguments()) == 0 {
		for _, f := range valueFamilies {
			if f.holds(t.Class().Name()) {
				c, err := r.lookup(f.observable)
				if err != nil {
					return nil, err
				}
				return r.TypeInstanceOf(c)
			}
		}
	}
	c, err := r.lookup(config.ObservableValueClassName)
	if err != nil {
		return nil, err
	}
	return r.TypeInstanceWithArgs(c, []*typeInstance{t})
}
