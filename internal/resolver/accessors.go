package resolver

import (
	"slices"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
	"github.com/jfxcore/compiler/internal/diagnostics"
)

// accessor is one way of finding an accessor method: the method names it
// accepts and the shape a matching method must have.
type accessor struct {
	names []string
	shape func(*classpath.Method) bool
}

// anyName returns the first method in c's hierarchy whose name is any of
// the candidate names. Hierarchy order wins over name order.
func (a accessor) anyName(r *Resolver, c *classpath.Class) (*classpath.Method, error) {
	return r.FindMethod(c, func(m *classpath.Method) bool {
		return slices.Contains(a.names, m.Name()) && a.shape(m)
	})
}

// firstName searches the whole hierarchy once per candidate name. Name
// order wins over hierarchy order.
func (a accessor) firstName(r *Resolver, c *classpath.Class) (*classpath.Method, error) {
	for _, name := range a.names {
		m, err := r.FindMethod(c, func(m *classpath.Method) bool {
			return m.Name() == name && a.shape(m)
		})
		if err != nil || m != nil {
			return m, err
		}
	}
	return nil, nil
}

func isPublic(m *classpath.Method) bool { return m.Modifiers().Has(classpath.Public) }
func isStatic(m *classpath.Method) bool { return m.Modifiers().Has(classpath.Static) }

// returnType is the erased return type, or nil when it cannot be loaded.
// Such methods never match an accessor shape.
func returnType(m *classpath.Method) *classpath.Class {
	ret, err := m.ReturnType()
	if err != nil {
		return nil
	}
	return ret
}

func parameterTypes(m *classpath.Method) []*classpath.Class {
	params, err := m.ParameterTypes()
	if err != nil {
		return nil
	}
	return params
}

func isVoid(c *classpath.Class) bool { return c != nil && c.Name() == "void" }

// sameClass treats a nil constraint as matching anything.
func sameClass(constraint, c *classpath.Class) bool {
	return constraint == nil || constraint.Equal(c)
}

func getterShape(returns *classpath.Class) func(*classpath.Method) bool {
	return func(m *classpath.Method) bool {
		if !isPublic(m) || m.ParameterCount() != 0 {
			return false
		}
		ret := returnType(m)
		return ret != nil && !isVoid(ret) && sameClass(returns, ret)
	}
}

func setterShape(param *classpath.Class) func(*classpath.Method) bool {
	return func(m *classpath.Method) bool {
		if !isPublic(m) || m.ParameterCount() != 1 || !isVoid(returnType(m)) {
			return false
		}
		params := parameterTypes(m)
		return len(params) == 1 && sameClass(param, params[0])
	}
}

func staticGetterShape(receiver *classpath.Class) func(*classpath.Method) bool {
	return func(m *classpath.Method) bool {
		if !isPublic(m) || !isStatic(m) || m.ParameterCount() != 1 {
			return false
		}
		ret := returnType(m)
		if ret == nil || isVoid(ret) {
			return false
		}
		params := parameterTypes(m)
		return len(params) == 1 && receiver.SubtypeOf(params[0])
	}
}

func staticSetterShape(receiver, param *classpath.Class) func(*classpath.Method) bool {
	return func(m *classpath.Method) bool {
		if !isPublic(m) || m.ParameterCount() != 2 || !isVoid(returnType(m)) {
			return false
		}
		params := parameterTypes(m)
		return len(params) == 2 && receiver.SubtypeOf(params[0]) && sameClass(param, params[1])
	}
}

// propertyGetterShape accepts methods returning an observable value. With a
// receiver the method must be static and take the receiver as its only
// argument; without one it takes no arguments.
func propertyGetterShape(observable, receiver *classpath.Class) func(*classpath.Method) bool {
	return func(m *classpath.Method) bool {
		if !isPublic(m) || (receiver != nil && !isStatic(m)) {
			return false
		}
		ret := returnType(m)
		if ret == nil || !ret.SubtypeOf(observable) {
			return false
		}
		if receiver == nil {
			return m.ParameterCount() == 0
		}
		params := parameterTypes(m)
		return len(params) == 1 && receiver.SubtypeOf(params[0])
	}
}

// ResolveGetter is TryResolveGetter failing with a member-not-found
// diagnostic.
func (r *Resolver) ResolveGetter(c *classpath.Class, name string, verbatim bool, returns *classpath.Class) (*classpath.Method, error) {
	m, err := r.TryResolveGetter(c, name, verbatim, returns)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, diagnostics.MemberNotFound(r.source, c.JavaName(), name)
	}
	return m, nil
}

// TryResolveGetter finds a public zero-argument method that returns a
// value. Unless verbatim, getName and isName are accepted for a lower-case
// name. A non-nil returns constrains the erased return type.
func (r *Resolver) TryResolveGetter(c *classpath.Class, name string, verbatim bool, returns *classpath.Class) (*classpath.Method, error) {
	return memo(r, newKey("tryResolveGetter", c, name, verbatim, returns), func() (*classpath.Method, error) {
		return accessor{getterNames(name, verbatim), getterShape(returns)}.anyName(r, c)
	})
}

// ResolveSetter is TryResolveSetter failing with a member-not-found
// diagnostic.
func (r *Resolver) ResolveSetter(c *classpath.Class, name string, verbatim bool, param *classpath.Class) (*classpath.Method, error) {
	m, err := r.TryResolveSetter(c, name, verbatim, param)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, diagnostics.MemberNotFound(r.source, c.JavaName(), name)
	}
	return m, nil
}

// TryResolveSetter finds a public void method taking one argument, named
// name or, unless verbatim, setName.
func (r *Resolver) TryResolveSetter(c *classpath.Class, name string, verbatim bool, param *classpath.Class) (*classpath.Method, error) {
	return memo(r, newKey("tryResolveSetter", c, name, verbatim, param), func() (*classpath.Method, error) {
		return accessor{setterNames(name, verbatim), setterShape(param)}.anyName(r, c)
	})
}

// TryResolveStaticGetter finds the getter of an attached property, such as
// GridPane.getRowIndex(Node), declared by declaring and applicable to
// receiver.
func (r *Resolver) TryResolveStaticGetter(declaring, receiver *classpath.Class, name string, verbatim bool) (*classpath.Method, error) {
	key := newKey("tryResolveStaticGetter", declaring, receiver, name, verbatim)
	return memo(r, key, func() (*classpath.Method, error) {
		return accessor{getterNames(name, verbatim), staticGetterShape(receiver)}.anyName(r, declaring)
	})
}

// TryResolveStaticSetter finds the setter of an attached property. Its
// first parameter must accept receiver.
func (r *Resolver) TryResolveStaticSetter(declaring, receiver *classpath.Class, name string, verbatim bool, param *classpath.Class) (*classpath.Method, error) {
	key := newKey("tryResolveStaticSetter", declaring, receiver, name, verbatim, param)
	return memo(r, key, func() (*classpath.Method, error) {
		return accessor{setterNames(name, verbatim), staticSetterShape(receiver, param)}.anyName(r, declaring)
	})
}

// GetterInfo is a resolved property getter. Verbatim is set when the
// method name equals the requested property name.
type GetterInfo struct {
	Method   *classpath.Method
	Verbatim bool
}

// TryResolvePropertyGetter finds a method returning the observable value
// that backs a property, like textProperty(). A non-nil receiver looks for
// an attached property getter instead. Candidate names are tried in the
// order name, nameProperty, getName, isName.
func (r *Resolver) TryResolvePropertyGetter(declaring, receiver *classpath.Class, name string) (*GetterInfo, error) {
	return memo(r, newKey("tryResolvePropertyGetter", declaring, receiver, name), func() (*GetterInfo, error) {
		observable, err := r.lookup(config.ObservableValueClassName)
		if err != nil {
			return nil, err
		}
		names := []string{name, PropertyGetterName(name)}
		if startsLower(name) {
			names = append(names, GetterName(name, false), GetterName(name, true))
		}
		m, err := accessor{names, propertyGetterShape(observable, receiver)}.firstName(r, declaring)
		if err != nil || m == nil {
			return nil, err
		}
		return &GetterInfo{Method: m, Verbatim: m.Name() == name}, nil
	})
}
