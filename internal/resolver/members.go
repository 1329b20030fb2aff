package resolver

import (
	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/diagnostics"
)

// ResolveField is TryResolveField failing with a member-not-found diagnostic.
func (r *Resolver) ResolveField(c *classpath.Class, name string, publicOnly bool) (*classpath.Field, error) {
	f, err := r.TryResolveField(c, name, publicOnly)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, diagnostics.MemberNotFound(r.source, c.JavaName(), name)
	}
	return f, nil
}

// TryResolveField searches c and then its superclasses. With publicOnly,
// private fields are skipped.
func (r *Resolver) TryResolveField(c *classpath.Class, name string, publicOnly bool) (*classpath.Field, error) {
	return memo(r, newKey("tryResolveField", c, name, publicOnly), func() (*classpath.Field, error) {
		for k := c; k != nil; {
			for _, f := range k.DeclaredFields() {
				if publicOnly && f.Modifiers().Has(classpath.Private) {
					continue
				}
				if f.Name() == name {
					return f, nil
				}
			}
			super, err := k.Superclass()
			if err != nil {
				return nil, r.wrap(err)
			}
			k = super
		}
		return nil, nil
	})
}

// FindMethod returns the first method accepted by pred: declared
// non-synthetic methods of c first, then each implemented interface depth
// first, then the superclass.
func (r *Resolver) FindMethod(c *classpath.Class, pred func(*classpath.Method) bool) (*classpath.Method, error) {
	for _, m := range c.DeclaredMethods() {
		if !m.IsSynthetic() && pred(m) {
			return m, nil
		}
	}
	ifaces, err := c.Interfaces()
	if err != nil {
		return nil, r.wrap(err)
	}
	for _, ic := range ifaces {
		if m, err := r.FindMethod(ic, pred); err != nil || m != nil {
			return m, err
		}
	}
	super, err := c.Superclass()
	if err != nil {
		return nil, r.wrap(err)
	}
	if super != nil {
		return r.FindMethod(super, pred)
	}
	return nil, nil
}

// ResolveMethod finds a method by name that also satisfies pred, which may
// be nil.
func (r *Resolver) ResolveMethod(c *classpath.Class, name string, pred func(*classpath.Method) bool) (*classpath.Method, error) {
	m, err := r.FindMethod(c, func(m *classpath.Method) bool {
		return m.Name() == name && (pred == nil || pred(m))
	})
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, diagnostics.MemberNotFound(r.source, c.JavaName(), name)
	}
	return m, nil
}

// TryResolveMethod returns the first of c's non-private methods, inherited
// ones included, that pred accepts.
func (r *Resolver) TryResolveMethod(c *classpath.Class, pred func(*classpath.Method) bool) (*classpath.Method, error) {
	methods, err := c.Methods()
	if err != nil {
		return nil, r.wrap(err)
	}
	for _, m := range methods {
		if pred(m) {
			return m, nil
		}
	}
	return nil, nil
}

// ResolveMethods returns every non-private method of c that pred accepts.
func (r *Resolver) ResolveMethods(c *classpath.Class, pred func(*classpath.Method) bool) ([]*classpath.Method, error) {
	methods, err := c.Methods()
	if err != nil {
		return nil, r.wrap(err)
	}
	var res []*classpath.Method
	for _, m := range methods {
		if pred(m) {
			res = append(res, m)
		}
	}
	return res, nil
}
