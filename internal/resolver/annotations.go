package resolver

import "github.com/jfxcore/compiler/internal/classpath"

// TryResolveClassAnnotation finds the annotation with the given binary type
// name on c or one of its superclasses. Run-time visible annotations anywhere
// on the chain win over invisible ones.
func (r *Resolver) TryResolveClassAnnotation(c *classpath.Class, name string) (*classpath.Annotation, error) {
	return memo(r, newKey("tryResolveClassAnnotation", c, name), func() (*classpath.Annotation, error) {
		match := func(a *classpath.Annotation) bool { return a.TypeName() == name }
		for _, visible := range []bool{true, false} {
			for k := c; k != nil; {
				if a := classpath.FindAnnotation(k.Annotations(), visible, match); a != nil {
					return a, nil
				}
				super, err := k.Superclass()
				if err != nil {
					return nil, r.wrap(err)
				}
				k = super
			}
		}
		return nil, nil
	})
}

// TryResolveMethodAnnotation finds an annotation declared on m, preferring
// run-time visible ones. With simpleName, name is compared to the last
// segment of the annotation's type name.
func (r *Resolver) TryResolveMethodAnnotation(m *classpath.Method, name string, simpleName bool) *classpath.Annotation {
	match := func(a *classpath.Annotation) bool {
		if simpleName {
			return a.SimpleName() == name
		}
		return a.TypeName() == name
	}
	if a := classpath.FindAnnotation(m.Annotations(), true, match); a != nil {
		return a
	}
	return classpath.FindAnnotation(m.Annotations(), false, match)
}
