package resolver

import (
	"errors"
	"strings"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
	"github.com/jfxcore/compiler/internal/diagnostics"
)

// ResolveClass is TryResolveClass failing with a class-not-found diagnostic.
func (r *Resolver) ResolveClass(name string) (*classpath.Class, error) {
	c, err := r.TryResolveClass(name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, diagnostics.ClassNotFound(r.source, name)
	}
	return c, nil
}

// TryResolveClass resolves a fully qualified name. Trailing "[]" pairs
// become array dimensions and a "<...>" suffix is ignored. A dotted name
// that is not found is retried with its last dots turned into '$', one at a
// time from the right, so "a.b.C.D" also finds the nested class "a.b.C$D".
// A nil class with a nil error means nothing matched.
func (r *Resolver) TryResolveClass(name string) (*classpath.Class, error) {
	return memo(r, newKey("tryResolveClass", name), func() (*classpath.Class, error) {
		return r.findClass(name)
	})
}

func (r *Resolver) findClass(name string) (*classpath.Class, error) {
	name = strings.TrimSpace(name)
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSpace(name[:len(name)-2])
		dims++
	}
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	if name == "" {
		return nil, nil
	}

	className := name
	for {
		c, err := r.pool.Lookup(className)
		if err == nil {
			if className != name {
				r.logger.Debug("resolved nested class", "name", name, "class", className)
			}
			return classpath.ArrayOf(c, dims), nil
		}
		if !errors.Is(err, classpath.ErrClassNotFound) {
			return nil, r.wrap(err)
		}
		i := strings.LastIndexByte(className, '.')
		if i < 0 {
			return nil, nil
		}
		className = className[:i] + "$" + className[i+1:]
	}
}

// TryResolveNestedClass looks for a class named name nested in enclosing or
// in one of its superclasses.
func (r *Resolver) TryResolveNestedClass(enclosing *classpath.Class, name string) (*classpath.Class, error) {
	for c := enclosing; c != nil; {
		found, err := r.TryResolveClass(c.Name() + "." + name)
		if err != nil || found != nil {
			return found, err
		}
		super, err := c.Superclass()
		if err != nil {
			return nil, r.wrap(err)
		}
		c = super
	}
	return nil, nil
}

// ResolveClassAgainstImports is TryResolveClassAgainstImports failing with a
// class-not-found diagnostic.
func (r *Resolver) ResolveClassAgainstImports(name string) (*classpath.Class, error) {
	c, err := r.TryResolveClassAgainstImports(name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, diagnostics.ClassNotFound(r.source, name)
	}
	return c, nil
}

// TryResolveClassAgainstImports resolves a possibly unqualified name using
// the unit's imports. See candidateClassNames for the order of attempts.
func (r *Resolver) TryResolveClassAgainstImports(name string) (*classpath.Class, error) {
	key := newKey("tryResolveClassAgainstImports", r.imports, name)
	return memo(r, key, func() (*classpath.Class, error) {
		for _, candidate := range candidateClassNames(r.imports, name) {
			c, err := r.TryResolveClass(candidate)
			if err != nil {
				return nil, err
			}
			if c != nil {
				return c, nil
			}
		}
		return nil, nil
	})
}

// candidateClassNames lists the names tried for an unqualified reference.
// A single-type import whose last segment is name wins outright and yields
// the name itself, the import, and the import read as a nested class.
// Otherwise the name is tried as written, then under every wildcard import
// in declaration order, then in the default namespace unless that is
// already imported by wildcard.
func candidateClassNames(imports []string, name string) []string {
	for _, imp := range imports {
		if strings.HasSuffix(imp, "."+name) {
			dot := strings.LastIndexByte(imp, '.')
			return []string{name, imp, imp[:dot] + "$" + imp[dot+1:]}
		}
	}
	candidates := []string{name}
	defaultImported := false
	for _, imp := range imports {
		if imp == config.DefaultNamespace+".*" {
			defaultImported = true
		}
		if pkg, ok := strings.CutSuffix(imp, "*"); ok {
			candidates = append(candidates, pkg+name)
		}
	}
	if !defaultImported {
		candidates = append(candidates, config.DefaultNamespace+"."+name)
	}
	return candidates
}
