package resolver

import (
	"fmt"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/diagnostics"
	"github.com/jfxcore/compiler/internal/typesystem"
)

// ResolveType resolves a type as written in markup, for example
// "ObservableList<? extends Node>[]". Class names are resolved against the
// unit's imports and explicit arguments are checked against their bounds.
func (r *Resolver) ResolveType(expr string) (*typeInstance, error) {
	sig, err := classpath.ParseType(expr)
	if err != nil {
		return nil, r.wrap(err)
	}
	return r.resolveTypeSig(sig)
}

func (r *Resolver) resolveTypeSig(t classpath.TypeSig) (*typeInstance, error) {
	switch t := t.(type) {
	case *classpath.BaseType:
		return r.primitiveType(t.Name)

	case *classpath.ArrayType:
		comp, err := r.resolveTypeSig(t.Component)
		if err != nil {
			return nil, err
		}
		return comp.WithDimensions(comp.Dimensions() + t.Dims), nil

	case *classpath.ClassType:
		c, err := r.ResolveClassAgainstImports(t.Name)
		if err != nil {
			return nil, err
		}
		args := make([]*typeInstance, 0, len(t.Args))
		for _, ta := range t.Args {
			if ta.Type == nil {
				obj, err := r.objectType()
				if err != nil {
					return nil, err
				}
				args = append(args, obj.WithWildcard(typesystem.WildcardAny))
				continue
			}
			arg, err := r.resolveTypeSig(ta.Type)
			if err != nil {
				return nil, err
			}
			args = append(args, arg.WithWildcard(wildcardOf(ta.Kind)))
		}
		return r.TypeInstanceWithArgs(c, args)
	}
	return nil, diagnostics.Internal(r.source, fmt.Errorf("unsupported type %v", t))
}
