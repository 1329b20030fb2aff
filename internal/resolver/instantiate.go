package resolver

import (
	"fmt"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
	"github.com/jfxcore/compiler/internal/diagnostics"
	"github.com/jfxcore/compiler/internal/typesystem"
)

type typeInstance = typesystem.TypeInstance

// TypeInstanceOf instantiates c without explicit type arguments. Type
// parameters fall back to their erased bounds.
func (r *Resolver) TypeInstanceOf(c *classpath.Class) (*typeInstance, error) {
	return memo(r, newKey("typeInstance", c), func() (*typeInstance, error) {
		return r.invokeClass(nil, c, nil)
	})
}

// TypeInstanceWithArgs instantiates c with explicit type arguments, which are
// checked against the declared bounds. Zero arguments behave like
// TypeInstanceOf.
func (r *Resolver) TypeInstanceWithArgs(c *classpath.Class, args []*typeInstance) (*typeInstance, error) {
	if len(args) == 0 {
		return r.TypeInstanceOf(c)
	}
	return memo(r, newKey("typeInstanceArgs", c, args), func() (*typeInstance, error) {
		sig, err := r.classSignature(c)
		if err != nil {
			return nil, err
		}
		if sig == nil {
			return nil, r.mismatch(c.JavaName(), 0, len(args))
		}
		provided, err := r.associateProvidedArguments(c.JavaName(), args, sig.Params, nil)
		if err != nil {
			return nil, err
		}
		return r.invokeClass(nil, c, provided)
	})
}

// MethodType is the instantiated return type of m as seen through the
// invocation chain. Constructors yield their declaring class instantiated
// with args. For methods, args bind the method's own type parameters.
func (r *Resolver) MethodType(m *classpath.Method, chain, args []*typeInstance) (*typeInstance, error) {
	return memo(r, newKey("methodType", m, chain, args), func() (*typeInstance, error) {
		declaring := m.DeclaringClass()
		if m.IsConstructor() {
			return r.TypeInstanceWithArgs(declaring, args)
		}
		msig, err := r.methodSignature(m)
		if err != nil {
			return nil, err
		}
		var ti *typeInstance
		if msig == nil {
			if len(args) > 0 {
				return nil, r.mismatch(m.String(), 0, len(args))
			}
			ret, err := m.ReturnType()
			if err != nil {
				return nil, r.wrap(err)
			}
			ti, err = r.invokeClass(declaring, ret, nil)
			if err != nil {
				return nil, err
			}
		} else {
			csig, err := r.classSignature(declaring)
			if err != nil {
				return nil, err
			}
			provided, err := r.associateProvidedArguments(m.String(), args, nil, msig.TypeParams)
			if err != nil {
				return nil, err
			}
			ti, err = r.invokeSig(declaring, msig.Return, typesystem.WildcardNone,
				classParams(csig), msig.TypeParams, chain, provided)
			if err != nil {
				return nil, err
			}
		}
		if ti == nil {
			return r.objectType()
		}
		return ti, nil
	})
}

// FieldType is the instantiated type of f as seen through the invocation
// chain.
func (r *Resolver) FieldType(f *classpath.Field, chain []*typeInstance) (*typeInstance, error) {
	return memo(r, newKey("fieldType", f, chain), func() (*typeInstance, error) {
		declaring := f.DeclaringClass()
		fsig, err := f.Signature()
		if err != nil {
			return nil, r.wrap(err)
		}
		if fsig == nil {
			ft, err := f.Type()
			if err != nil {
				return nil, r.wrap(err)
			}
			return r.invokeClass(declaring, ft, nil)
		}
		csig, err := r.classSignature(declaring)
		if err != nil {
			return nil, err
		}
		ti, err := r.invokeSig(declaring, fsig, typesystem.WildcardNone, classParams(csig), nil, chain, nil)
		if err != nil {
			return nil, err
		}
		if ti == nil {
			return r.objectType()
		}
		return ti, nil
	})
}

// ParameterTypes instantiates the parameter types of a method or
// constructor. Parameters typed directly by a class type variable take the
// argument bound to that variable in the outermost chain frame that
// instantiates the declaring class.
func (r *Resolver) ParameterTypes(m *classpath.Method, chain, args []*typeInstance) ([]*typeInstance, error) {
	key := newKey("parameterTypes", m, chain, args)
	if r.cacheEnabled {
		if v, state := r.cache.Get(key); state == Present {
			return v.([]*typeInstance), nil
		}
	}
	msig, err := r.methodSignature(m)
	if err != nil {
		return nil, err
	}
	var result []*typeInstance
	if msig == nil {
		if len(args) > 0 {
			return nil, r.mismatch(m.String(), 0, len(args))
		}
		params, err := m.ParameterTypes()
		if err != nil {
			return nil, r.wrap(err)
		}
		for _, p := range params {
			ti, err := r.TypeInstanceOf(p)
			if err != nil {
				return nil, err
			}
			result = append(result, ti.Erased())
		}
	} else {
		csig, err := r.classSignature(m.DeclaringClass())
		if err != nil {
			return nil, err
		}
		assoc, err := r.associateTypeVariables(m, msig, csig, chain, args)
		if err != nil {
			return nil, err
		}
		for _, p := range msig.Params {
			ti, err := r.invokeSig(m.DeclaringClass(), p, typesystem.WildcardNone,
				classParams(csig), msig.TypeParams, chain, assoc)
			if err != nil {
				return nil, err
			}
			if ti == nil {
				if ti, err = r.objectType(); err != nil {
					return nil, err
				}
			}
			result = append(result, ti)
		}
	}
	r.cache.Put(key, result)
	return result, nil
}

func (r *Resolver) classSignature(c *classpath.Class) (*classpath.ClassSignature, error) {
	sig, err := c.Signature()
	if err != nil {
		return nil, r.wrap(err)
	}
	return sig, nil
}

func (r *Resolver) methodSignature(m *classpath.Method) (*classpath.MethodSignature, error) {
	sig, err := m.Signature()
	if err != nil {
		return nil, r.wrap(err)
	}
	return sig, nil
}

func classParams(sig *classpath.ClassSignature) []classpath.TypeParameter {
	if sig == nil {
		return nil
	}
	return sig.Params
}

// invokeClass instantiates a class. With provided arguments every class
// type parameter must be bound; without, each falls back to its bound.
func (r *Resolver) invokeClass(invoking, invoked *classpath.Class, provided map[string]*typeInstance) (*typeInstance, error) {
	if invoked.IsArray() {
		comp, err := r.invokeClass(invoking, invoked.Component(), provided)
		if err != nil {
			return nil, err
		}
		return comp.WithDimensions(invoked.Dimensions()), nil
	}
	sig, err := r.classSignature(invoked)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return r.rawInstance(invoked, typesystem.WildcardNone)
	}
	if len(provided) > 0 && len(provided) != len(sig.Params) {
		return nil, r.mismatch(invoked.JavaName(), len(sig.Params), len(provided))
	}

	args := make([]*typeInstance, 0, len(sig.Params))
	for i := range sig.Params {
		tp := &sig.Params[i]
		if len(provided) > 0 {
			args = append(args, provided[tp.Name])
			continue
		}
		bound, err := r.erasedBound(invoking, tp)
		if err != nil {
			return nil, err
		}
		args = append(args, bound)
	}

	ti, err := typesystem.New(invoked, args, nil, typesystem.WildcardNone)
	if err != nil {
		return nil, r.wrap(err)
	}
	if err := r.addGenericSuperTypes(ti, invoked, sig, []*typeInstance{ti}); err != nil {
		return nil, err
	}
	return ti, nil
}

// erasedBound is the raw fallback for a type parameter nobody bound: the
// class bound, else the first interface bound, else the root object type,
// always without type arguments.
func (r *Resolver) erasedBound(invoking *classpath.Class, tp *classpath.TypeParameter) (*typeInstance, error) {
	classBound, ifaceBounds, err := r.splitBounds(tp)
	if err != nil {
		return nil, err
	}
	var bound *typeInstance
	switch {
	case classBound != nil:
		bound, err = r.invokeSig(invoking, classBound, typesystem.WildcardNone, nil, nil, nil, nil)
	case len(ifaceBounds) > 0:
		bound, err = r.invokeSig(invoking, ifaceBounds[0], typesystem.WildcardNone, nil, nil, nil, nil)
	}
	if err != nil {
		return nil, err
	}
	if bound == nil {
		if bound, err = r.objectType(); err != nil {
			return nil, err
		}
	}
	return bound.Erased(), nil
}

// rawInstance instantiates a class without a generic signature.
func (r *Resolver) rawInstance(c *classpath.Class, w typesystem.Wildcard) (*typeInstance, error) {
	ti, err := typesystem.New(c, nil, nil, w)
	if err != nil {
		return nil, r.wrap(err)
	}
	super, err := c.Superclass()
	if err != nil {
		return nil, r.wrap(err)
	}
	if super != nil {
		st, err := r.TypeInstanceOf(super)
		if err != nil {
			return nil, err
		}
		ti.AddSuperType(st)
	}
	ifaces, err := c.Interfaces()
	if err != nil {
		return nil, r.wrap(err)
	}
	for _, ic := range ifaces {
		st, err := r.TypeInstanceOf(ic)
		if err != nil {
			return nil, err
		}
		ti.AddSuperType(st)
	}
	return ti, nil
}

// addGenericSuperTypes instantiates the declared supertypes of invoked with
// chain ending in ti, so they can refer to ti's arguments.
func (r *Resolver) addGenericSuperTypes(ti *typeInstance, invoked *classpath.Class, sig *classpath.ClassSignature, chain []*typeInstance) error {
	supers := make([]*classpath.ClassType, 0, 1+len(sig.Interfaces))
	if sig.Superclass != nil {
		supers = append(supers, sig.Superclass)
	}
	supers = append(supers, sig.Interfaces...)
	for _, s := range supers {
		st, err := r.invokeSig(invoked, s, typesystem.WildcardNone, sig.Params, nil, chain, nil)
		if err != nil {
			return err
		}
		if st != nil {
			ti.AddSuperType(st)
		}
	}
	return nil
}

// invokeSig instantiates a signature type. classParams and methodParams are
// the type parameters in scope, chain holds the instances the signature is
// seen through (innermost last) and provided binds type variables
// explicitly. The result is nil when a type variable cannot be bound.
func (r *Resolver) invokeSig(
	invoking *classpath.Class,
	t classpath.TypeSig,
	w typesystem.Wildcard,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
	provided map[string]*typeInstance,
) (*typeInstance, error) {
	switch t := t.(type) {
	case nil:
		return nil, nil

	case *classpath.BaseType:
		c, err := r.lookup(t.Name)
		if err != nil {
			return nil, err
		}
		return typesystem.Of(c).WithWildcard(w), nil

	case *classpath.ArrayType:
		comp, err := r.invokeSig(invoking, t.Component, typesystem.WildcardNone, classParams, methodParams, chain, provided)
		if err != nil || comp == nil {
			return nil, err
		}
		return comp.WithDimensions(t.Dims).WithWildcard(w), nil

	case *classpath.ClassType:
		return r.invokeClassType(invoking, t, w, classParams, methodParams, chain, provided)

	case *classpath.TypeVariable:
		if bound, ok := provided[t.Name]; ok && bound != nil {
			if w == typesystem.WildcardNone {
				return bound, nil
			}
			return bound.WithWildcard(w), nil
		}
		return r.findTypeParameter(invoking, t.Name, classParams, methodParams, chain)
	}
	return nil, diagnostics.Internal(r.source, fmt.Errorf("unsupported signature type %T", t))
}

func (r *Resolver) invokeClassType(
	invoking *classpath.Class,
	t *classpath.ClassType,
	w typesystem.Wildcard,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
	provided map[string]*typeInstance,
) (*typeInstance, error) {
	clazz, err := r.ResolveClass(t.Name)
	if err != nil {
		return nil, err
	}
	sig, err := r.classSignature(clazz)
	if err != nil {
		return nil, err
	}
	if sig == nil {
		return r.rawInstance(clazz, w)
	}

	var args []*typeInstance
	if t.Args == nil || len(provided) == 0 {
		args, err = r.invokeTypeArguments(invoking, t, classParams, methodParams, chain)
		if err != nil {
			return nil, err
		}
	} else {
		for _, ta := range t.Args {
			arg, err := r.invokeProvidedArgument(invoking, ta, classParams, methodParams, chain, provided)
			if err != nil {
				return nil, err
			}
			if arg != nil {
				args = append(args, arg)
			}
		}
	}

	ti, err := typesystem.New(clazz, args, nil, w)
	if err != nil {
		return nil, r.wrap(err)
	}
	extended := append(append(make([]*typeInstance, 0, len(chain)+1), chain...), ti)
	if err := r.addGenericSuperTypes(ti, clazz, sig, extended); err != nil {
		return nil, err
	}
	return ti, nil
}

// invokeProvidedArgument returns nil when a type variable stays unbound;
// the caller drops such arguments.
func (r *Resolver) invokeProvidedArgument(
	invoking *classpath.Class,
	ta classpath.TypeArgument,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
	provided map[string]*typeInstance,
) (*typeInstance, error) {
	if ta.Type == nil {
		obj, err := r.objectType()
		if err != nil {
			return nil, err
		}
		return obj.WithWildcard(typesystem.WildcardAny), nil
	}
	return r.invokeSig(invoking, ta.Type, wildcardOf(ta.Kind), classParams, methodParams, chain, provided)
}

// invokeTypeArguments instantiates the arguments of a class type without
// explicit bindings. Arguments whose type variable cannot be bound are
// dropped. A class-type argument that matches an instance already on the
// chain reuses that instance, which is what lets self-referential
// hierarchies such as "class E extends Enum<E>" terminate.
func (r *Resolver) invokeTypeArguments(
	invoking *classpath.Class,
	t *classpath.ClassType,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
) ([]*typeInstance, error) {
	if t.Args == nil {
		return nil, nil
	}
	args := make([]*typeInstance, 0, len(t.Args))
	for _, ta := range t.Args {
		w := wildcardOf(ta.Kind)
		var arg *typeInstance
		var err error
		switch at := ta.Type.(type) {
		case nil:
			if arg, err = r.objectType(); err == nil {
				arg = arg.WithWildcard(w)
			}
		case *classpath.ClassType:
			arg, err = r.reuseOrInvoke(invoking, at, w, classParams, methodParams, chain)
		case *classpath.TypeVariable:
			arg, err = r.findTypeParameter(invoking, at.Name, classParams, methodParams, chain)
			if err == nil && arg != nil && w != typesystem.WildcardNone {
				arg = arg.WithWildcard(w)
			}
		default:
			arg, err = r.invokeSig(invoking, at, w, classParams, methodParams, chain, nil)
		}
		if err != nil {
			return nil, err
		}
		if arg != nil {
			args = append(args, arg)
		}
	}
	return args, nil
}

func (r *Resolver) reuseOrInvoke(
	invoking *classpath.Class,
	at *classpath.ClassType,
	w typesystem.Wildcard,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
) (*typeInstance, error) {
	argClass, err := r.ResolveClass(at.Name)
	if err != nil {
		return nil, err
	}
	typeArgs, err := r.invokeTypeArguments(argClass, at, classParams, methodParams, chain)
	if err != nil {
		return nil, err
	}
	if existing := findChainInstance(chain, argClass, typeArgs); existing != nil {
		return existing, nil
	}
	return r.invokeSig(invoking, at, w, classParams, methodParams, chain, nil)
}

func findChainInstance(chain []*typeInstance, c *classpath.Class, args []*typeInstance) *typeInstance {
	anyRaw := false
	for _, a := range args {
		if a.IsRaw() {
			anyRaw = true
			break
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		inst := chain[i]
		if inst.Class().Equal(c) && inst.IsRaw() == anyRaw && typesystem.ArgumentsEqual(inst.Arguments(), args) {
			return inst
		}
	}
	return nil
}

// findTypeParameter binds a type variable. Method type parameters resolve to
// their bound. Class type parameters resolve through the innermost chain
// frame: the frame's supertype closure is searched for an instance of
// invoking and the matching argument is taken. Without a chain the bound is
// used. The result is nil when nothing binds the variable.
func (r *Resolver) findTypeParameter(
	invoking *classpath.Class,
	name string,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
) (*typeInstance, error) {
	for i := range methodParams {
		if methodParams[i].Name == name {
			return r.boundOf(invoking, &methodParams[i], classParams, methodParams, chain)
		}
	}
	for i := range classParams {
		if classParams[i].Name != name {
			continue
		}
		if len(chain) > 0 {
			invoker := findInvoker(invoking, chain[len(chain)-1])
			if invoker == nil || i >= len(invoker.Arguments()) {
				continue
			}
			return invoker.Arguments()[i], nil
		}
		return r.boundOf(invoking, &classParams[i], classParams, methodParams, chain)
	}
	return nil, nil
}

// findInvoker searches the supertype closure of potential for an instance
// of invoking.
func findInvoker(invoking *classpath.Class, potential *typeInstance) *typeInstance {
	if invoking == nil || potential == nil {
		return nil
	}
	if potential.Class().Equal(invoking) {
		return potential
	}
	for _, s := range potential.SuperTypes() {
		if inv := findInvoker(invoking, s); inv != nil {
			return inv
		}
	}
	return nil
}

// boundOf instantiates the bound of tp. An interface bound yields the bare
// interface without arguments. A bound that refers back to tp while it is
// being instantiated yields nil for the inner reference.
func (r *Resolver) boundOf(
	invoking *classpath.Class,
	tp *classpath.TypeParameter,
	classParams, methodParams []classpath.TypeParameter,
	chain []*typeInstance,
) (*typeInstance, error) {
	if r.pending.Contains(tp) {
		return nil, nil
	}
	r.pending.Insert(tp)
	defer r.pending.Remove(tp)

	classBound, ifaceBounds, err := r.splitBounds(tp)
	if err != nil {
		return nil, err
	}
	if classBound != nil {
		return r.invokeSig(invoking, classBound, typesystem.WildcardNone, classParams, methodParams, chain, nil)
	}
	ct, ok := ifaceBounds[0].(*classpath.ClassType)
	if !ok {
		return nil, diagnostics.Internal(r.source, fmt.Errorf("unsupported bound %s", ifaceBounds[0]))
	}
	c, err := r.ResolveClass(ct.Name)
	if err != nil {
		return nil, err
	}
	return typesystem.Of(c), nil
}

// splitBounds separates the class bound from the interface bounds. An
// undeclared bound is the root object class. When the first bound names an
// interface there is no class bound.
func (r *Resolver) splitBounds(tp *classpath.TypeParameter) (classpath.TypeSig, []classpath.TypeSig, error) {
	if len(tp.Bounds) == 0 {
		return &classpath.ClassType{Name: config.ObjectClassName}, nil, nil
	}
	first := tp.Bounds[0]
	if ct, ok := first.(*classpath.ClassType); ok {
		c, err := r.ResolveClass(ct.Name)
		if err != nil {
			return nil, nil, err
		}
		if c.IsInterface() {
			return nil, tp.Bounds, nil
		}
	}
	return first, tp.Bounds[1:], nil
}

// associateProvidedArguments binds explicit arguments to the class and
// method type parameters, in that order, and checks each against its bound.
func (r *Resolver) associateProvidedArguments(
	owner string,
	args []*typeInstance,
	classParams, methodParams []classpath.TypeParameter,
) (map[string]*typeInstance, error) {
	if len(args) == 0 {
		return nil, nil
	}
	params := append(append([]classpath.TypeParameter(nil), classParams...), methodParams...)
	if len(params) != len(args) {
		return nil, r.mismatch(owner, len(params), len(args))
	}
	provided := make(map[string]*typeInstance, len(params))
	for i, tp := range params {
		provided[tp.Name] = args[i]
	}
	for i := range params {
		if err := r.checkProvidedArgument(args[i], &params[i], classParams, methodParams, provided); err != nil {
			return nil, err
		}
	}
	return provided, nil
}

func (r *Resolver) checkProvidedArgument(
	arg *typeInstance,
	tp *classpath.TypeParameter,
	classParams, methodParams []classpath.TypeParameter,
	provided map[string]*typeInstance,
) error {
	classBound, ifaceBounds, err := r.splitBounds(tp)
	if err != nil {
		return err
	}
	boundSig := classBound
	if boundSig == nil {
		boundSig = ifaceBounds[0]
	}
	bound, err := r.invokeSig(nil, boundSig, typesystem.WildcardNone, classParams, methodParams, nil, provided)
	if err != nil {
		return err
	}
	if bound != nil && !bound.IsAssignableFrom(arg, typesystem.Loose) {
		return diagnostics.TypeArgumentOutOfBound(r.source, arg.JavaName(), bound.JavaName())
	}
	return nil
}

// associateTypeVariables binds explicit method type arguments and, for
// parameters typed directly by a class type variable, the argument found in
// the outermost chain frame that instantiates the declaring class.
func (r *Resolver) associateTypeVariables(
	m *classpath.Method,
	msig *classpath.MethodSignature,
	csig *classpath.ClassSignature,
	chain, args []*typeInstance,
) (map[string]*typeInstance, error) {
	result, err := r.associateProvidedArguments(m.String(), args, nil, msig.TypeParams)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]*typeInstance)
	}
	if csig == nil {
		return result, nil
	}
	declaring := m.DeclaringClass()
	for _, p := range msig.Params {
		tv, ok := p.(*classpath.TypeVariable)
		if !ok {
			continue
		}
		if _, bound := result[tv.Name]; bound {
			continue
		}
	frames:
		for _, frame := range chain {
			inv := findInvoker(declaring, frame)
			if inv == nil {
				continue
			}
			for j, tp := range csig.Params {
				if tp.Name == tv.Name && j < len(inv.Arguments()) {
					result[tv.Name] = inv.Arguments()[j]
					break frames
				}
			}
		}
	}
	return result, nil
}

func wildcardOf(kind byte) typesystem.Wildcard {
	w, err := typesystem.WildcardOf(kind)
	if err != nil {
		return typesystem.WildcardNone
	}
	return w
}
