package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/diagnostics"
	"github.com/jfxcore/compiler/internal/resolver"
	"github.com/jfxcore/compiler/internal/typesystem"
)

// Result is the outcome of resolving one reference. Err is set when the
// reference could not be resolved; otherwise Type is set, along with the
// member the reference named.
type Result struct {
	Reference Reference
	Source    diagnostics.SourceInfo

	Type     *typesystem.TypeInstance
	Property *resolver.PropertyInfo
	Field    *classpath.Field
	Methods  []*classpath.Method

	Err *diagnostics.DiagnosticError
}

func (r Result) OK() bool { return r.Err == nil }

// Summary renders what the reference resolved to.
func (r Result) Summary() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	switch {
	case r.Property != nil:
		p := r.Property
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", p.Type.JavaName(), p.Name)
		if p.Static {
			b.WriteString(" static")
		}
		if p.IsReadOnly() {
			b.WriteString(" read-only")
		}
		for _, m := range p.Accessors() {
			b.WriteString(" " + m.Name() + "()")
		}
		return b.String()
	case r.Field != nil:
		return r.Type.JavaName() + " " + r.Field.String()
	case len(r.Methods) > 0:
		names := make([]string, len(r.Methods))
		for i, m := range r.Methods {
			names[i] = m.String()
		}
		return r.Type.JavaName() + " " + strings.Join(names, ", ")
	}
	return r.Type.Name()
}

// ImportsProcessor normalizes the unit's imports and checks that every
// single-type import names an existing class.
type ImportsProcessor struct{}

func (ip *ImportsProcessor) Process(ctx *PipelineContext) *PipelineContext {
	var imports []string
	for _, imp := range ctx.Unit.Imports {
		imp = normalizeImport(imp)
		if imp == "" || slices.Contains(imports, imp) {
			continue
		}
		imports = append(imports, imp)
	}
	ctx.Imports = imports

	src := diagnostics.SourceInfo{File: ctx.FilePath}
	r := ctx.Resolver(src)
	for _, imp := range imports {
		if strings.HasSuffix(imp, ".*") {
			continue
		}
		if _, err := r.ResolveClass(imp); err != nil {
			ctx.addError(src, err)
		}
	}
	return ctx
}

func normalizeImport(imp string) string {
	imp = strings.TrimSpace(imp)
	imp = strings.TrimPrefix(imp, "import ")
	imp = strings.TrimSuffix(imp, ";")
	return strings.TrimSpace(imp)
}

// ReferenceProcessor resolves every reference of the unit. A failed
// reference is recorded and the remaining ones are still resolved.
type ReferenceProcessor struct{}

func (rp *ReferenceProcessor) Process(ctx *PipelineContext) *PipelineContext {
	for _, ref := range ctx.Unit.References {
		src := diagnostics.At(ctx.FilePath, ref.Line, ref.Column)
		res, err := resolveReference(ctx.Resolver(src), ref)
		res.Reference = ref
		res.Source = src
		if err != nil {
			res.Err = ctx.addError(src, err)
		}
		ctx.Results = append(ctx.Results, res)
	}
	ctx.Logger.Debug("unit resolved",
		"unit", ctx.Unit.Name,
		"id", ctx.ID,
		"references", len(ctx.Results),
		"errors", len(ctx.Errors),
		"cached", ctx.Cache.Len())
	return ctx
}

func resolveReference(r *resolver.Resolver, ref Reference) (Result, error) {
	switch ref.Kind() {
	case "type":
		t, err := r.ResolveType(ref.Type)
		return Result{Type: t}, err

	case "property":
		owner, err := r.ResolveType(ref.Property.Owner)
		if err != nil {
			return Result{}, err
		}
		p, err := r.ResolveProperty(owner, true, strings.Split(ref.Property.Path, ".")...)
		if err != nil {
			return Result{}, err
		}
		return Result{Type: p.Type, Property: p}, nil

	case "field":
		owner, err := r.ResolveType(ref.Field.Owner)
		if err != nil {
			return Result{}, err
		}
		f, err := r.ResolveField(owner.RawClass(), ref.Field.Name, true)
		if err != nil {
			return Result{}, err
		}
		t, err := r.FieldType(f, []*typesystem.TypeInstance{owner})
		return Result{Type: t, Field: f}, err

	case "method":
		owner, err := r.ResolveType(ref.Method.Owner)
		if err != nil {
			return Result{}, err
		}
		name := ref.Method.Name
		methods, err := r.ResolveMethods(owner.RawClass(), func(m *classpath.Method) bool {
			return m.Name() == name
		})
		if err != nil {
			return Result{}, err
		}
		if len(methods) == 0 {
			return Result{}, diagnostics.MemberNotFound(r.Source(), owner.JavaName(), name)
		}
		t, err := r.MethodType(methods[0], []*typesystem.TypeInstance{owner}, nil)
		return Result{Type: t, Methods: methods}, err

	case "instantiate":
		c, err := r.ResolveClassAgainstImports(ref.Instantiate.Type)
		if err != nil {
			return Result{}, err
		}
		args := make([]*typesystem.TypeInstance, len(ref.Instantiate.Args))
		for i, arg := range ref.Instantiate.Args {
			if args[i], err = r.ResolveType(arg); err != nil {
				return Result{}, err
			}
		}
		t, err := r.TypeInstanceWithArgs(c, args)
		return Result{Type: t}, err
	}
	return Result{}, fmt.Errorf("empty reference")
}
