package pipeline

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/diagnostics"
	"github.com/jfxcore/compiler/internal/resolver"
)

// Processor is one stage of resolving a compilation unit.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a compilation unit through the processors. Every
// unit gets its own context, and with it its own resolution cache.
type PipelineContext struct {
	ID       uuid.UUID
	Unit     Unit
	FilePath string
	Pool     classpath.Pool

	// Imports holds the unit's imports once ImportsProcessor has
	// normalized them.
	Imports []string

	Cache  *resolver.Cache
	Logger *slog.Logger

	Results []Result
	Errors  []*diagnostics.DiagnosticError
}

func NewPipelineContext(pool classpath.Pool, unit Unit) *PipelineContext {
	return &PipelineContext{
		ID:       uuid.New(),
		Unit:     unit,
		FilePath: unit.Name,
		Pool:     pool,
		Imports:  unit.Imports,
		Cache:    resolver.NewCache(),
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// Resolver returns a resolver for one site of the unit. All resolvers of a
// unit share its cache.
func (ctx *PipelineContext) Resolver(src diagnostics.SourceInfo) *resolver.Resolver {
	return resolver.New(ctx.Pool, src,
		resolver.WithImports(ctx.Imports),
		resolver.WithCache(ctx.Cache),
		resolver.WithLogger(ctx.Logger.With("unit", ctx.Unit.Name)),
	)
}

func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// addError records err as a diagnostic and returns it.
func (ctx *PipelineContext) addError(src diagnostics.SourceInfo, err error) *diagnostics.DiagnosticError {
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) {
		de = diagnostics.Internal(src, err)
	}
	ctx.Errors = append(ctx.Errors, de)
	return de
}
