// Package pipeline resolves compilation units: a unit's imports are checked
// first, then each of its references is resolved into a Result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
)

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Default is the pipeline every unit goes through.
func Default() *Pipeline {
	return New(&ImportsProcessor{}, &ReferenceProcessor{})
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// A bad import does not stop the references from being resolved,
		// so one run reports every diagnostic of the unit.
	}
	return ctx
}

type batchOptions struct {
	parallelism int
	logger      *slog.Logger
	pipeline    *Pipeline
}

type BatchOption func(*batchOptions)

// WithParallelism bounds how many units resolve at once.
func WithParallelism(n int) BatchOption {
	return func(o *batchOptions) { o.parallelism = n }
}

func WithLogger(l *slog.Logger) BatchOption {
	return func(o *batchOptions) { o.logger = l }
}

func WithPipeline(p *Pipeline) BatchOption {
	return func(o *batchOptions) { o.pipeline = p }
}

// RunUnits resolves units concurrently and returns their contexts in input
// order. Units share the pool and nothing else. Cancellation is checked
// before each unit starts; a unit that has started runs to completion.
func RunUnits(ctx context.Context, pool classpath.Pool, units []Unit, opts ...BatchOption) ([]*PipelineContext, error) {
	o := batchOptions{parallelism: config.DefaultParallelism}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.pipeline == nil {
		o.pipeline = Default()
	}

	results := make([]*PipelineContext, len(units))
	g, gctx := errgroup.WithContext(ctx)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	for i, unit := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("unit %s: %w", unit.Name, err)
			}
			pctx := NewPipelineContext(pool, unit)
			pctx.Logger = o.logger
			results[i] = o.pipeline.Run(pctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
