// Package resolver resolves class names, instantiates generic types and
// looks up fields, methods, accessors and properties of the class universe.
//
// A Resolver is cheap to build: create one per resolution site, passing the
// source location that failures should point at. Resolvers of the same
// compilation unit share a Cache. Neither is safe for concurrent use.
package resolver

import (
	"errors"
	"log/slog"

	"github.com/hashicorp/go-set/v3"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/config"
	"github.com/jfxcore/compiler/internal/diagnostics"
	"github.com/jfxcore/compiler/internal/typesystem"
)

type Resolver struct {
	pool         classpath.Pool
	source       diagnostics.SourceInfo
	imports      []string
	cache        *Cache
	cacheEnabled bool
	logger       *slog.Logger

	// bounds currently being instantiated; guards self-referential bounds.
	pending *set.Set[*classpath.TypeParameter]
}

type Option func(*Resolver)

// WithImports sets the import declarations of the compilation unit, either
// fully qualified ("a.b.C") or wildcard ("a.b.*").
func WithImports(imports []string) Option {
	return func(r *Resolver) { r.imports = imports }
}

// WithCache shares a unit-wide cache.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithCacheEnabled(false) makes every operation recompute its result.
// Results are still stored.
func WithCacheEnabled(enabled bool) Option {
	return func(r *Resolver) { r.cacheEnabled = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

func New(pool classpath.Pool, source diagnostics.SourceInfo, opts ...Option) *Resolver {
	r := &Resolver{
		pool:         pool,
		source:       source,
		cacheEnabled: true,
		pending:      set.New[*classpath.TypeParameter](0),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

func (r *Resolver) Source() diagnostics.SourceInfo { return r.source }
func (r *Resolver) Imports() []string              { return r.imports }
func (r *Resolver) Cache() *Cache                  { return r.cache }

// wrap converts lower-level failures into diagnostics at the resolver's
// source location.
func (r *Resolver) wrap(err error) error {
	if err == nil {
		return nil
	}
	var de *diagnostics.DiagnosticError
	if errors.As(err, &de) {
		return err
	}
	var nf *classpath.NotFoundError
	if errors.As(err, &nf) {
		return diagnostics.ClassNotFound(r.source, nf.Name)
	}
	return diagnostics.Internal(r.source, err)
}

func (r *Resolver) mismatch(target string, expected, actual int) error {
	return diagnostics.NumTypeArgumentsMismatch(r.source, target, expected, actual)
}

func (r *Resolver) lookup(name string) (*classpath.Class, error) {
	c, err := r.pool.Lookup(name)
	if err != nil {
		return nil, r.wrap(err)
	}
	return c, nil
}

func (r *Resolver) objectType() (*typesystem.TypeInstance, error) {
	obj, err := r.lookup(config.ObjectClassName)
	if err != nil {
		return nil, err
	}
	return r.TypeInstanceOf(obj)
}

func (r *Resolver) primitiveType(name string) (*typesystem.TypeInstance, error) {
	c, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return typesystem.Of(c), nil
}
