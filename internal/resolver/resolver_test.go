package resolver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jfxcore/compiler/internal/classpath"
	"github.com/jfxcore/compiler/internal/diagnostics"
)

var testSource = diagnostics.At("Main.fxml", 3, 7)

func loadUniverse(t *testing.T) *classpath.MapPool {
	t.Helper()
	m, err := classpath.LoadManifest(filepath.Join("testdata", "universe.yaml"))
	if err != nil {
		t.Fatalf("loading manifest: %v", err)
	}
	p, err := classpath.NewMapPool(m)
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}
	return p
}

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	return New(loadUniverse(t), testSource, opts...)
}

func mustClass(t *testing.T, r *Resolver, name string) *classpath.Class {
	t.Helper()
	c, err := r.ResolveClass(name)
	if err != nil {
		t.Fatalf("resolving %s: %v", name, err)
	}
	return c
}

func mustType(t *testing.T, r *Resolver, name string, args ...*typeInstance) *typeInstance {
	t.Helper()
	ti, err := r.TypeInstanceWithArgs(mustClass(t, r, name), args)
	if err != nil {
		t.Fatalf("instantiating %s: %v", name, err)
	}
	return ti
}

func mustMethod(t *testing.T, r *Resolver, owner, name string, params int) *classpath.Method {
	t.Helper()
	m, err := r.ResolveMethod(mustClass(t, r, owner), name, func(m *classpath.Method) bool {
		return m.ParameterCount() == params
	})
	if err != nil {
		t.Fatalf("resolving %s.%s: %v", owner, name, err)
	}
	return m
}

func mustConstructor(t *testing.T, r *Resolver, owner string, params int) *classpath.Method {
	t.Helper()
	for _, m := range mustClass(t, r, owner).Constructors() {
		if m.ParameterCount() == params {
			return m
		}
	}
	t.Fatalf("%s has no constructor with %d parameters", owner, params)
	return nil
}

func expectCode(t *testing.T, err error, code diagnostics.ErrorCode) {
	t.Helper()
	if !diagnostics.IsCode(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func TestResolver_Defaults(t *testing.T) {
	r := newResolver(t)
	if r.Source() != testSource {
		t.Errorf("Source() = %v", r.Source())
	}
	if r.Cache() == nil || r.Cache().Len() != 0 {
		t.Error("expected a fresh empty cache")
	}
	if len(r.Imports()) != 0 {
		t.Errorf("Imports() = %v", r.Imports())
	}
}

func TestResolver_SharedCache(t *testing.T) {
	pool := loadUniverse(t)
	cache := NewCache()
	a := New(pool, testSource, WithCache(cache))
	b := New(pool, diagnostics.None(), WithCache(cache))

	ta, err := a.TypeInstanceOf(mustClass(t, a, "demo.Box"))
	if err != nil {
		t.Fatal(err)
	}
	tb, err := b.TypeInstanceOf(mustClass(t, b, "demo.Box"))
	if err != nil {
		t.Fatal(err)
	}
	if ta != tb {
		t.Error("resolvers sharing a cache should share results")
	}
}

func TestResolver_WrapErrors(t *testing.T) {
	r := newResolver(t)

	err := r.wrap(&classpath.NotFoundError{Name: "a.B"})
	expectCode(t, err, diagnostics.ErrR001)
	var de *diagnostics.DiagnosticError
	if !errors.As(err, &de) || de.Source != testSource {
		t.Errorf("expected the resolver's source location, got %v", err)
	}

	expectCode(t, r.wrap(classpath.ErrMalformedSignature), diagnostics.ErrR000)

	orig := diagnostics.MemberNotFound(diagnostics.None(), "a.B", "c")
	if got := r.wrap(orig); got != error(orig) {
		t.Errorf("diagnostics should pass through unchanged, got %v", got)
	}
	if r.wrap(nil) != nil {
		t.Error("wrap(nil) should be nil")
	}
}
