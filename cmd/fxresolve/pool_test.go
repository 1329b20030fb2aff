package main

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jfxcore/compiler/internal/classpath"
)

const manifest = `
include: [extra.yaml]
classes:
  - name: demo.ui.Button
`

const extra = `
classes:
  - name: demo.ui.Slider
`

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fxresolve.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(extra), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMapPool(t *testing.T) {
	common := &commonFlags{manifest: writeManifest(t)}
	p, digest, err := loadMapPool(common)
	if err != nil {
		t.Fatal(err)
	}
	names, err := classNames(context.Background(), p, "demo.ui")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"demo.ui.Button", "demo.ui.Slider"}) {
		t.Errorf("names = %v", names)
	}
	if digest == "" || digest == classpath.BuiltinDigest() {
		t.Errorf("digest %q does not cover the manifest", digest)
	}
}

func TestWriteIndex_RoundTrip(t *testing.T) {
	ctx := context.Background()
	common := &commonFlags{manifest: writeManifest(t)}
	out := filepath.Join(t.TempDir(), "universe.fxidx")
	if err := writeIndex(ctx, common, out); err != nil {
		t.Fatal(err)
	}
	_, digest, err := loadMapPool(common)
	if err != nil {
		t.Fatal(err)
	}

	pool, closePool, err := openPool(ctx, &commonFlags{db: out})
	if err != nil {
		t.Fatal(err)
	}
	defer closePool()
	if got := pool.(*classpath.SQLPool).Digest(); got != digest {
		t.Errorf("index digest %q, want %q", got, digest)
	}
	names, err := classNames(ctx, pool, "demo.ui")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"demo.ui.Button", "demo.ui.Slider"}) {
		t.Errorf("names = %v", names)
	}
	if _, err := pool.Lookup("java.lang.Object"); err != nil {
		t.Errorf("built-in classes missing from the index: %v", err)
	}
}
