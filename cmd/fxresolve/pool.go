package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfxcore/compiler/internal/classpath"
)

// openPool loads the class universe named by the flags: an index when -db is
// set, else the given or nearest manifest, else the built-in classes only.
func openPool(ctx context.Context, common *commonFlags) (classpath.Pool, func(), error) {
	if common.db != "" {
		p, err := classpath.OpenSQLPool(ctx, common.db)
		if err != nil {
			return nil, nil, err
		}
		common.logf("using index %s (digest %s)", common.db, p.Digest())
		return p, func() { p.Close() }, nil
	}
	p, _, err := loadMapPool(common)
	if err != nil {
		return nil, nil, err
	}
	return p, func() {}, nil
}

// loadMapPool also returns the digest of the manifest sources.
func loadMapPool(common *commonFlags) (*classpath.MapPool, string, error) {
	path := common.manifest
	if path == "" {
		found, err := classpath.FindManifest(".")
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	if path == "" {
		common.logf("no manifest found, using built-in classes")
		p, err := classpath.NewMapPool()
		return p, classpath.BuiltinDigest(), err
	}

	m, err := classpath.LoadManifest(path)
	if err != nil {
		return nil, "", err
	}
	p, err := classpath.NewMapPool(m)
	if err != nil {
		return nil, "", err
	}
	sources := [][]byte{[]byte(classpath.BuiltinDigest())}
	for _, f := range manifestFiles(m) {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, "", fmt.Errorf("reading manifest %s: %w", f, err)
		}
		sources = append(sources, data)
	}
	common.logf("loaded %s: %d classes", path, len(p.Names()))
	return p, classpath.Digest(sources...), nil
}

// manifestFiles lists m and its includes, resolved the way LoadManifest
// resolves them.
func manifestFiles(m *classpath.Manifest) []string {
	files := []string{m.Path}
	for _, inc := range m.Include {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(m.Path), inc)
		}
		files = append(files, inc)
	}
	return files
}

func classNames(ctx context.Context, pool classpath.Pool, pkg string) ([]string, error) {
	switch p := pool.(type) {
	case *classpath.SQLPool:
		return p.Names(ctx, pkg)
	case *classpath.MapPool:
		if pkg == "" {
			return p.Names(), nil
		}
		var names []string
		for _, c := range p.Package(pkg) {
			names = append(names, c.Name())
		}
		return names, nil
	}
	return nil, fmt.Errorf("pool %T cannot list classes", pool)
}

func writeIndex(ctx context.Context, common *commonFlags, out string) error {
	p, digest, err := loadMapPool(common)
	if err != nil {
		return err
	}
	if err := classpath.WriteIndex(ctx, out, p, digest); err != nil {
		return err
	}
	common.logf("wrote %s (digest %s)", out, digest)
	return nil
}
