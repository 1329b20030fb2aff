package classpath

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const indexSchema = `
CREATE TABLE IF NOT EXISTS classes (
	name TEXT PRIMARY KEY,
	package TEXT NOT NULL,
	spec TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// indexFormat is bumped whenever the stored spec layout changes.
const indexFormat = "1"

// WriteIndex stores every class of pool in a SQLite database at path,
// replacing any previous content. digest identifies the manifests the pool
// was built from.
func WriteIndex(ctx context.Context, path string, pool *MapPool, digest string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening index %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, indexSchema); err != nil {
		return fmt.Errorf("creating index schema: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classes`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO classes (name, package, spec) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, name := range pool.Names() {
		c := pool.classes[name]
		data, err := yaml.Marshal(c.Spec())
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		if _, err := stmt.ExecContext(ctx, name, c.PackageName(), string(data)); err != nil {
			return fmt.Errorf("storing %s: %w", name, err)
		}
	}
	for key, value := range map[string]string{"digest": digest, "format": indexFormat} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SQLPool serves classes from an index written by WriteIndex. Classes are
// decoded on first lookup and memoized, so repeated lookups return the same
// *Class. It is safe for concurrent use.
type SQLPool struct {
	db     *sql.DB
	digest string

	mu      sync.Mutex
	classes map[string]*Class
}

// OpenSQLPool opens an existing index.
func OpenSQLPool(ctx context.Context, path string) (*SQLPool, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	p := &SQLPool{db: db, classes: make(map[string]*Class)}
	if err := p.readMeta(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, name := range primitiveNames {
		p.classes[name] = newPrimitive(name, p)
	}
	return p, nil
}

func (p *SQLPool) readMeta(ctx context.Context) error {
	var format string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'format'`).Scan(&format)
	if err != nil {
		return fmt.Errorf("not a class index: %w", err)
	}
	if format != indexFormat {
		return fmt.Errorf("unsupported index format %q", format)
	}
	err = p.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'digest'`).Scan(&p.digest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (p *SQLPool) Lookup(name string) (*Class, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.classes[name]; ok {
		return c, nil
	}
	var data string
	err := p.db.QueryRow(`SELECT spec FROM classes WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", name, err)
	}
	var spec ClassSpec
	if err := yaml.Unmarshal([]byte(data), &spec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	spec.setDefaults()
	c, err := newClass(spec, p)
	if err != nil {
		return nil, err
	}
	p.classes[name] = c
	return c, nil
}

// Names lists the indexed classes, optionally restricted to one package.
func (p *SQLPool) Names(ctx context.Context, pkg string) ([]string, error) {
	query, args := `SELECT name FROM classes ORDER BY name`, []any(nil)
	if pkg != "" {
		query, args = `SELECT name FROM classes WHERE package = ? ORDER BY name`, []any{pkg}
	}
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Digest is the manifest digest recorded when the index was written.
func (p *SQLPool) Digest() string { return p.digest }

func (p *SQLPool) Close() error {
	return p.db.Close()
}
