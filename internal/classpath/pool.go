package classpath

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Pool looks up classes by binary name. Implementations return the same
// *Class for repeated lookups of a name and a *NotFoundError for unknown
// names. Array names are not accepted; see ArrayOf.
type Pool interface {
	Lookup(name string) (*Class, error)
}

// ErrClassNotFound is matched by every NotFoundError.
var ErrClassNotFound = errors.New("class not found")

type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "class not found: " + e.Name
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrClassNotFound
}

//go:embed builtin.yaml
var builtinManifestData []byte

var (
	builtinOnce     sync.Once
	builtinManifest *Manifest
	builtinErr      error
)

// BuiltinManifest returns the core classes every pool starts with: the
// java.lang roots, the primitive wrappers and the observable value family.
func BuiltinManifest() (*Manifest, error) {
	builtinOnce.Do(func() {
		builtinManifest, builtinErr = ParseManifest(builtinManifestData, "builtin.yaml")
	})
	if builtinErr != nil {
		return nil, builtinErr
	}
	classes := make([]ClassSpec, len(builtinManifest.Classes))
	copy(classes, builtinManifest.Classes)
	return &Manifest{Classes: classes, Path: "builtin.yaml"}, nil
}

// BuiltinDigest identifies the embedded core manifest.
func BuiltinDigest() string {
	return Digest(builtinManifestData)
}

// MapPool is an in-memory pool built from manifests.
type MapPool struct {
	classes map[string]*Class
}

// NewMapPool builds a pool from the builtin classes plus the given manifests.
// Class names must be unique across all of them and every referenced
// supertype must exist.
func NewMapPool(manifests ...*Manifest) (*MapPool, error) {
	p := &MapPool{classes: make(map[string]*Class)}
	for _, name := range primitiveNames {
		p.classes[name] = newPrimitive(name, p)
	}
	builtin, err := BuiltinManifest()
	if err != nil {
		return nil, err
	}
	for _, m := range append([]*Manifest{builtin}, manifests...) {
		for _, spec := range m.Classes {
			if _, dup := p.classes[spec.Name]; dup {
				return nil, fmt.Errorf("%s: duplicate class %s", manifestName(m), spec.Name)
			}
			c, err := newClass(spec, p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", manifestName(m), err)
			}
			p.classes[spec.Name] = c
		}
	}
	if err := p.checkSupertypes(); err != nil {
		return nil, err
	}
	return p, nil
}

func manifestName(m *Manifest) string {
	if m.Path == "" {
		return "<manifest>"
	}
	return m.Path
}

func (p *MapPool) checkSupertypes() error {
	for _, name := range p.Names() {
		c := p.classes[name]
		if _, err := c.Superclass(); err != nil {
			return fmt.Errorf("class %s: superclass: %w", name, err)
		}
		if _, err := c.Interfaces(); err != nil {
			return fmt.Errorf("class %s: interfaces: %w", name, err)
		}
		if err := checkAcyclic(c); err != nil {
			return err
		}
	}
	return nil
}

func checkAcyclic(c *Class) error {
	seen := map[string]bool{}
	for k := c; k != nil; {
		if seen[k.name] {
			return fmt.Errorf("class %s: cyclic inheritance", c.name)
		}
		seen[k.name] = true
		super, err := k.Superclass()
		if err != nil {
			return err
		}
		k = super
	}
	return nil
}

func (p *MapPool) Lookup(name string) (*Class, error) {
	if c, ok := p.classes[name]; ok {
		return c, nil
	}
	return nil, &NotFoundError{Name: name}
}

// Names returns all non-primitive class names, sorted.
func (p *MapPool) Names() []string {
	names := make([]string, 0, len(p.classes))
	for name, c := range p.classes {
		if !c.IsPrimitive() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Package returns the classes of one package, nested classes included.
func (p *MapPool) Package(pkg string) []*Class {
	var res []*Class
	for _, name := range p.Names() {
		c := p.classes[name]
		if c.PackageName() == pkg || (pkg == "" && !strings.Contains(name, ".")) {
			res = append(res, c)
		}
	}
	return res
}
