package classpath

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jfxcore/compiler/internal/config"
)

// Manifest is the top-level class manifest (fxresolve.yaml).
type Manifest struct {
	// Include lists further manifests, relative to this file.
	Include []string `yaml:"include,omitempty"`

	// Classes are the class descriptors contributed by this file.
	Classes []ClassSpec `yaml:"classes"`

	// Path is where the manifest was read from; empty for in-memory data.
	Path string `yaml:"-"`
}

// ClassSpec describes one class. Type strings use Java source syntax with
// binary names for nested classes, e.g. "java.util.Map$Entry<K, V>".
type ClassSpec struct {
	// Name is the binary class name, e.g. "javafx.scene.layout.GridPane".
	Name string `yaml:"name"`

	// Kind is "class" (default) or "interface".
	Kind string `yaml:"kind,omitempty"`

	// Modifiers default to [public].
	Modifiers []string `yaml:"modifiers,omitempty"`

	// Superclass is a class type, possibly parameterized. Defaults to
	// java.lang.Object for classes; interfaces must leave it empty.
	Superclass string `yaml:"superclass,omitempty"`

	Interfaces []string `yaml:"interfaces,omitempty"`

	// TypeParameters are declarations like "T" or "T extends Comparable<T>".
	TypeParameters []string `yaml:"typeParameters,omitempty"`

	Fields       []FieldSpec  `yaml:"fields,omitempty"`
	Methods      []MethodSpec `yaml:"methods,omitempty"`
	Constructors []MethodSpec `yaml:"constructors,omitempty"`

	Annotations []AnnotationSpec `yaml:"annotations,omitempty"`
}

// AnnotationSpec describes an annotation on a class or method.
type AnnotationSpec struct {
	// Type is the binary name of the annotation interface.
	Type string `yaml:"type"`

	// Invisible annotations are kept in the class file but not at run time.
	Invisible bool `yaml:"invisible,omitempty"`

	// Values holds element values in source form, keyed by element name.
	Values map[string]string `yaml:"values,omitempty"`
}

// FieldSpec describes a declared field.
type FieldSpec struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Modifiers []string `yaml:"modifiers,omitempty"`
}

// MethodSpec describes a declared method. For constructors Name and Returns
// are ignored.
type MethodSpec struct {
	Name           string   `yaml:"name,omitempty"`
	Returns        string   `yaml:"returns,omitempty"`
	Params         []string `yaml:"params,omitempty"`
	TypeParameters []string `yaml:"typeParameters,omitempty"`
	Modifiers      []string `yaml:"modifiers,omitempty"`

	Annotations []AnnotationSpec `yaml:"annotations,omitempty"`
}

// LoadManifest reads a manifest and, recursively, everything it includes.
// Included classes are appended after the including file's own classes.
func LoadManifest(path string) (*Manifest, error) {
	return loadManifest(path, make(map[string]bool))
}

func loadManifest(path string, visiting map[string]bool) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	if visiting[abs] {
		return nil, fmt.Errorf("%s: include cycle", path)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data, path)
	if err != nil {
		return nil, err
	}
	m.Path = path
	for _, inc := range m.Include {
		incPath := inc
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(filepath.Dir(path), inc)
		}
		sub, err := loadManifest(incPath, visiting)
		if err != nil {
			return nil, fmt.Errorf("%s: include %q: %w", path, inc, err)
		}
		m.Classes = append(m.Classes, sub.Classes...)
	}
	return m, nil
}

// ParseManifest parses manifest content from bytes.
// The path argument is used only for error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	m.setDefaults()
	return &m, nil
}

// FindManifest searches for a manifest starting from dir and walking up to
// parent directories. It returns "" and a nil error when nothing is found.
func FindManifest(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range config.ManifestFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the manifest for errors that do not need other classes.
func (m *Manifest) validate(path string) error {
	seen := make(map[string]bool, len(m.Classes))
	for i, c := range m.Classes {
		if err := c.validate(); err != nil {
			return fmt.Errorf("%s: classes[%d]: %w", path, i, err)
		}
		if seen[c.Name] {
			return fmt.Errorf("%s: classes[%d]: duplicate class %s", path, i, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func (c *ClassSpec) validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(c.Name, "<>[] ") || IsPrimitiveName(c.Name) {
		return fmt.Errorf("%s: invalid class name", c.Name)
	}
	switch c.Kind {
	case "", "class", "interface":
	default:
		return fmt.Errorf("%s: unknown kind %q", c.Name, c.Kind)
	}
	if c.Kind == "interface" && c.Superclass != "" {
		return fmt.Errorf("%s: interfaces cannot declare a superclass", c.Name)
	}
	if c.Name == config.ObjectClassName && c.Superclass != "" {
		return fmt.Errorf("%s: the root class cannot declare a superclass", c.Name)
	}
	if _, err := ParseModifiers(c.Modifiers); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	for j, f := range c.Fields {
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("%s: fields[%d]: name and type are required", c.Name, j)
		}
		if _, err := ParseModifiers(f.Modifiers); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, f.Name, err)
		}
	}
	if err := validateAnnotations(c.Annotations); err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}
	for j, ms := range c.Methods {
		if ms.Name == "" {
			return fmt.Errorf("%s: methods[%d]: name is required", c.Name, j)
		}
		if _, err := ParseModifiers(ms.Modifiers); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, ms.Name, err)
		}
		if err := validateAnnotations(ms.Annotations); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, ms.Name, err)
		}
	}
	for j, ms := range c.Constructors {
		if _, err := ParseModifiers(ms.Modifiers); err != nil {
			return fmt.Errorf("%s: constructors[%d]: %w", c.Name, j, err)
		}
		if err := validateAnnotations(ms.Annotations); err != nil {
			return fmt.Errorf("%s: constructors[%d]: %w", c.Name, j, err)
		}
	}
	return nil
}

func validateAnnotations(as []AnnotationSpec) error {
	for i, a := range as {
		if a.Type == "" {
			return fmt.Errorf("annotations[%d]: type is required", i)
		}
		if strings.ContainsAny(a.Type, "<>[] ") || IsPrimitiveName(a.Type) {
			return fmt.Errorf("annotations[%d]: invalid annotation type %s", i, a.Type)
		}
	}
	return nil
}

func (m *Manifest) setDefaults() {
	for i := range m.Classes {
		m.Classes[i].setDefaults()
	}
}

func (c *ClassSpec) setDefaults() {
	if c.Kind == "" {
		c.Kind = "class"
	}
	if len(c.Modifiers) == 0 {
		c.Modifiers = []string{"public"}
	}
	if c.Kind == "class" && c.Superclass == "" && c.Name != config.ObjectClassName {
		c.Superclass = config.ObjectClassName
	}
	for i := range c.Fields {
		if len(c.Fields[i].Modifiers) == 0 {
			c.Fields[i].Modifiers = []string{"public"}
		}
	}
	for i := range c.Methods {
		if c.Methods[i].Returns == "" {
			c.Methods[i].Returns = "void"
		}
		if len(c.Methods[i].Modifiers) == 0 {
			c.Methods[i].Modifiers = []string{"public"}
		}
	}
	for i := range c.Constructors {
		if len(c.Constructors[i].Modifiers) == 0 {
			c.Constructors[i].Modifiers = []string{"public"}
		}
	}
}

// Digest is a short content hash of the given manifest sources, used to tell
// whether a prebuilt index is stale.
func Digest(sources ...[]byte) string {
	h := sha256.New()
	for _, s := range sources {
		h.Write(s)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
