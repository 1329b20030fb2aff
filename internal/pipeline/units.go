package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnitsFile is a batch of compilation units to resolve.
type UnitsFile struct {
	Units []Unit `yaml:"units"`
}

// Unit is a compilation unit: a markup file reduced to its imports and the
// names it refers to.
type Unit struct {
	Name       string      `yaml:"name"`
	Imports    []string    `yaml:"imports,omitempty"`
	References []Reference `yaml:"references,omitempty"`
}

// Reference is a single name to resolve. Exactly one of the kinds is set.
type Reference struct {
	Type        string          `yaml:"type,omitempty"`
	Property    *PropertyRef    `yaml:"property,omitempty"`
	Field       *MemberRef      `yaml:"field,omitempty"`
	Method      *MemberRef      `yaml:"method,omitempty"`
	Instantiate *InstantiateRef `yaml:"instantiate,omitempty"`

	Line   int `yaml:"line,omitempty"`
	Column int `yaml:"column,omitempty"`
}

// PropertyRef names a property of Owner. A dotted Path such as
// "GridPane.rowIndex" qualifies the property with a class.
type PropertyRef struct {
	Owner string `yaml:"owner"`
	Path  string `yaml:"path"`
}

type MemberRef struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// InstantiateRef applies explicit type arguments to a generic class.
type InstantiateRef struct {
	Type string   `yaml:"type"`
	Args []string `yaml:"args,omitempty"`
}

// Kind names the set reference kind.
func (r Reference) Kind() string {
	switch {
	case r.Type != "":
		return "type"
	case r.Property != nil:
		return "property"
	case r.Field != nil:
		return "field"
	case r.Method != nil:
		return "method"
	case r.Instantiate != nil:
		return "instantiate"
	}
	return ""
}

func (r Reference) String() string {
	switch r.Kind() {
	case "type":
		return r.Type
	case "property":
		return r.Property.Owner + "#" + r.Property.Path
	case "field":
		return r.Field.Owner + "#" + r.Field.Name
	case "method":
		return r.Method.Owner + "#" + r.Method.Name + "()"
	case "instantiate":
		return r.Instantiate.Type + "<" + strings.Join(r.Instantiate.Args, ", ") + ">"
	}
	return "<empty>"
}

func (r Reference) kinds() int {
	n := 0
	for _, set := range []bool{r.Type != "", r.Property != nil, r.Field != nil, r.Method != nil, r.Instantiate != nil} {
		if set {
			n++
		}
	}
	return n
}

// LoadUnits reads a units file.
func LoadUnits(path string) (*UnitsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading units %s: %w", path, err)
	}
	return ParseUnits(data, path)
}

// ParseUnits parses a units file from bytes.
// The path argument is used only for error messages.
func ParseUnits(data []byte, path string) (*UnitsFile, error) {
	var f UnitsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	f.setDefaults()
	return &f, nil
}

func (f *UnitsFile) validate(path string) error {
	seen := make(map[string]bool)
	for i, u := range f.Units {
		if u.Name == "" {
			return fmt.Errorf("%s: unit %d: name is required", path, i)
		}
		if seen[u.Name] {
			return fmt.Errorf("%s: duplicate unit %q", path, u.Name)
		}
		seen[u.Name] = true
		for j, ref := range u.References {
			if err := ref.validate(); err != nil {
				return fmt.Errorf("%s: unit %q: reference %d: %w", path, u.Name, j, err)
			}
		}
	}
	return nil
}

func (r Reference) validate() error {
	switch n := r.kinds(); {
	case n == 0:
		return fmt.Errorf("one of type, property, field, method or instantiate is required")
	case n > 1:
		return fmt.Errorf("%d reference kinds set, want one", n)
	}
	switch {
	case r.Property != nil && (r.Property.Owner == "" || r.Property.Path == ""):
		return fmt.Errorf("property needs owner and path")
	case r.Field != nil && (r.Field.Owner == "" || r.Field.Name == ""):
		return fmt.Errorf("field needs owner and name")
	case r.Method != nil && (r.Method.Owner == "" || r.Method.Name == ""):
		return fmt.Errorf("method needs owner and name")
	case r.Instantiate != nil && r.Instantiate.Type == "":
		return fmt.Errorf("instantiate needs a type")
	case r.Line < 0 || r.Column < 0:
		return fmt.Errorf("negative position %d:%d", r.Line, r.Column)
	}
	return nil
}

// setDefaults numbers references without a position by their order in the
// unit.
func (f *UnitsFile) setDefaults() {
	for i := range f.Units {
		refs := f.Units[i].References
		for j := range refs {
			if refs[j].Line == 0 {
				refs[j].Line = j + 1
			}
			if refs[j].Column == 0 {
				refs[j].Column = 1
			}
		}
	}
}

// ParseReference reads a reference written on one line:
//
//	Label[]                      a type
//	property Label GridPane.rowIndex
//	field Insets EMPTY
//	method Label getText
//	new ObjectProperty String    explicit type arguments
func ParseReference(line string) (Reference, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Reference{}, fmt.Errorf("empty reference")
	}
	var ref Reference
	switch kind, rest := fields[0], fields[1:]; kind {
	case "property", "field", "method":
		if len(rest) != 2 {
			return Reference{}, fmt.Errorf("usage: %s <owner> <name>", kind)
		}
		switch kind {
		case "property":
			ref.Property = &PropertyRef{Owner: rest[0], Path: rest[1]}
		case "field":
			ref.Field = &MemberRef{Owner: rest[0], Name: rest[1]}
		default:
			ref.Method = &MemberRef{Owner: rest[0], Name: rest[1]}
		}
	case "new":
		if len(rest) == 0 {
			return Reference{}, fmt.Errorf("usage: new <type> [arg...]")
		}
		ref.Instantiate = &InstantiateRef{Type: rest[0], Args: rest[1:]}
	default:
		ref.Type = line
	}
	ref.Line, ref.Column = 1, 1
	return ref, nil
}
