package typesystem

import "strings"

type nameStyle int

const (
	binaryNames nameStyle = iota
	javaNames
	simpleNames
)

func (t *TypeInstance) format(b *strings.Builder, style nameStyle) {
	switch t.wildcard {
	case WildcardAny:
		b.WriteByte('?')
		return
	case WildcardLower:
		b.WriteString("? super ")
	case WildcardUpper:
		b.WriteString("? extends ")
	}
	switch style {
	case simpleNames:
		b.WriteString(t.class.SimpleName())
	case javaNames:
		b.WriteString(t.class.JavaName())
	default:
		b.WriteString(t.class.Name())
	}
	if len(t.args) > 0 {
		b.WriteByte('<')
		for i, a := range t.args {
			if i > 0 {
				b.WriteByte(',')
			}
			a.format(b, style)
		}
		b.WriteByte('>')
	}
	for range t.dims {
		b.WriteString("[]")
	}
}

func (t *TypeInstance) render(style nameStyle) string {
	var b strings.Builder
	t.format(&b, style)
	return b.String()
}

// Name renders with binary class names, e.g. "java.util.Map$Entry<K,V>[]".
func (t *TypeInstance) Name() string { return t.render(binaryNames) }

// JavaName renders with source-level class names.
func (t *TypeInstance) JavaName() string { return t.render(javaNames) }

func (t *TypeInstance) SimpleName() string { return t.render(simpleNames) }

func (t *TypeInstance) String() string { return t.SimpleName() }
