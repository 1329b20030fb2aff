package classpath

import (
	"errors"
	"fmt"
	"strings"
)

// TypeSig is a parsed generic type as written in a manifest.
type TypeSig interface {
	String() string
	typeSig()
}

// BaseType is a primitive type or void.
type BaseType struct {
	Name string
}

// ClassType is a class reference. Args is nil when no type arguments were written.
type ClassType struct {
	Name string
	Args []TypeArgument
}

// TypeVariable refers to a type parameter in scope.
type TypeVariable struct {
	Name string
}

// ArrayType is Component followed by Dims pairs of brackets.
type ArrayType struct {
	Dims      int
	Component TypeSig
}

// TypeArgument is one argument of a ClassType. Kind is the wildcard token:
// ' ' for an exact type, '*' for an unbounded wildcard, '+' for "? extends",
// '-' for "? super". Type is nil for '*'.
type TypeArgument struct {
	Kind byte
	Type TypeSig
}

// TypeParameter is a declared type parameter with its bounds in source order.
type TypeParameter struct {
	Name   string
	Bounds []TypeSig
}

// ClassSignature is the generic signature of a class.
type ClassSignature struct {
	Params     []TypeParameter
	Superclass *ClassType
	Interfaces []*ClassType
}

// MethodSignature is the generic signature of a method or constructor.
type MethodSignature struct {
	TypeParams []TypeParameter
	Params     []TypeSig
	Return     TypeSig
}

func (*BaseType) typeSig()     {}
func (*ClassType) typeSig()    {}
func (*TypeVariable) typeSig() {}
func (*ArrayType) typeSig()    {}

func (t *BaseType) String() string     { return t.Name }
func (t *TypeVariable) String() string { return t.Name }

func (t *ClassType) String() string {
	if t.Args == nil {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

func (t *ArrayType) String() string {
	return t.Component.String() + strings.Repeat("[]", t.Dims)
}

func (a TypeArgument) String() string {
	switch a.Kind {
	case '*':
		return "?"
	case '+':
		return "? extends " + a.Type.String()
	case '-':
		return "? super " + a.Type.String()
	}
	return a.Type.String()
}

func (p TypeParameter) String() string {
	if len(p.Bounds) == 0 {
		return p.Name
	}
	parts := make([]string, len(p.Bounds))
	for i, b := range p.Bounds {
		parts[i] = b.String()
	}
	return p.Name + " extends " + strings.Join(parts, " & ")
}

// ErrMalformedSignature is matched by every SignatureError.
var ErrMalformedSignature = errors.New("malformed generic signature")

// SignatureError reports a generic signature that could not be parsed.
type SignatureError struct {
	Source string
	Pos    int
	Msg    string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("malformed generic signature %q at %d: %s", e.Source, e.Pos, e.Msg)
}

func (e *SignatureError) Is(target error) bool {
	return target == ErrMalformedSignature
}

// ParseType parses a type written in Java source syntax. Simple names listed
// in vars are treated as type variables.
func ParseType(src string, vars ...string) (TypeSig, error) {
	p := newSigParser(src, vars)
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTypeParameter parses "T" or "T extends A & B".
func ParseTypeParameter(src string, vars ...string) (TypeParameter, error) {
	p := newSigParser(src, vars)
	name := p.ident()
	if name == "" {
		return TypeParameter{}, p.errorf("expected type parameter name")
	}
	tp := TypeParameter{Name: name}
	if p.keyword("extends") {
		for {
			b, err := p.parseType()
			if err != nil {
				return TypeParameter{}, err
			}
			tp.Bounds = append(tp.Bounds, b)
			if !p.accept('&') {
				break
			}
		}
	}
	if err := p.expectEnd(); err != nil {
		return TypeParameter{}, err
	}
	return tp, nil
}

// parseTypeParameters parses a declaration list. Every declared name is in
// scope for every bound, so "T extends Comparable<T>" works.
func parseTypeParameters(srcs []string, outer []string) ([]TypeParameter, error) {
	if len(srcs) == 0 {
		return nil, nil
	}
	scope := append(typeParameterNames(srcs), outer...)
	params := make([]TypeParameter, 0, len(srcs))
	for _, src := range srcs {
		tp, err := ParseTypeParameter(src, scope...)
		if err != nil {
			return nil, err
		}
		params = append(params, tp)
	}
	return params, nil
}

// typeParameterNames extracts declared names without parsing bounds.
func typeParameterNames(srcs []string) []string {
	names := make([]string, 0, len(srcs))
	for _, src := range srcs {
		p := newSigParser(src, nil)
		names = append(names, p.ident())
	}
	return names
}

// hasGenerics reports whether t mentions a type variable or type arguments.
func hasGenerics(t TypeSig) bool {
	switch t := t.(type) {
	case *ClassType:
		return t.Args != nil
	case *TypeVariable:
		return true
	case *ArrayType:
		return hasGenerics(t.Component)
	}
	return false
}

// RawName strips type arguments and surrounding space from a type string.
func RawName(src string) string {
	if i := strings.IndexByte(src, '<'); i >= 0 {
		src = src[:i]
	}
	return strings.TrimSpace(src)
}

type sigParser struct {
	src  string
	pos  int
	vars map[string]bool
}

func newSigParser(src string, vars []string) *sigParser {
	p := &sigParser{src: src, vars: make(map[string]bool, len(vars))}
	for _, v := range vars {
		p.vars[v] = true
	}
	return p
}

func (p *sigParser) errorf(format string, args ...any) error {
	return &SignatureError{Source: p.src, Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *sigParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *sigParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *sigParser) accept(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

func (p *sigParser) expect(c byte) error {
	if !p.accept(c) {
		return p.errorf("expected %q", c)
	}
	return nil
}

func (p *sigParser) expectEnd() error {
	if p.peek() != 0 {
		return p.errorf("unexpected %q", p.src[p.pos])
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *sigParser) ident() string {
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.src) || !isIdentStart(p.src[p.pos]) {
		return ""
	}
	for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// keyword consumes kw when it appears as a whole word.
func (p *sigParser) keyword(kw string) bool {
	p.skipSpace()
	end := p.pos + len(kw)
	if end > len(p.src) || p.src[p.pos:end] != kw {
		return false
	}
	if end < len(p.src) && isIdentPart(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *sigParser) qualifiedName() string {
	name := p.ident()
	if name == "" {
		return ""
	}
	for p.peek() == '.' {
		p.pos++
		part := p.ident()
		if part == "" {
			return ""
		}
		name += "." + part
	}
	return name
}

func (p *sigParser) parseType() (TypeSig, error) {
	name := p.qualifiedName()
	if name == "" {
		return nil, p.errorf("expected type name")
	}
	var t TypeSig
	switch {
	case IsPrimitiveName(name):
		if p.peek() == '<' {
			return nil, p.errorf("primitive type %s cannot have type arguments", name)
		}
		t = &BaseType{Name: name}
	case !strings.Contains(name, ".") && p.vars[name]:
		if p.peek() == '<' {
			return nil, p.errorf("type variable %s cannot have type arguments", name)
		}
		t = &TypeVariable{Name: name}
	default:
		ct := &ClassType{Name: name}
		if p.accept('<') {
			args, err := p.parseTypeArguments()
			if err != nil {
				return nil, err
			}
			ct.Args = args
		}
		t = ct
	}
	dims := 0
	for p.accept('[') {
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		dims++
	}
	if dims > 0 {
		return &ArrayType{Dims: dims, Component: t}, nil
	}
	return t, nil
}

func (p *sigParser) parseTypeArguments() ([]TypeArgument, error) {
	var args []TypeArgument
	for {
		arg, err := p.parseTypeArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept('>') {
			return args, nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
	}
}

func (p *sigParser) parseTypeArgument() (TypeArgument, error) {
	if !p.accept('?') {
		t, err := p.parseType()
		if err != nil {
			return TypeArgument{}, err
		}
		if _, ok := t.(*BaseType); ok {
			return TypeArgument{}, p.errorf("primitive type argument %s", t)
		}
		return TypeArgument{Kind: ' ', Type: t}, nil
	}
	kind := byte('*')
	switch {
	case p.keyword("extends"):
		kind = '+'
	case p.keyword("super"):
		kind = '-'
	default:
		return TypeArgument{Kind: kind}, nil
	}
	t, err := p.parseType()
	if err != nil {
		return TypeArgument{}, err
	}
	if _, ok := t.(*BaseType); ok {
		return TypeArgument{}, p.errorf("primitive wildcard bound")
	}
	return TypeArgument{Kind: kind, Type: t}, nil
}
