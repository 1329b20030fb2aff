package typesystem

import (
	"errors"
	"testing"

	"github.com/jfxcore/compiler/internal/classpath"
)

func newPool(t *testing.T) *classpath.MapPool {
	t.Helper()
	p, err := classpath.NewMapPool()
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}
	return p
}

func class(t *testing.T, p classpath.Pool, name string) *classpath.Class {
	t.Helper()
	c, err := p.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return c
}

func raw(t *testing.T, p classpath.Pool, name string) *TypeInstance {
	t.Helper()
	return Of(class(t, p, name))
}

func generic(t *testing.T, p classpath.Pool, name string, args ...*TypeInstance) *TypeInstance {
	t.Helper()
	ti, err := New(class(t, p, name), args, nil, WildcardNone)
	if err != nil {
		t.Fatal(err)
	}
	return ti
}

func TestWildcardOf(t *testing.T) {
	tests := []struct {
		token byte
		want  Wildcard
	}{
		{' ', WildcardNone},
		{'*', WildcardAny},
		{'-', WildcardLower},
		{'+', WildcardUpper},
	}
	for _, tt := range tests {
		got, err := WildcardOf(tt.token)
		if err != nil || got != tt.want {
			t.Errorf("WildcardOf(%q) = %v, %v; want %v", tt.token, got, err, tt.want)
		}
	}
	if _, err := WildcardOf('x'); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestNew_StripsArrayDimensions(t *testing.T) {
	p := newPool(t)
	str := class(t, p, "java.lang.String")
	ti, err := New(classpath.ArrayOf(str, 2), nil, nil, WildcardNone)
	if err != nil {
		t.Fatal(err)
	}
	if ti.Class() != str || ti.Dimensions() != 2 {
		t.Errorf("got class %s dims %d", ti.Class(), ti.Dimensions())
	}
	if ti.RawClass().Name() != "java.lang.String[][]" {
		t.Errorf("RawClass = %s", ti.RawClass())
	}
	if !ti.ComponentType().Equal(raw(t, p, "java.lang.String")) {
		t.Error("ComponentType should drop dimensions")
	}
	if !ti.ComponentType().WithDimensions(2).Equal(ti) {
		t.Error("WithDimensions should restore the array type")
	}
}

func TestNew_RejectsPrimitiveArguments(t *testing.T) {
	p := newPool(t)
	str := raw(t, p, "java.lang.String")
	for _, name := range []string{"int", "java.lang.Integer"} {
		_, err := New(class(t, p, name), []*TypeInstance{str}, nil, WildcardNone)
		if !errors.Is(err, ErrPrimitiveArguments) {
			t.Errorf("%s with arguments: err = %v", name, err)
		}
	}
}

func TestEqual(t *testing.T) {
	p := newPool(t)
	str := raw(t, p, "java.lang.String")
	num := raw(t, p, "java.lang.Number")
	listStr := generic(t, p, "java.util.List", str)

	if !listStr.Equal(generic(t, p, "java.util.List", raw(t, p, "java.lang.String"))) {
		t.Error("structurally equal instances should be equal")
	}
	if listStr.Equal(generic(t, p, "java.util.List", num)) {
		t.Error("different arguments should differ")
	}
	if listStr.Equal(raw(t, p, "java.util.List")) {
		t.Error("raw and parameterized should differ")
	}
	if str.Equal(str.WithDimensions(1)) {
		t.Error("dimensions take part in equality")
	}
	if !listStr.Equal(listStr.WithWildcard(WildcardUpper)) {
		t.Error("wildcards do not take part in equality")
	}
	if generic(t, p, "java.util.List", str.WithDimensions(1)).Equal(listStr) {
		t.Error("argument dimensions take part in equality")
	}
}

func TestEqual_CyclicSupertypes(t *testing.T) {
	p := newPool(t)
	a := generic(t, p, "java.lang.Comparable", raw(t, p, "java.lang.String"))
	b := generic(t, p, "java.lang.Comparable", raw(t, p, "java.lang.String"))
	// Supertype cycles are legal and must not affect equality.
	a.AddSuperType(a)
	b.AddSuperType(b)
	if !a.Equal(b) {
		t.Error("equality should terminate and hold with cyclic supertypes")
	}
}

func TestSubtypeOf(t *testing.T) {
	p := newPool(t)
	str := raw(t, p, "java.lang.String")
	obj := raw(t, p, "java.lang.Object")
	seq := raw(t, p, "java.lang.CharSequence")

	if !str.SubtypeOf(seq) || seq.SubtypeOf(str) {
		t.Error("String <: CharSequence only")
	}
	if !str.WithDimensions(1).SubtypeOf(obj) {
		t.Error("arrays are subtypes of Object")
	}
	if str.WithDimensions(1).SubtypeOf(seq) {
		t.Error("array is not a subtype of a scalar interface")
	}
	if !str.SubtypeOfClass(class(t, p, "java.lang.Comparable")) {
		t.Error("SubtypeOfClass should use raw subtyping")
	}
}

func TestRendering(t *testing.T) {
	m, err := classpath.ParseManifest([]byte(`
classes:
  - name: demo.Outer$Entry
    typeParameters: [K, V]
`), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	p, err := classpath.NewMapPool(m)
	if err != nil {
		t.Fatal(err)
	}
	str := raw(t, p, "java.lang.String")
	num := raw(t, p, "java.lang.Number").WithWildcard(WildcardUpper)
	entry, err := NewWithDimensions(class(t, p, "demo.Outer$Entry"), 1, []*TypeInstance{str, num}, nil, WildcardNone)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		got, want string
	}{
		{entry.Name(), "demo.Outer$Entry<java.lang.String,? extends java.lang.Number>[]"},
		{entry.JavaName(), "demo.Outer.Entry<java.lang.String,? extends java.lang.Number>[]"},
		{entry.SimpleName(), "Entry<String,? extends Number>[]"},
		{str.WithWildcard(WildcardAny).Name(), "?"},
		{str.WithWildcard(WildcardLower).String(), "? super String"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestIsRaw(t *testing.T) {
	p := newPool(t)
	if !raw(t, p, "java.util.List").IsRaw() {
		t.Error("generic class without arguments is raw")
	}
	if raw(t, p, "java.lang.String").IsRaw() {
		t.Error("non-generic class is never raw")
	}
	if generic(t, p, "java.util.List", raw(t, p, "java.lang.String")).IsRaw() {
		t.Error("parameterized instance is not raw")
	}
}
