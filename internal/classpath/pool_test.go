package classpath

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func loadShapes(t *testing.T) *MapPool {
	t.Helper()
	m, err := LoadManifest(filepath.Join("testdata", "shapes.yaml"))
	if err != nil {
		t.Fatalf("loading manifest: %v", err)
	}
	p, err := NewMapPool(m)
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}
	return p
}

func mustLookup(t *testing.T, p Pool, name string) *Class {
	t.Helper()
	c, err := p.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return c
}

func TestMapPool_LookupIdentity(t *testing.T) {
	p := loadShapes(t)
	a := mustLookup(t, p, "demo.Circle")
	b := mustLookup(t, p, "demo.Circle")
	if a != b {
		t.Error("repeated lookups should return the same class")
	}
	_, err := p.Lookup("demo.Missing")
	if !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "demo.Missing" {
		t.Errorf("expected NotFoundError naming demo.Missing, got %v", err)
	}
}

func TestMapPool_BuiltinsPresent(t *testing.T) {
	p, err := NewMapPool()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"java.lang.Object", "java.lang.String", "java.lang.Integer", "int", "void",
		"javafx.beans.value.ObservableValue", "javafx.beans.property.StringProperty",
	} {
		mustLookup(t, p, name)
	}
}

func TestNewMapPool_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown superclass", "classes:\n  - name: a.B\n    superclass: a.Missing\n", "class not found: a.Missing"},
		{"unknown interface", "classes:\n  - name: a.B\n    interfaces: [a.Missing]\n", "class not found: a.Missing"},
		{"builtin clash", "classes:\n  - name: java.lang.String\n", "duplicate class java.lang.String"},
		{"cycle", "classes:\n  - name: a.A\n    superclass: a.B\n  - name: a.B\n    superclass: a.A\n", "cyclic inheritance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.yaml), "test.yaml")
			if err != nil {
				t.Fatal(err)
			}
			_, err = NewMapPool(m)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestClass_Names(t *testing.T) {
	p := loadShapes(t)
	inner := mustLookup(t, p, "demo.Outer$Inner")
	if inner.SimpleName() != "Inner" {
		t.Errorf("SimpleName = %q", inner.SimpleName())
	}
	if inner.JavaName() != "demo.Outer.Inner" {
		t.Errorf("JavaName = %q", inner.JavaName())
	}
	if inner.PackageName() != "demo" {
		t.Errorf("PackageName = %q", inner.PackageName())
	}
	arr := ArrayOf(ArrayOf(inner, 1), 1)
	if arr.Name() != "demo.Outer$Inner[][]" || arr.Dimensions() != 2 || arr.Component() != inner {
		t.Errorf("nested ArrayOf = %s dims=%d", arr.Name(), arr.Dimensions())
	}
	if arr.SimpleName() != "Inner[][]" {
		t.Errorf("array SimpleName = %q", arr.SimpleName())
	}
}

func TestClass_SubtypeOf(t *testing.T) {
	p := loadShapes(t)
	circle := mustLookup(t, p, "demo.Circle")
	base := mustLookup(t, p, "demo.Base")
	shape := mustLookup(t, p, "demo.Shape")
	object := mustLookup(t, p, "java.lang.Object")
	str := mustLookup(t, p, "java.lang.String")
	integer := mustLookup(t, p, "int")

	tests := []struct {
		name     string
		sub, sup *Class
		want     bool
	}{
		{"reflexive", circle, circle, true},
		{"superclass", circle, base, true},
		{"inherited interface", circle, shape, true},
		{"object", shape, object, true},
		{"not reversed", base, circle, false},
		{"unrelated", str, shape, false},
		{"primitive reflexive", integer, integer, true},
		{"primitive not object", integer, object, false},
		{"array to object", ArrayOf(str, 1), object, true},
		{"array covariance", ArrayOf(circle, 2), ArrayOf(shape, 2), true},
		{"array of arrays to object array", ArrayOf(str, 2), ArrayOf(object, 1), true},
		{"primitive arrays invariant", ArrayOf(integer, 1), ArrayOf(object, 1), false},
		{"array to serializable", ArrayOf(integer, 1), mustLookup(t, p, "java.io.Serializable"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.SubtypeOf(tt.sup); got != tt.want {
				t.Errorf("%s.SubtypeOf(%s) = %v, want %v", tt.sub, tt.sup, got, tt.want)
			}
		})
	}
}

func TestClass_Signature(t *testing.T) {
	p := loadShapes(t)
	base := mustLookup(t, p, "demo.Base")
	sig, err := base.Signature()
	if err != nil || sig == nil {
		t.Fatalf("Base signature = %v, %v", sig, err)
	}
	if len(sig.Params) != 1 || sig.Params[0].String() != "T extends java.lang.Number" {
		t.Errorf("params = %v", sig.Params)
	}
	if sig.Superclass.Name != "java.lang.Object" {
		t.Errorf("superclass = %s", sig.Superclass)
	}

	circle := mustLookup(t, p, "demo.Circle")
	sig, err = circle.Signature()
	if err != nil || sig == nil {
		t.Fatalf("Circle extends a parameterized type and needs a signature: %v, %v", sig, err)
	}
	if sig.Superclass.String() != "demo.Base<java.lang.Double>" {
		t.Errorf("superclass = %s", sig.Superclass)
	}

	shape := mustLookup(t, p, "demo.Shape")
	if sig, _ := shape.Signature(); sig != nil {
		t.Errorf("plain interface should have no signature, got %v", sig)
	}
}

func TestClass_MalformedSignature(t *testing.T) {
	m, err := ParseManifest([]byte("classes:\n  - name: a.B\n    typeParameters: [\"T extends\"]\n"), "test.yaml")
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewMapPool(m)
	if err != nil {
		t.Fatal(err)
	}
	_, err = mustLookup(t, p, "a.B").Signature()
	if !errors.Is(err, ErrMalformedSignature) {
		t.Errorf("expected malformed signature, got %v", err)
	}
}

func TestMemberErasure(t *testing.T) {
	p := loadShapes(t)
	base := mustLookup(t, p, "demo.Base")
	field := base.DeclaredFields()[0]
	ft, err := field.Type()
	if err != nil {
		t.Fatal(err)
	}
	if ft.Name() != "java.lang.Number" {
		t.Errorf("erased field type = %s, want java.lang.Number", ft)
	}
	if sig, _ := field.Signature(); sig == nil {
		t.Error("T-typed field should have a signature")
	}
	if sig, _ := base.DeclaredFields()[1].Signature(); sig != nil {
		t.Error("String field should have no signature")
	}

	getValue := base.DeclaredMethods()[0]
	if getValue.Descriptor() != "()java.lang.Number" {
		t.Errorf("descriptor = %s", getValue.Descriptor())
	}
	circle := mustLookup(t, p, "demo.Circle")
	ctor := circle.Constructors()[0]
	if !ctor.IsConstructor() || ctor.Name() != "<init>" || ctor.Descriptor() != "(double)void" {
		t.Errorf("constructor = %s %s", ctor.Name(), ctor.Descriptor())
	}
}

func TestClass_Methods(t *testing.T) {
	p := loadShapes(t)
	circle := mustLookup(t, p, "demo.Circle")
	methods, err := circle.Methods()
	if err != nil {
		t.Fatal(err)
	}
	owners := map[string]string{}
	for _, m := range methods {
		if _, dup := owners[m.Name()]; dup && m.Name() == "area" {
			t.Errorf("area should appear once")
		}
		owners[m.Name()] = m.DeclaringClass().Name()
	}
	if owners["area"] != "demo.Circle" {
		t.Errorf("area owner = %s, want the overriding class", owners["area"])
	}
	if owners["getValue"] != "demo.Base" || owners["toString"] != "java.lang.Object" {
		t.Errorf("inherited owners = %v", owners)
	}
	if _, ok := owners["helper"]; ok {
		t.Error("private methods should not be listed")
	}
}

func TestParseModifiers(t *testing.T) {
	m, err := ParseModifiers([]string{"public", "Static"})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Has(Public) || !m.Has(Static) || m.Has(Private) {
		t.Errorf("modifiers = %s", m)
	}
	if m.String() != "public static" {
		t.Errorf("String() = %q", m.String())
	}
}
