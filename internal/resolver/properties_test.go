package resolver

import (
	"testing"

	"github.com/jfxcore/compiler/internal/diagnostics"
)

func TestTryResolveProperty_Instance(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		name           string
		owner          string
		property       string
		wantType       string
		propertyGetter string
		getter         string
		setter         string
		readOnly       bool
	}{
		{"getter setter and property getter", "javafx.scene.control.Label", "text", "java.lang.String", "textProperty", "getText", "setText", false},
		{"property getter only", "javafx.scene.control.TextField", "text", "java.lang.String", "textProperty", "", "", false},
		{"getter and setter only", "javafx.scene.control.PlainBean", "title", "java.lang.String", "", "getTitle", "setTitle", false},
		{"primitive family", "javafx.scene.control.Label", "visible", "boolean", "visibleProperty", "isVisible", "setVisible", false},
		{"read-only", "javafx.scene.control.Label", "width", "double", "widthProperty", "getWidth", "", true},
		{"verbatim property getter", "javafx.scene.control.Verbatim", "foo", "java.lang.String", "foo", "", "", false},
		{"raw generic owner", "javafx.scene.control.ComboBox", "value", "java.lang.Object", "valueProperty", "getValue", "setValue", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.TryResolveProperty(mustType(t, r, tt.owner), false, tt.property)
			if err != nil {
				t.Fatal(err)
			}
			if p == nil {
				t.Fatal("property not found")
			}
			if p.Name != tt.property || p.Static {
				t.Errorf("got name %q, static %v", p.Name, p.Static)
			}
			if p.Type.Name() != tt.wantType {
				t.Errorf("type: got %s, want %s", p.Type.Name(), tt.wantType)
			}
			if got := methodName(p.PropertyGetter); got != tt.propertyGetter {
				t.Errorf("property getter: got %q, want %q", got, tt.propertyGetter)
			}
			if got := methodName(p.Getter); got != tt.getter {
				t.Errorf("getter: got %q, want %q", got, tt.getter)
			}
			if got := methodName(p.Setter); got != tt.setter {
				t.Errorf("setter: got %q, want %q", got, tt.setter)
			}
			if p.IsReadOnly() != tt.readOnly {
				t.Errorf("IsReadOnly() = %v, want %v", p.IsReadOnly(), tt.readOnly)
			}
			if p.DeclaringType.Class().Name() != tt.owner {
				t.Errorf("declaring type %s", p.DeclaringType.Name())
			}
		})
	}
}

func TestTryResolveProperty_ObservableType(t *testing.T) {
	r := newResolver(t)
	p, err := r.ResolveProperty(mustType(t, r, "javafx.scene.control.Label"), false, "text")
	if err != nil {
		t.Fatal(err)
	}
	if p.ObservableType == nil || p.ObservableType.Name() != "javafx.beans.property.StringProperty" {
		t.Errorf("observable type %v", p.ObservableType)
	}
	if !p.Writable {
		t.Error("StringProperty is writable")
	}
	if got := len(p.Accessors()); got != 3 {
		t.Errorf("Accessors() has %d methods, want 3", got)
	}
}

func TestTryResolveProperty_Absent(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		name  string
		owner string
		names []string
	}{
		{"unknown", "javafx.scene.control.Label", []string{"missing"}},
		{"write-only", "javafx.scene.control.PlainBean", []string{"onlyWritten"}},
		{"private getter", "javafx.scene.control.PlainBean", []string{"broken"}},
		{"unknown qualifier", "javafx.scene.control.Label", []string{"Nowhere", "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.TryResolveProperty(mustType(t, r, tt.owner), true, tt.names...)
			if err != nil || p != nil {
				t.Errorf("got %v, %v; want nil, nil", p, err)
			}
		})
	}
}

func TestResolveProperty_NotFound(t *testing.T) {
	r := newResolver(t)
	_, err := r.ResolveProperty(mustType(t, r, "javafx.scene.control.Label"), false, "missing")
	expectCode(t, err, diagnostics.ErrR003)

	_, err = r.TryResolveProperty(mustType(t, r, "javafx.scene.control.Label"), false)
	expectCode(t, err, diagnostics.ErrR000)
}

func TestTryResolveProperty_Static(t *testing.T) {
	r := newResolver(t, WithImports([]string{"javafx.scene.layout.*"}))
	label := mustType(t, r, "javafx.scene.control.Label")

	p, err := r.ResolveProperty(label, false, "GridPane", "rowIndex")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Static || p.DeclaringType.Class().Name() != "javafx.scene.layout.GridPane" {
		t.Errorf("got static %v, declaring %s", p.Static, p.DeclaringType.Name())
	}
	if methodName(p.Getter) != "getRowIndex" || methodName(p.Setter) != "setRowIndex" || p.PropertyGetter != nil {
		t.Errorf("accessors %v", p.Accessors())
	}
	if p.Type.Name() != "java.lang.Integer" {
		t.Errorf("type %s", p.Type.Name())
	}

	// The setter takes no receiver, so the property is read-only.
	p, err = r.ResolveProperty(label, false, "GridPane", "halignment")
	if err != nil {
		t.Fatal(err)
	}
	if methodName(p.Getter) != "getHalignment" || p.Setter != nil || !p.IsReadOnly() {
		t.Errorf("halignment accessors %v", p.Accessors())
	}

	// Attached property getter whose return type is not generic in the receiver.
	p, err = r.ResolveProperty(label, false, "StackPane", "alignment")
	if err != nil {
		t.Fatal(err)
	}
	if methodName(p.PropertyGetter) != "alignmentProperty" || p.Type.Name() != "java.lang.String" {
		t.Errorf("alignment: getter %q, type %s", methodName(p.PropertyGetter), p.Type.Name())
	}
	if p.ObservableType.Name() != "javafx.beans.property.ObjectProperty<java.lang.String>" {
		t.Errorf("alignment observable type %s", p.ObservableType.Name())
	}
}

func TestTryResolveProperty_StaticAcrossWildcardImports(t *testing.T) {
	// Both packages declare a Grid; only the second has the attached property.
	r := newResolver(t, WithImports([]string{"demo.layout.*", "demo.grid.*"}))
	label := mustType(t, r, "javafx.scene.control.Label")

	p, err := r.TryResolveProperty(label, false, "Grid", "rowIndex")
	if err != nil || p == nil {
		t.Fatalf("got %v, %v", p, err)
	}
	if !p.Static || p.DeclaringType.Class().Name() != "demo.grid.Grid" {
		t.Errorf("got static %v, declaring %s", p.Static, p.DeclaringType.Name())
	}
	if methodName(p.Getter) != "getRowIndex" || methodName(p.Setter) != "setRowIndex" {
		t.Errorf("accessors %v", p.Accessors())
	}

	p, err = r.TryResolveProperty(label, true, "Grid", "columnIndex")
	if err != nil || p != nil {
		t.Errorf("columnIndex: got %v, %v", p, err)
	}
}

func TestTryResolveProperty_CacheKeyedByImports(t *testing.T) {
	pool := loadUniverse(t)
	cache := NewCache()
	without := New(pool, testSource, WithCache(cache), WithImports([]string{"demo.layout.*"}))
	with := New(pool, testSource, WithCache(cache), WithImports([]string{"demo.grid.*"}))

	p, err := without.TryResolveProperty(mustType(t, without, "javafx.scene.control.Label"), false, "Grid", "rowIndex")
	if err != nil || p != nil {
		t.Fatalf("demo.layout.Grid has no rowIndex: got %v, %v", p, err)
	}
	p, err = with.TryResolveProperty(mustType(t, with, "javafx.scene.control.Label"), false, "Grid", "rowIndex")
	if err != nil || p == nil {
		t.Fatalf("a shared cache should not hide demo.grid.Grid.rowIndex: got %v, %v", p, err)
	}
}

func TestTryResolveProperty_Qualified(t *testing.T) {
	r := newResolver(t, WithImports([]string{"javafx.scene.control.*"}))
	label := mustType(t, r, "javafx.scene.control.Label")

	p, err := r.TryResolveProperty(label, true, "Labeled", "text")
	if err != nil || p == nil {
		t.Fatalf("qualified local property: got %v, %v", p, err)
	}
	if p.Static || p.DeclaringType.Class().Name() != "javafx.scene.control.Labeled" {
		t.Errorf("got static %v, declaring %s", p.Static, p.DeclaringType.Name())
	}

	p, err = r.TryResolveProperty(label, false, "Labeled", "text")
	if err != nil || p != nil {
		t.Errorf("qualified names not allowed: got %v, %v", p, err)
	}

	// TextField is not a supertype of Label.
	p, err = r.TryResolveProperty(label, true, "TextField", "text")
	if err != nil || p != nil {
		t.Errorf("unrelated qualifier: got %v, %v", p, err)
	}
}

func TestTryResolveProperty_Cached(t *testing.T) {
	r := newResolver(t)
	label := mustType(t, r, "javafx.scene.control.Label")
	a, err := r.TryResolveProperty(label, false, "text")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.TryResolveProperty(label, false, "text")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("repeated resolution should return the cached property")
	}
}

func TestTryFindObservableArgument(t *testing.T) {
	r := newResolver(t)
	str := mustType(t, r, "java.lang.String")
	tests := []struct {
		name string
		t    *typeInstance
		want string
	}{
		{"integer family", mustType(t, r, "javafx.beans.property.IntegerProperty"), "int"},
		{"boolean family", mustType(t, r, "javafx.beans.property.SimpleBooleanProperty"), "boolean"},
		{"long family", mustType(t, r, "javafx.beans.value.ObservableLongValue"), "long"},
		{"float family", mustType(t, r, "javafx.beans.property.FloatProperty"), "float"},
		{"double family", mustType(t, r, "javafx.beans.property.ReadOnlyDoubleProperty"), "double"},
		{"string through supertypes", mustType(t, r, "javafx.beans.property.StringProperty"), "java.lang.String"},
		{"object property", mustType(t, r, "javafx.beans.property.ObjectProperty", str), "java.lang.String"},
		{"raw observable", mustType(t, r, "javafx.beans.value.ObservableValue"), "java.lang.Object"},
		{"parameterized observable", mustType(t, r, "javafx.beans.value.ObservableValue", str), "java.lang.String"},
		{"not observable", str, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.TryFindObservableArgument(tt.t)
			if err != nil {
				t.Fatal(err)
			}
			name := ""
			if got != nil {
				name = got.Name()
			}
			if name != tt.want {
				t.Errorf("got %q, want %q", name, tt.want)
			}
		})
	}

	_, err := r.FindObservableArgument(str)
	expectCode(t, err, diagnostics.ErrR000)
}

func TestTryFindWritableArgument(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		class string
		want  string
	}{
		{"javafx.beans.property.IntegerProperty", "int"},
		{"javafx.beans.property.StringProperty", "java.lang.String"},
		{"javafx.beans.property.ReadOnlyIntegerProperty", ""},
		{"javafx.beans.value.WritableValue", "java.lang.Object"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			got, err := r.TryFindWritableArgument(mustType(t, r, tt.class))
			if err != nil {
				t.Fatal(err)
			}
			name := ""
			if got != nil {
				name = got.Name()
			}
			if name != tt.want {
				t.Errorf("got %q, want %q", name, tt.want)
			}
		})
	}

	_, err := r.FindWritableArgument(mustType(t, r, "javafx.beans.property.ReadOnlyStringProperty"))
	expectCode(t, err, diagnostics.ErrR000)
}

func TestObservableClassFor(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		class           string
		requestProperty bool
		want            string
	}{
		{"int", false, "javafx.beans.value.ObservableIntegerValue"},
		{"java.lang.Short", false, "javafx.beans.value.ObservableIntegerValue"},
		{"char", true, "javafx.beans.value.ObservableIntegerValue"},
		{"boolean", false, "javafx.beans.value.ObservableBooleanValue"},
		{"java.lang.Double", false, "javafx.beans.value.ObservableDoubleValue"},
		{"javafx.beans.property.IntegerProperty", true, "javafx.beans.property.IntegerProperty"},
		{"javafx.beans.property.SimpleLongProperty", true, "javafx.beans.property.LongProperty"},
		{"javafx.beans.property.ReadOnlyLongProperty", true, "javafx.beans.value.ObservableLongValue"},
		{"javafx.beans.property.StringProperty", true, "javafx.beans.property.Property"},
		{"javafx.beans.property.StringProperty", false, "javafx.beans.value.ObservableValue"},
		{"java.lang.String", true, "javafx.beans.value.ObservableValue"},
	}
	for _, tt := range tests {
		c, err := r.ObservableClassFor(mustClass(t, r, tt.class), tt.requestProperty)
		if err != nil {
			t.Fatal(err)
		}
		if c.Name() != tt.want {
			t.Errorf("ObservableClassFor(%s, %v) = %s, want %s", tt.class, tt.requestProperty, c.Name(), tt.want)
		}
	}
}

func TestObservableTypeFor(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		class string
		want  string
	}{
		{"double", "javafx.beans.value.ObservableDoubleValue"},
		{"java.lang.Byte", "javafx.beans.value.ObservableIntegerValue"},
		{"java.lang.String", "javafx.beans.value.ObservableValue<java.lang.String>"},
		{"javafx.scene.control.Label", "javafx.beans.value.ObservableValue<javafx.scene.control.Label>"},
	}
	for _, tt := range tests {
		got, err := r.ObservableTypeFor(mustType(t, r, tt.class))
		if err != nil {
			t.Fatal(err)
		}
		if got.Name() != tt.want {
			t.Errorf("ObservableTypeFor(%s) = %s, want %s", tt.class, got.Name(), tt.want)
		}
	}
}
