package classpath

var primitiveNames = []string{"boolean", "byte", "char", "short", "int", "long", "float", "double", "void"}

var boxNames = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

var unboxNames = func() map[string]string {
	m := make(map[string]string, len(boxNames))
	for prim, box := range boxNames {
		m[box] = prim
	}
	return m
}()

var numericPrimitives = map[string]bool{
	"byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true,
}

// IsPrimitiveName reports whether name is a primitive type or void.
func IsPrimitiveName(name string) bool {
	switch name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double", "void":
		return true
	}
	return false
}

// BoxName returns the wrapper class name for a primitive.
func BoxName(primitive string) (string, bool) {
	b, ok := boxNames[primitive]
	return b, ok
}

// UnboxName returns the primitive wrapped by a box class.
func UnboxName(box string) (string, bool) {
	p, ok := unboxNames[box]
	return p, ok
}

// IsBoxName reports whether name is one of the eight wrapper classes.
func IsBoxName(name string) bool {
	_, ok := unboxNames[name]
	return ok
}

// IsBoxOf reports whether box is the wrapper class of primitive.
func IsBoxOf(box, primitive string) bool {
	return boxNames[primitive] == box && box != ""
}

// IsNumericPrimitiveName covers the seven numeric primitives, char included.
func IsNumericPrimitiveName(name string) bool {
	return numericPrimitives[name]
}

// IsNumericName is true for numeric primitives and their boxes.
func IsNumericName(name string) bool {
	if numericPrimitives[name] {
		return true
	}
	p, ok := unboxNames[name]
	return ok && numericPrimitives[p]
}
