package classpath

import "strings"

// Annotation is an annotation declared on a class or method.
type Annotation struct {
	typeName string
	visible  bool
	values   map[string]string
}

func newAnnotations(specs []AnnotationSpec) []*Annotation {
	if len(specs) == 0 {
		return nil
	}
	res := make([]*Annotation, len(specs))
	for i, s := range specs {
		res[i] = &Annotation{typeName: s.Type, visible: !s.Invisible, values: s.Values}
	}
	return res
}

// TypeName is the binary name of the annotation interface.
func (a *Annotation) TypeName() string { return a.typeName }

// SimpleName is the last segment of the type name, nested or not.
func (a *Annotation) SimpleName() string {
	return a.typeName[strings.LastIndexAny(a.typeName, ".$")+1:]
}

// RuntimeVisible reports whether the annotation is retained at run time.
func (a *Annotation) RuntimeVisible() bool { return a.visible }

func (a *Annotation) Value(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

func (a *Annotation) String() string { return "@" + a.typeName }

// FindAnnotation returns the first annotation with the given visibility that
// match accepts.
func FindAnnotation(as []*Annotation, visible bool, match func(*Annotation) bool) *Annotation {
	for _, a := range as {
		if a.visible == visible && match(a) {
			return a
		}
	}
	return nil
}
