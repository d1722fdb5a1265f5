package classtest

import (
	"bytes"
)

// Value writes one element_value.
type Value func(p *Pool, w *bytes.Buffer)

type Pair struct {
	Name  string
	Value Value
}

type Annotation struct {
	Descriptor string
	Values     []Pair
}

func (a Annotation) write(p *Pool, w *bytes.Buffer) {
	u2(w, p.Utf8(a.Descriptor))
	u2(w, uint16(len(a.Values)))
	for _, pair := range a.Values {
		u2(w, p.Utf8(pair.Name))
		pair.Value(p, w)
	}
}

func Int(v int32) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('I')
		u2(w, p.Integer(v))
	}
}

func Bool(v bool) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('Z')
		var i int32
		if v {
			i = 1
		}
		u2(w, p.Integer(i))
	}
}

func Char(c rune) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('C')
		u2(w, p.Integer(int32(c)))
	}
}

func Str(s string) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('s')
		u2(w, p.Utf8(s))
	}
}

func Enum(desc, name string) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('e')
		u2(w, p.Utf8(desc))
		u2(w, p.Utf8(name))
	}
}

func ClassLit(desc string) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('c')
		u2(w, p.Utf8(desc))
	}
}

func Nested(a Annotation) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('@')
		a.write(p, w)
	}
}

func Array(values ...Value) Value {
	return func(p *Pool, w *bytes.Buffer) {
		w.WriteByte('[')
		u2(w, uint16(len(values)))
		for _, v := range values {
			v(p, w)
		}
	}
}

func annotationsName(visible bool, kind string) string {
	if visible {
		return "RuntimeVisible" + kind
	}
	return "RuntimeInvisible" + kind
}

func Annotations(visible bool, anns ...Annotation) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, uint16(len(anns)))
		for _, a := range anns {
			a.write(p, &w)
		}
		return annotationsName(visible, "Annotations"), w.Bytes()
	}
}

func ParameterAnnotations(visible bool, params ...[]Annotation) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		w.WriteByte(byte(len(params)))
		for _, anns := range params {
			u2(&w, uint16(len(anns)))
			for _, a := range anns {
				a.write(p, &w)
			}
		}
		return annotationsName(visible, "ParameterAnnotations"), w.Bytes()
	}
}

func AnnotationDefault(v Value) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		v(p, &w)
		return "AnnotationDefault", w.Bytes()
	}
}

// TypeAnnotation describes one type_annotation. TargetInfo is written
// verbatim after the target type; Path holds (kind, argument index) steps.
type TypeAnnotation struct {
	Target     byte
	TargetInfo []byte
	Path       [][2]byte
	Annotation Annotation
}

func TypeAnnotations(visible bool, anns ...TypeAnnotation) Attribute {
	return func(p *Pool) (string, []byte) {
		var w bytes.Buffer
		u2(&w, uint16(len(anns)))
		for _, ta := range anns {
			w.WriteByte(ta.Target)
			w.Write(ta.TargetInfo)
			w.WriteByte(byte(len(ta.Path)))
			for _, step := range ta.Path {
				w.Write(step[:])
			}
			ta.Annotation.write(p, &w)
		}
		return annotationsName(visible, "TypeAnnotations"), w.Bytes()
	}
}
