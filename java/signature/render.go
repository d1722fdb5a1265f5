package signature

import (
	"strings"

	"github.com/dhamidi/stubgen/classfile"
)

// Renderer writes type expressions as Java source.
type Renderer struct {
	// Simple drops package qualifiers.
	Simple bool
	// Annotation renders a type-use annotation. When nil, annotations are
	// omitted.
	Annotation func(classfile.AnnotationNode) string
}

// String renders t with fully qualified names and no annotations.
func String(t Type) string {
	return Renderer{}.Type(t)
}

// SimpleString renders t with simple names and no annotations.
func SimpleString(t Type) string {
	return Renderer{Simple: true}.Type(t)
}

func (r Renderer) Type(t Type) string {
	var b strings.Builder
	r.writeType(&b, t)
	return b.String()
}

// TypeParameter renders a formal type parameter with its bounds. An
// unannotated java.lang.Object bound is implied and left out.
func (r Renderer) TypeParameter(tp *TypeParameter) string {
	var b strings.Builder
	r.writeAnnotations(&b, tp.Annotations)
	b.WriteString(tp.Name)
	var bounds []Type
	for _, bound := range tp.Bounds() {
		if !IsObject(bound) {
			bounds = append(bounds, bound)
		}
	}
	for i, bound := range bounds {
		if i == 0 {
			b.WriteString(" extends ")
		} else {
			b.WriteString(" & ")
		}
		r.writeType(&b, bound)
	}
	return b.String()
}

// TypeParameters renders a "<...>" list, or nothing for an empty list.
func (r Renderer) TypeParameters(params []*TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, tp := range params {
		parts[i] = r.TypeParameter(tp)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (r Renderer) writeAnnotations(b *strings.Builder, anns []classfile.AnnotationNode) {
	if r.Annotation == nil {
		return
	}
	for _, a := range anns {
		b.WriteString(r.Annotation(a))
		b.WriteByte(' ')
	}
}

func (r Renderer) writeType(b *strings.Builder, t Type) {
	switch t := t.(type) {
	case *Primitive:
		r.writeAnnotations(b, t.Annotations)
		b.WriteString(t.Kind.String())
	case *TypeVariable:
		r.writeAnnotations(b, t.Annotations)
		b.WriteString(t.Name)
	case *ClassType:
		r.writeClass(b, t)
	case *ArrayType:
		var dims []*ArrayType
		var elem Type = t
		for {
			a, ok := elem.(*ArrayType)
			if !ok {
				break
			}
			dims = append(dims, a)
			elem = a.Component
		}
		r.writeType(b, elem)
		for _, dim := range dims {
			if r.Annotation != nil && len(dim.Annotations) > 0 {
				b.WriteByte(' ')
				r.writeAnnotations(b, dim.Annotations)
			}
			b.WriteString("[]")
		}
	}
}

func (r Renderer) writeClass(b *strings.Builder, t *ClassType) {
	if t.Enclosing != nil {
		r.writeClass(b, t.Enclosing)
		b.WriteByte('.')
	} else if t.Package != "" && !r.Simple {
		b.WriteString(t.Package)
		b.WriteByte('.')
	}
	r.writeAnnotations(b, t.Annotations)
	b.WriteString(t.Name)
	if len(t.Arguments) == 0 {
		return
	}
	b.WriteByte('<')
	for i, arg := range t.Arguments {
		if i > 0 {
			b.WriteString(", ")
		}
		r.writeArgument(b, arg)
	}
	b.WriteByte('>')
}

func (r Renderer) writeArgument(b *strings.Builder, a TypeArgument) {
	switch a.Wildcard {
	case Exact:
		r.writeType(b, a.Type)
		return
	case Unbounded:
		r.writeAnnotations(b, a.Annotations)
		b.WriteByte('?')
		return
	}
	r.writeAnnotations(b, a.Annotations)
	if a.Wildcard == Extends {
		b.WriteString("? extends ")
	} else {
		b.WriteString("? super ")
	}
	r.writeType(b, a.Type)
}

// Descriptor renders the erased descriptor shape of t. Type variables
// keep their signature form.
func Descriptor(t Type) string {
	var b strings.Builder
	writeDescriptor(&b, t)
	return b.String()
}

// MethodDescriptor renders the descriptor shape of a method.
func MethodDescriptor(m *MethodSignature) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Parameters {
		writeDescriptor(&b, p)
	}
	b.WriteByte(')')
	writeDescriptor(&b, m.Return)
	return b.String()
}

func writeDescriptor(b *strings.Builder, t Type) {
	switch t := t.(type) {
	case *Primitive:
		b.WriteByte(byte(t.Kind))
	case *TypeVariable:
		b.WriteString("T" + t.Name + ";")
	case *ClassType:
		b.WriteString("L" + t.InternalName() + ";")
	case *ArrayType:
		b.WriteByte('[')
		writeDescriptor(b, t.Component)
	}
}
