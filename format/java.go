package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/java/signature"
)

const deprecatedDescriptor = "Ljava/lang/Deprecated;"

// JavaEncoder writes a class and its nested classes as one Java
// compilation unit. Type references are fully qualified.
type JavaEncoder struct {
	w     io.Writer
	class *java.ClassModel

	sb          strings.Builder
	indent      int
	indentStr   string
	atLineStart bool
	types       signature.Renderer
}

func NewJavaEncoder(w io.Writer) *JavaEncoder {
	e := &JavaEncoder{w: w, indentStr: "    "}
	e.types = signature.Renderer{Annotation: Annotation}
	return e
}

func (e *JavaEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JavaEncoder) MarshalText() ([]byte, error) {
	e.sb.Reset()
	e.indent = 0
	e.atLineStart = true

	if pkg := e.class.Package; pkg != "" {
		e.write("package " + pkg + ";")
		e.newline()
		e.newline()
	}
	e.writeClass(e.class)
	return []byte(e.sb.String()), nil
}

func (e *JavaEncoder) writeIndent() {
	if !e.atLineStart {
		return
	}
	for i := 0; i < e.indent; i++ {
		e.sb.WriteString(e.indentStr)
	}
	e.atLineStart = false
}

func (e *JavaEncoder) write(s string) {
	e.writeIndent()
	e.sb.WriteString(s)
}

func (e *JavaEncoder) newline() {
	e.sb.WriteByte('\n')
	e.atLineStart = true
}

func (e *JavaEncoder) line(s string) {
	e.write(s)
	e.newline()
}

func (e *JavaEncoder) writeJavadoc(doc string, params []java.ParameterModel) {
	var tags []string
	for _, p := range params {
		if p.Javadoc != "" {
			tags = append(tags, "@param "+p.Name+" "+p.Javadoc)
		}
	}
	if doc == "" && len(tags) == 0 {
		return
	}
	e.line("/**")
	if doc != "" {
		e.writeDocLines(doc)
		if len(tags) > 0 {
			e.line(" *")
		}
	}
	for _, tag := range tags {
		e.writeDocLines(tag)
	}
	e.line(" */")
}

func (e *JavaEncoder) writeDocLines(text string) {
	text = strings.ReplaceAll(text, "*/", "*&#47;")
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if l == "" {
			e.line(" *")
		} else {
			e.line(" * " + l)
		}
	}
}

func (e *JavaEncoder) writeAnnotations(anns []classfile.AnnotationNode, deprecated bool) {
	for _, a := range anns {
		e.line(Annotation(a))
	}
	if deprecated && !hasAnnotation(anns, deprecatedDescriptor) {
		e.line("@java.lang.Deprecated")
	}
}

func hasAnnotation(anns []classfile.AnnotationNode, desc string) bool {
	for _, a := range anns {
		if a.Descriptor == desc {
			return true
		}
	}
	return false
}

func (e *JavaEncoder) writeClass(c *java.ClassModel) {
	e.writeJavadoc(c.Javadoc, nil)
	e.writeAnnotations(c.Annotations, c.IsDeprecated)

	var decl strings.Builder
	if mods := c.Modifiers.String(); mods != "" {
		decl.WriteString(mods)
		decl.WriteByte(' ')
	}
	switch c.Kind {
	case java.ClassKindAnnotation:
		decl.WriteString("@interface ")
	case java.ClassKindEnum:
		decl.WriteString("enum ")
	case java.ClassKindInterface:
		decl.WriteString("interface ")
	default:
		decl.WriteString("class ")
	}
	decl.WriteString(c.SimpleName)
	decl.WriteString(e.types.TypeParameters(c.TypeParameters))

	if c.SuperClass != nil {
		decl.WriteString(" extends ")
		decl.WriteString(e.types.Type(c.SuperClass))
	}
	if len(c.Interfaces) > 0 {
		if c.Kind == java.ClassKindInterface {
			decl.WriteString(" extends ")
		} else {
			decl.WriteString(" implements ")
		}
		decl.WriteString(e.typeList(classTypes(c.Interfaces)))
	}
	if len(c.Permits) > 0 {
		decl.WriteString(" permits ")
		decl.WriteString(e.typeList(classTypes(c.Permits)))
	}
	decl.WriteString(" {")
	e.line(decl.String())

	e.indent++
	sections := 0
	section := func() {
		if sections > 0 {
			e.newline()
		}
		sections++
	}

	if c.Kind == java.ClassKindEnum {
		section()
		e.writeEnumConstants(c.EnumConstants)
	}
	for _, f := range c.Fields {
		section()
		e.writeField(f)
	}
	for _, m := range c.Methods {
		section()
		e.writeMethod(c, m)
	}
	for _, nested := range c.NestedClasses {
		section()
		e.writeClass(nested)
	}
	e.indent--
	e.line("}")
}

func (e *JavaEncoder) typeList(types []signature.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = e.types.Type(t)
	}
	return strings.Join(parts, ", ")
}

func classTypes(types []*signature.ClassType) []signature.Type {
	out := make([]signature.Type, len(types))
	for i, t := range types {
		out[i] = t
	}
	return out
}

func (e *JavaEncoder) writeEnumConstants(constants []java.EnumConstantModel) {
	for i, ec := range constants {
		e.writeJavadoc(ec.Javadoc, nil)
		e.writeAnnotations(ec.Annotations, false)
		if i == len(constants)-1 {
			e.line(ec.Name + ";")
		} else {
			e.line(ec.Name + ",")
		}
	}
	if len(constants) == 0 {
		e.line(";")
	}
}

func (e *JavaEncoder) writeField(f java.FieldModel) {
	e.writeJavadoc(f.Javadoc, nil)
	e.writeAnnotations(f.Annotations, f.IsDeprecated)
	var decl strings.Builder
	if mods := f.Modifiers.String(); mods != "" {
		decl.WriteString(mods)
		decl.WriteByte(' ')
	}
	decl.WriteString(e.types.Type(f.Type))
	decl.WriteByte(' ')
	decl.WriteString(f.Name)
	if f.Initializer != "" {
		decl.WriteString(" = ")
		decl.WriteString(f.Initializer)
	}
	decl.WriteByte(';')
	e.line(decl.String())
}

func (e *JavaEncoder) writeMethod(c *java.ClassModel, m java.MethodModel) {
	e.writeJavadoc(m.Javadoc, m.Parameters)
	e.writeAnnotations(m.Annotations, m.IsDeprecated)

	var decl strings.Builder
	if mods := m.Modifiers.String(); mods != "" {
		decl.WriteString(mods)
		decl.WriteByte(' ')
	}
	if len(m.TypeParameters) > 0 {
		decl.WriteString(e.types.TypeParameters(m.TypeParameters))
		decl.WriteByte(' ')
	}
	if m.IsConstructor {
		decl.WriteString(c.SimpleName)
	} else {
		decl.WriteString(e.types.Type(m.ReturnType))
		decl.WriteByte(' ')
		decl.WriteString(m.Name)
	}

	decl.WriteByte('(')
	var params []string
	if m.Receiver != nil {
		params = append(params, e.types.Type(m.Receiver.Type)+" "+m.Receiver.Name)
	}
	for i, p := range m.Parameters {
		params = append(params, e.parameter(p, m.IsVarargs && i == len(m.Parameters)-1))
	}
	decl.WriteString(strings.Join(params, ", "))
	decl.WriteByte(')')

	if len(m.Throws) > 0 {
		decl.WriteString(" throws ")
		decl.WriteString(e.typeList(m.Throws))
	}
	if m.DefaultValue != nil {
		decl.WriteString(" default ")
		decl.WriteString(ElementValue(*m.DefaultValue))
	}

	switch {
	case !m.HasBody:
		e.line(decl.String() + ";")
	case m.ThrowsPlaceholder:
		e.line(decl.String() + " {")
		e.indent++
		e.line("throw new RuntimeException();")
		e.indent--
		e.line("}")
	default:
		e.line(decl.String() + " {")
		e.line("}")
	}
}

func (e *JavaEncoder) parameter(p java.ParameterModel, varargs bool) string {
	var b strings.Builder
	for _, a := range p.Annotations {
		b.WriteString(Annotation(a))
		b.WriteByte(' ')
	}
	if mods := p.Modifiers.String(); mods != "" {
		b.WriteString(mods)
		b.WriteByte(' ')
	}
	if arr, ok := p.Type.(*signature.ArrayType); ok && varargs {
		b.WriteString(e.types.Type(arr.Component))
		for _, a := range arr.Annotations {
			b.WriteByte(' ')
			b.WriteString(Annotation(a))
		}
		b.WriteString("...")
	} else {
		b.WriteString(e.types.Type(p.Type))
	}
	b.WriteByte(' ')
	b.WriteString(p.Name)
	return b.String()
}

// Annotation renders an annotation with its element values. A single
// element named value is written without its name.
func Annotation(a classfile.AnnotationNode) string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteString(typeName(a.Descriptor))
	if len(a.Values) == 0 {
		return b.String()
	}
	b.WriteByte('(')
	for i, pair := range a.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		if len(a.Values) > 1 || pair.Name != "value" {
			b.WriteString(pair.Name)
			b.WriteString(" = ")
		}
		b.WriteString(ElementValue(pair.Value))
	}
	b.WriteByte(')')
	return b.String()
}

// ElementValue renders an annotation element value as a Java expression.
func ElementValue(v classfile.ElementValueNode) string {
	switch v.Tag {
	case 'e':
		return typeName(v.EnumType) + "." + v.EnumName
	case 'c':
		return typeName(v.Class) + ".class"
	case '@':
		if v.Annotation == nil {
			return ""
		}
		return Annotation(*v.Annotation)
	case '[':
		parts := make([]string, len(v.Elements))
		for i, elem := range v.Elements {
			parts[i] = ElementValue(elem)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return constant(v.Const)
}

func constant(value any) string {
	switch c := value.(type) {
	case bool:
		return fmt.Sprint(c)
	case int8, int16, int32:
		return fmt.Sprint(c)
	case uint16:
		return java.CharLiteral(c)
	case int64:
		return fmt.Sprintf("%dL", c)
	case float32:
		return java.FloatLiteral(c)
	case float64:
		return java.DoubleLiteral(c)
	case string:
		return java.Quote(c)
	}
	return fmt.Sprint(value)
}

// typeName renders a field or return descriptor as a qualified source
// type.
func typeName(desc string) string {
	if desc == "V" {
		return "void"
	}
	t, err := signature.ParseFieldDescriptor(desc, nil, nil)
	if err != nil {
		log.Warningf("cannot render descriptor %q: %s", desc, err)
		return desc
	}
	return signature.String(t)
}
