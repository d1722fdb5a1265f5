package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/java/signature"
)

// JSONEncoder writes the class model with rendered type expressions.
type JSONEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildClassData(e.class), "", "  ")
}

type jsonClass struct {
	Name           string       `json:"name"`
	SimpleName     string       `json:"simpleName"`
	Package        string       `json:"package"`
	Kind           string       `json:"kind"`
	Modifiers      []string     `json:"modifiers,omitempty"`
	TypeParameters []string     `json:"typeParameters,omitempty"`
	SuperClass     string       `json:"superClass,omitempty"`
	Interfaces     []string     `json:"interfaces,omitempty"`
	Permits        []string     `json:"permits,omitempty"`
	Annotations    []string     `json:"annotations,omitempty"`
	Javadoc        string       `json:"javadoc,omitempty"`
	Deprecated     bool         `json:"deprecated,omitempty"`
	InstanceInner  bool         `json:"instanceInner,omitempty"`
	ReceiverChain  string       `json:"receiverChain,omitempty"`
	EnumConstants  []string     `json:"enumConstants,omitempty"`
	Fields         []jsonField  `json:"fields,omitempty"`
	Methods        []jsonMethod `json:"methods,omitempty"`
	NestedClasses  []jsonClass  `json:"nestedClasses,omitempty"`
}

type jsonField struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Modifiers   []string `json:"modifiers,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
	Initializer string   `json:"initializer,omitempty"`
	Javadoc     string   `json:"javadoc,omitempty"`
}

type jsonMethod struct {
	Name           string          `json:"name"`
	Descriptor     string          `json:"descriptor"`
	Constructor    bool            `json:"constructor,omitempty"`
	Modifiers      []string        `json:"modifiers,omitempty"`
	TypeParameters []string        `json:"typeParameters,omitempty"`
	ReturnType     string          `json:"returnType,omitempty"`
	Receiver       string          `json:"receiver,omitempty"`
	Parameters     []jsonParameter `json:"parameters,omitempty"`
	Throws         []string        `json:"throws,omitempty"`
	Varargs        bool            `json:"varargs,omitempty"`
	Annotations    []string        `json:"annotations,omitempty"`
	Default        string          `json:"default,omitempty"`
	Javadoc        string          `json:"javadoc,omitempty"`
}

type jsonParameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Modifiers   []string `json:"modifiers,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
	Javadoc     string   `json:"javadoc,omitempty"`
}

var jsonTypes = signature.Renderer{Annotation: Annotation}

func buildClassData(c *java.ClassModel) jsonClass {
	data := jsonClass{
		Name:           c.Name,
		SimpleName:     c.SimpleName,
		Package:        c.Package,
		Kind:           string(c.Kind),
		Modifiers:      modifierList(c.Modifiers),
		TypeParameters: typeParameterList(c.TypeParameters),
		Interfaces:     typeStrings(classTypes(c.Interfaces)),
		Permits:        typeStrings(classTypes(c.Permits)),
		Annotations:    annotationList(c.Annotations),
		Javadoc:        c.Javadoc,
		Deprecated:     c.IsDeprecated,
		InstanceInner:  c.InstanceInner,
		ReceiverChain:  c.ReceiverChain,
	}
	if c.SuperClass != nil {
		data.SuperClass = jsonTypes.Type(c.SuperClass)
	}
	for _, ec := range c.EnumConstants {
		data.EnumConstants = append(data.EnumConstants, ec.Name)
	}
	for _, f := range c.Fields {
		data.Fields = append(data.Fields, jsonField{
			Name:        f.Name,
			Type:        jsonTypes.Type(f.Type),
			Modifiers:   modifierList(f.Modifiers),
			Annotations: annotationList(f.Annotations),
			Initializer: f.Initializer,
			Javadoc:     f.Javadoc,
		})
	}
	for _, m := range c.Methods {
		data.Methods = append(data.Methods, buildMethodData(m))
	}
	for _, nested := range c.NestedClasses {
		data.NestedClasses = append(data.NestedClasses, buildClassData(nested))
	}
	return data
}

func buildMethodData(m java.MethodModel) jsonMethod {
	data := jsonMethod{
		Name:           m.Name,
		Descriptor:     m.Descriptor,
		Constructor:    m.IsConstructor,
		Modifiers:      modifierList(m.Modifiers),
		TypeParameters: typeParameterList(m.TypeParameters),
		Throws:         typeStrings(m.Throws),
		Varargs:        m.IsVarargs,
		Annotations:    annotationList(m.Annotations),
		Javadoc:        m.Javadoc,
	}
	if m.ReturnType != nil {
		data.ReturnType = jsonTypes.Type(m.ReturnType)
	}
	if m.Receiver != nil {
		data.Receiver = jsonTypes.Type(m.Receiver.Type) + " " + m.Receiver.Name
	}
	if m.DefaultValue != nil {
		data.Default = ElementValue(*m.DefaultValue)
	}
	for _, p := range m.Parameters {
		data.Parameters = append(data.Parameters, jsonParameter{
			Name:        p.Name,
			Type:        jsonTypes.Type(p.Type),
			Modifiers:   modifierList(p.Modifiers),
			Annotations: annotationList(p.Annotations),
			Javadoc:     p.Javadoc,
		})
	}
	return data
}

func modifierList(mods java.Modifiers) []string {
	var out []string
	for _, m := range mods {
		out = append(out, string(m))
	}
	return out
}

func typeParameterList(params []*signature.TypeParameter) []string {
	var out []string
	for _, tp := range params {
		out = append(out, jsonTypes.TypeParameter(tp))
	}
	return out
}

func typeStrings(types []signature.Type) []string {
	var out []string
	for _, t := range types {
		out = append(out, jsonTypes.Type(t))
	}
	return out
}

func annotationList(anns []classfile.AnnotationNode) []string {
	var out []string
	for _, a := range anns {
		out = append(out, Annotation(a))
	}
	return out
}
