package classfile

import (
	"bytes"
	"io"

	"gitlab.com/tozd/go/errors"
)

// ClassNode is a class file with every constant pool reference resolved.
// It carries only what is needed to reconstruct declarations.
type ClassNode struct {
	Name                string
	Access              AccessFlags
	SuperName           string
	Interfaces          []string
	Signature           string
	Deprecated          bool
	InnerClasses        []InnerClassNode
	PermittedSubclasses []string

	VisibleAnnotations       []AnnotationNode
	InvisibleAnnotations     []AnnotationNode
	VisibleTypeAnnotations   []TypeAnnotationNode
	InvisibleTypeAnnotations []TypeAnnotationNode

	Fields  []FieldNode
	Methods []MethodNode
}

type InnerClassNode struct {
	Name      string
	OuterName string
	InnerName string
	Access    AccessFlags
}

type FieldNode struct {
	Access     AccessFlags
	Name       string
	Descriptor string
	Signature  string
	Deprecated bool
	// Value is the ConstantValue: int32, int64, float32, float64 or string.
	Value any

	VisibleAnnotations       []AnnotationNode
	InvisibleAnnotations     []AnnotationNode
	VisibleTypeAnnotations   []TypeAnnotationNode
	InvisibleTypeAnnotations []TypeAnnotationNode
}

type MethodNode struct {
	Access            AccessFlags
	Name              string
	Descriptor        string
	Signature         string
	Deprecated        bool
	Exceptions        []string
	Parameters        []MethodParameterNode
	AnnotationDefault *ElementValueNode

	VisibleAnnotations            []AnnotationNode
	InvisibleAnnotations          []AnnotationNode
	VisibleParameterAnnotations   [][]AnnotationNode
	InvisibleParameterAnnotations [][]AnnotationNode
	VisibleTypeAnnotations        []TypeAnnotationNode
	InvisibleTypeAnnotations      []TypeAnnotationNode
}

type MethodParameterNode struct {
	Name   string
	Access AccessFlags
}

type AnnotationNode struct {
	Descriptor string
	Values     []ElementValuePairNode
}

type ElementValuePairNode struct {
	Name  string
	Value ElementValueNode
}

// ElementValueNode is a resolved annotation element value. Const holds
// bool, int8, uint16 (char), int16, int32, int64, float32, float64 or
// string for the constant tags.
type ElementValueNode struct {
	Tag        byte
	Const      any
	EnumType   string
	EnumName   string
	Class      string
	Annotation *AnnotationNode
	Elements   []ElementValueNode
}

type TypeAnnotationNode struct {
	Target      TargetType
	TargetIndex uint16
	BoundIndex  uint8
	Path        []TypePathEntry
	Annotation  AnnotationNode
}

// ReadClass decodes and resolves one class file.
func ReadClass(rd io.Reader) (*ClassNode, error) {
	cf, err := Parse(rd)
	if err != nil {
		return nil, err
	}
	return cf.Resolve()
}

// ReadClassBytes is ReadClass over an in-memory class file.
func ReadClassBytes(data []byte) (*ClassNode, error) {
	return ReadClass(bytes.NewReader(data))
}

// Resolve turns the raw structure into a ClassNode.
func (cf *ClassFile) Resolve() (*ClassNode, error) {
	cp := cf.ConstantPool
	node := &ClassNode{
		Name:       cf.ClassName(),
		Access:     cf.AccessFlags,
		SuperName:  cf.SuperClassName(),
		Interfaces: cf.InterfaceNames(),
	}
	if node.Name == "" {
		return nil, errors.New("this_class does not name a class")
	}

	res := resolver{cp: cp}
	common := res.common(cf.Attributes)
	node.Signature = common.signature
	node.Deprecated = common.deprecated
	node.VisibleAnnotations = common.visible
	node.InvisibleAnnotations = common.invisible
	node.VisibleTypeAnnotations = common.visibleTypes
	node.InvisibleTypeAnnotations = common.invisibleTypes

	if attr := findAttribute(cf.Attributes, "InnerClasses"); attr != nil {
		entries, err := parseInnerClassesAttribute(attr.Info)
		res.fail(err)
		for _, e := range entries {
			node.InnerClasses = append(node.InnerClasses, InnerClassNode{
				Name:      cp.GetClassName(e.InnerClassInfoIndex),
				OuterName: cp.GetClassName(e.OuterClassInfoIndex),
				InnerName: cp.GetUtf8(e.InnerNameIndex),
				Access:    e.InnerClassAccessFlags,
			})
		}
	}
	if attr := findAttribute(cf.Attributes, "PermittedSubclasses"); attr != nil {
		indexes, err := parseIndexTableAttribute(attr.Info, attr.Name)
		res.fail(err)
		for _, idx := range indexes {
			node.PermittedSubclasses = append(node.PermittedSubclasses, cp.GetClassName(idx))
		}
	}
	if res.err != nil {
		return nil, errors.Errorf("class %s: %w", node.Name, res.err)
	}

	for i := range cf.Fields {
		field, err := res.field(&cf.Fields[i])
		if err != nil {
			return nil, errors.Errorf("class %s: field %s: %w", node.Name, cf.Fields[i].Name(cp), err)
		}
		node.Fields = append(node.Fields, field)
	}
	for i := range cf.Methods {
		method, err := res.method(&cf.Methods[i])
		if err != nil {
			return nil, errors.Errorf("class %s: method %s: %w", node.Name, cf.Methods[i].Name(cp), err)
		}
		node.Methods = append(node.Methods, method)
	}
	return node, nil
}

type resolver struct {
	cp  ConstantPool
	err error
}

func (r *resolver) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

type commonAttributes struct {
	signature      string
	deprecated     bool
	visible        []AnnotationNode
	invisible      []AnnotationNode
	visibleTypes   []TypeAnnotationNode
	invisibleTypes []TypeAnnotationNode
}

func (r *resolver) common(attrs []AttributeInfo) commonAttributes {
	var c commonAttributes
	for _, attr := range attrs {
		switch attr.Name {
		case "Signature":
			idx, err := parseIndexAttribute(attr.Info, attr.Name)
			r.fail(err)
			c.signature = r.cp.GetUtf8(idx)
		case "Deprecated":
			c.deprecated = true
		case "RuntimeVisibleAnnotations":
			c.visible = r.annotations(attr)
		case "RuntimeInvisibleAnnotations":
			c.invisible = r.annotations(attr)
		case "RuntimeVisibleTypeAnnotations":
			c.visibleTypes = r.typeAnnotations(attr)
		case "RuntimeInvisibleTypeAnnotations":
			c.invisibleTypes = r.typeAnnotations(attr)
		}
	}
	return c
}

func (r *resolver) field(m *MemberInfo) (FieldNode, error) {
	c := r.common(m.Attributes)
	field := FieldNode{
		Access:                   m.AccessFlags,
		Name:                     m.Name(r.cp),
		Descriptor:               m.Descriptor(r.cp),
		Signature:                c.signature,
		Deprecated:               c.deprecated,
		VisibleAnnotations:       c.visible,
		InvisibleAnnotations:     c.invisible,
		VisibleTypeAnnotations:   c.visibleTypes,
		InvisibleTypeAnnotations: c.invisibleTypes,
	}
	if attr := findAttribute(m.Attributes, "ConstantValue"); attr != nil {
		idx, err := parseIndexAttribute(attr.Info, attr.Name)
		r.fail(err)
		if err == nil {
			field.Value, err = r.cp.Constant(idx)
			r.fail(err)
		}
	}
	err := r.err
	r.err = nil
	return field, err
}

func (r *resolver) method(m *MemberInfo) (MethodNode, error) {
	c := r.common(m.Attributes)
	method := MethodNode{
		Access:                   m.AccessFlags,
		Name:                     m.Name(r.cp),
		Descriptor:               m.Descriptor(r.cp),
		Signature:                c.signature,
		Deprecated:               c.deprecated,
		VisibleAnnotations:       c.visible,
		InvisibleAnnotations:     c.invisible,
		VisibleTypeAnnotations:   c.visibleTypes,
		InvisibleTypeAnnotations: c.invisibleTypes,
	}
	for _, attr := range m.Attributes {
		switch attr.Name {
		case "Exceptions":
			indexes, err := parseIndexTableAttribute(attr.Info, attr.Name)
			r.fail(err)
			for _, idx := range indexes {
				method.Exceptions = append(method.Exceptions, r.cp.GetClassName(idx))
			}
		case "MethodParameters":
			params, err := parseMethodParametersAttribute(attr.Info)
			r.fail(err)
			for _, p := range params {
				method.Parameters = append(method.Parameters, MethodParameterNode{
					Name:   r.cp.GetUtf8(p.NameIndex),
					Access: p.AccessFlags,
				})
			}
		case "AnnotationDefault":
			ev, err := parseAnnotationDefaultAttribute(attr.Info)
			r.fail(err)
			if err == nil {
				value := r.elementValue(ev)
				method.AnnotationDefault = &value
			}
		case "RuntimeVisibleParameterAnnotations":
			method.VisibleParameterAnnotations = r.parameterAnnotations(attr)
		case "RuntimeInvisibleParameterAnnotations":
			method.InvisibleParameterAnnotations = r.parameterAnnotations(attr)
		}
	}
	err := r.err
	r.err = nil
	return method, err
}

func (r *resolver) annotations(attr AttributeInfo) []AnnotationNode {
	raw, err := parseAnnotationsAttribute(attr.Info, attr.Name)
	r.fail(err)
	nodes := make([]AnnotationNode, 0, len(raw))
	for _, a := range raw {
		nodes = append(nodes, r.annotation(a))
	}
	return nodes
}

func (r *resolver) parameterAnnotations(attr AttributeInfo) [][]AnnotationNode {
	raw, err := parseParameterAnnotationsAttribute(attr.Info, attr.Name)
	r.fail(err)
	params := make([][]AnnotationNode, len(raw))
	for i, anns := range raw {
		for _, a := range anns {
			params[i] = append(params[i], r.annotation(a))
		}
	}
	return params
}

func (r *resolver) typeAnnotations(attr AttributeInfo) []TypeAnnotationNode {
	raw, err := parseTypeAnnotationsAttribute(attr.Info, attr.Name)
	r.fail(err)
	nodes := make([]TypeAnnotationNode, 0, len(raw))
	for _, ta := range raw {
		nodes = append(nodes, TypeAnnotationNode{
			Target:      ta.TargetType,
			TargetIndex: ta.TargetIndex,
			BoundIndex:  ta.BoundIndex,
			Path:        ta.TargetPath,
			Annotation:  r.annotation(ta.Annotation),
		})
	}
	return nodes
}

func (r *resolver) annotation(a Annotation) AnnotationNode {
	node := AnnotationNode{Descriptor: r.cp.GetUtf8(a.TypeIndex)}
	for _, pair := range a.ElementValuePairs {
		node.Values = append(node.Values, ElementValuePairNode{
			Name:  r.cp.GetUtf8(pair.ElementNameIndex),
			Value: r.elementValue(pair.Value),
		})
	}
	return node
}

func (r *resolver) elementValue(ev ElementValue) ElementValueNode {
	node := ElementValueNode{Tag: ev.Tag}
	switch ev.Tag {
	case 'e':
		node.EnumType = r.cp.GetUtf8(ev.Enum.TypeNameIndex)
		node.EnumName = r.cp.GetUtf8(ev.Enum.ConstNameIndex)
	case 'c':
		node.Class = r.cp.GetUtf8(ev.Index)
	case '@':
		ann := r.annotation(*ev.Annotation)
		node.Annotation = &ann
	case '[':
		node.Elements = make([]ElementValueNode, 0, len(ev.Values))
		for _, v := range ev.Values {
			node.Elements = append(node.Elements, r.elementValue(v))
		}
	default:
		value, err := r.cp.Constant(ev.Index)
		r.fail(err)
		node.Const = narrowConstant(ev.Tag, value)
	}
	return node
}

// narrowConstant converts the int32 backing of the sub-int element tags
// to the Go type of matching width.
func narrowConstant(tag byte, value any) any {
	i, ok := value.(int32)
	if !ok {
		return value
	}
	switch tag {
	case 'Z':
		return i != 0
	case 'B':
		return int8(i)
	case 'C':
		return uint16(i)
	case 'S':
		return int16(i)
	}
	return i
}
