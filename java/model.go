package java

import (
	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java/signature"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
)

// ClassModel is the declaration of one class, with its nested classes
// attached in name order.
type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	Kind           ClassKind
	Modifiers      Modifiers
	TypeParameters []*signature.TypeParameter
	SuperClass     *signature.ClassType
	Interfaces     []*signature.ClassType
	Permits        []*signature.ClassType
	Annotations    []classfile.AnnotationNode
	Javadoc        string
	IsDeprecated   bool

	// InstanceInner is set when the class is a non-static member of its
	// enclosing class.
	InstanceInner bool
	// ReceiverChain is the parameterized type of the class through its
	// enclosing instances, such as "p/Outer<TT;>.Inner", in class type
	// signature syntax without 'L' and ';'. It is empty unless an
	// enclosing class is generic.
	ReceiverChain string

	EnumConstants []EnumConstantModel
	Fields        []FieldModel
	Methods       []MethodModel
	NestedClasses []*ClassModel
}

type EnumConstantModel struct {
	Name        string
	Javadoc     string
	Annotations []classfile.AnnotationNode
}

type FieldModel struct {
	Name         string
	Type         signature.Type
	Modifiers    Modifiers
	Annotations  []classfile.AnnotationNode
	Javadoc      string
	IsDeprecated bool
	// Initializer is a Java expression, set for final fields.
	Initializer string
}

type MethodModel struct {
	Name           string
	Descriptor     string
	IsConstructor  bool
	Modifiers      Modifiers
	TypeParameters []*signature.TypeParameter
	// ReturnType is nil for constructors.
	ReturnType   signature.Type
	Receiver     *ReceiverModel
	Parameters   []ParameterModel
	Throws       []signature.Type
	IsVarargs    bool
	Annotations  []classfile.AnnotationNode
	Javadoc      string
	IsDeprecated bool
	// DefaultValue is the default of an annotation type element.
	DefaultValue *classfile.ElementValueNode
	// HasBody is set when the method needs a body; ThrowsPlaceholder when
	// that body must throw because the method returns a value.
	HasBody           bool
	ThrowsPlaceholder bool
}

// ReceiverModel is an explicit receiver parameter, written only when its
// type carries annotations.
type ReceiverModel struct {
	Type signature.Type
	Name string
}

type ParameterModel struct {
	Name        string
	Type        signature.Type
	Modifiers   Modifiers
	Annotations []classfile.AnnotationNode
	Javadoc     string
}

// Walk calls fn for c and every class nested in it, parents first.
func (c *ClassModel) Walk(fn func(*ClassModel)) {
	fn(c)
	for _, nested := range c.NestedClasses {
		nested.Walk(fn)
	}
}
