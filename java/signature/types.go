// Package signature parses class-file descriptors and generic signatures
// into type expressions, threading type annotations onto the exact
// positions they target.
package signature

import (
	"strings"

	"github.com/dhamidi/stubgen/classfile"
)

// Type is a type expression: *Primitive, *ClassType, *ArrayType or
// *TypeVariable.
type Type interface {
	Annotated() []classfile.AnnotationNode
	isType()
}

type PrimitiveKind byte

const (
	Byte    PrimitiveKind = 'B'
	Char    PrimitiveKind = 'C'
	Double  PrimitiveKind = 'D'
	Float   PrimitiveKind = 'F'
	Int     PrimitiveKind = 'I'
	Long    PrimitiveKind = 'J'
	Short   PrimitiveKind = 'S'
	Boolean PrimitiveKind = 'Z'
	Void    PrimitiveKind = 'V'
)

var primitiveNames = map[PrimitiveKind]string{
	Byte:    "byte",
	Char:    "char",
	Double:  "double",
	Float:   "float",
	Int:     "int",
	Long:    "long",
	Short:   "short",
	Boolean: "boolean",
	Void:    "void",
}

func (k PrimitiveKind) String() string {
	return primitiveNames[k]
}

// Wide reports whether a value of this kind takes two local variable slots.
func (k PrimitiveKind) Wide() bool {
	return k == Long || k == Double
}

func isPrimitive(c byte) bool {
	_, ok := primitiveNames[PrimitiveKind(c)]
	return ok && c != 'V'
}

type Primitive struct {
	Kind        PrimitiveKind
	Annotations []classfile.AnnotationNode
}

// ClassType is one segment of a possibly nested class reference. The
// outermost segment carries the package; every other segment points at
// the segment it is nested in.
type ClassType struct {
	Package     string
	Name        string
	Enclosing   *ClassType
	Arguments   []TypeArgument
	Annotations []classfile.AnnotationNode
}

type ArrayType struct {
	Component   Type
	Annotations []classfile.AnnotationNode
}

type TypeVariable struct {
	Name        string
	Annotations []classfile.AnnotationNode
}

func (t *Primitive) Annotated() []classfile.AnnotationNode    { return t.Annotations }
func (t *ClassType) Annotated() []classfile.AnnotationNode    { return t.Annotations }
func (t *ArrayType) Annotated() []classfile.AnnotationNode    { return t.Annotations }
func (t *TypeVariable) Annotated() []classfile.AnnotationNode { return t.Annotations }

func (*Primitive) isType()    {}
func (*ClassType) isType()    {}
func (*ArrayType) isType()    {}
func (*TypeVariable) isType() {}

type WildcardKind uint8

const (
	Exact WildcardKind = iota
	Unbounded
	Extends
	Super
)

// TypeArgument is one entry of a type argument list. Type is nil for an
// unbounded wildcard. Annotations sit on the wildcard itself.
type TypeArgument struct {
	Wildcard    WildcardKind
	Type        Type
	Annotations []classfile.AnnotationNode
}

// TypeParameter is a formal type parameter. ClassBound is nil when the
// class bound is empty, in which case at least one interface bound exists
// or the parameter is implicitly bounded by Object.
type TypeParameter struct {
	Name            string
	ClassBound      Type
	InterfaceBounds []Type
	Annotations     []classfile.AnnotationNode
}

// Bounds returns the declared bounds in order, skipping an empty class
// bound.
func (p *TypeParameter) Bounds() []Type {
	bounds := make([]Type, 0, 1+len(p.InterfaceBounds))
	if p.ClassBound != nil {
		bounds = append(bounds, p.ClassBound)
	}
	return append(bounds, p.InterfaceBounds...)
}

type ClassSignature struct {
	TypeParameters []*TypeParameter
	Superclass     *ClassType
	Interfaces     []*ClassType
}

type MethodSignature struct {
	TypeParameters []*TypeParameter
	Parameters     []Type
	Return         Type
	Throws         []Type
}

// Object is the implicit bound of every type variable.
const Object = "java/lang/Object"

// InternalName returns the slash and dollar separated binary name.
func (t *ClassType) InternalName() string {
	var segments []string
	root := t
	for c := t; c != nil; c = c.Enclosing {
		segments = append(segments, c.Name)
		root = c
	}
	var b strings.Builder
	if root.Package != "" {
		b.WriteString(strings.ReplaceAll(root.Package, ".", "/"))
		b.WriteByte('/')
	}
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
		if i > 0 {
			b.WriteByte('$')
		}
	}
	return b.String()
}

// ClassName builds an unannotated, non-generic reference from an internal
// name, splitting nested segments on '$'.
func ClassName(internalName string) *ClassType {
	pkg, segments := splitInternalName(internalName)
	var t *ClassType
	for i, seg := range segments {
		next := &ClassType{Name: seg, Enclosing: t}
		if i == 0 {
			next.Package = pkg
		}
		t = next
	}
	return t
}

// IsObject reports whether t is the unannotated java.lang.Object.
func IsObject(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.Enclosing == nil && len(c.Annotations) == 0 && c.InternalName() == Object
}

func splitInternalName(internalName string) (string, []string) {
	pkg := ""
	simple := internalName
	if i := strings.LastIndexByte(internalName, '/'); i >= 0 {
		pkg = strings.ReplaceAll(internalName[:i], "/", ".")
		simple = internalName[i+1:]
	}
	return pkg, splitNested(simple)
}

// splitNested splits a binary simple name on '$'. A '$' that is doubled
// or sits at either end of the name belongs to the name.
func splitNested(name string) []string {
	var segments []string
	start := 0
	for i := 1; i < len(name)-1; i++ {
		if name[i] == '$' && name[i-1] != '$' && name[i+1] != '$' {
			segments = append(segments, name[start:i])
			start = i + 1
		}
	}
	return append(segments, name[start:])
}
