package classfile

import (
	"gitlab.com/tozd/go/errors"
)

type AttributeInfo struct {
	Name string
	Info []byte
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type MethodParameter struct {
	NameIndex   uint16
	AccessFlags AccessFlags
}

type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue holds one element_value. Depending on Tag, Index is a
// constant pool index (constants, class literals), Enum is set ('e'),
// Annotation is set ('@') or Values is set ('[').
type ElementValue struct {
	Tag        byte
	Index      uint16
	Enum       EnumConstValue
	Annotation *Annotation
	Values     []ElementValue
}

type EnumConstValue struct {
	TypeNameIndex  uint16
	ConstNameIndex uint16
}

type TypeAnnotation struct {
	TargetType TargetType
	// TargetIndex is the type_parameter_index, supertype_index,
	// formal_parameter_index or throws_type_index depending on TargetType.
	TargetIndex uint16
	BoundIndex  uint8
	TargetPath  []TypePathEntry
	Annotation  Annotation
}

type TypePathEntry struct {
	TypePathKind      TypePathKind
	TypeArgumentIndex uint8
}

func findAttribute(attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func finish[T any](r *reader, v T, name string) (T, error) {
	if r.err != nil {
		var zero T
		return zero, errors.Errorf("malformed %s attribute: %w", name, r.err)
	}
	return v, nil
}

func parseIndexAttribute(info []byte, name string) (uint16, error) {
	r := newByteReader(info)
	return finish(r, r.readU2(), name)
}

func parseIndexTableAttribute(info []byte, name string) ([]uint16, error) {
	r := newByteReader(info)
	return finish(r, readIndexTable(r), name)
}

func parseInnerClassesAttribute(info []byte) ([]InnerClassEntry, error) {
	r := newByteReader(info)
	count := r.readU2()
	entries := make([]InnerClassEntry, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		entries = append(entries, InnerClassEntry{
			InnerClassInfoIndex:   r.readU2(),
			OuterClassInfoIndex:   r.readU2(),
			InnerNameIndex:        r.readU2(),
			InnerClassAccessFlags: AccessFlags(r.readU2()),
		})
	}
	return finish(r, entries, "InnerClasses")
}

func parseMethodParametersAttribute(info []byte) ([]MethodParameter, error) {
	r := newByteReader(info)
	count := r.readU1()
	params := make([]MethodParameter, 0, count)
	for i := uint8(0); i < count && r.err == nil; i++ {
		params = append(params, MethodParameter{
			NameIndex:   r.readU2(),
			AccessFlags: AccessFlags(r.readU2()),
		})
	}
	return finish(r, params, "MethodParameters")
}

func readElementValue(r *reader) ElementValue {
	ev := ElementValue{Tag: r.readU1()}
	switch ev.Tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		ev.Index = r.readU2()
	case 'e':
		ev.Enum = EnumConstValue{TypeNameIndex: r.readU2(), ConstNameIndex: r.readU2()}
	case '@':
		ann := readAnnotation(r)
		ev.Annotation = &ann
	case '[':
		count := r.readU2()
		ev.Values = make([]ElementValue, 0, count)
		for i := uint16(0); i < count && r.err == nil; i++ {
			ev.Values = append(ev.Values, readElementValue(r))
		}
	default:
		if r.err == nil {
			r.err = errors.Errorf("unknown element value tag %q", ev.Tag)
		}
	}
	return ev
}

func readAnnotation(r *reader) Annotation {
	ann := Annotation{TypeIndex: r.readU2()}
	count := r.readU2()
	ann.ElementValuePairs = make([]ElementValuePair, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		name := r.readU2()
		ann.ElementValuePairs = append(ann.ElementValuePairs, ElementValuePair{
			ElementNameIndex: name,
			Value:            readElementValue(r),
		})
	}
	return ann
}

func readAnnotations(r *reader) []Annotation {
	count := r.readU2()
	anns := make([]Annotation, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		anns = append(anns, readAnnotation(r))
	}
	return anns
}

func parseAnnotationsAttribute(info []byte, name string) ([]Annotation, error) {
	r := newByteReader(info)
	return finish(r, readAnnotations(r), name)
}

func parseParameterAnnotationsAttribute(info []byte, name string) ([][]Annotation, error) {
	r := newByteReader(info)
	count := r.readU1()
	params := make([][]Annotation, 0, count)
	for i := uint8(0); i < count && r.err == nil; i++ {
		params = append(params, readAnnotations(r))
	}
	return finish(r, params, name)
}

func parseAnnotationDefaultAttribute(info []byte) (ElementValue, error) {
	r := newByteReader(info)
	return finish(r, readElementValue(r), "AnnotationDefault")
}

// readTypeAnnotation decodes one type_annotation. The boolean result is
// false for targets that only occur inside method bodies.
func readTypeAnnotation(r *reader) (TypeAnnotation, bool) {
	ta := TypeAnnotation{TargetType: TargetType(r.readU1())}
	keep := true
	switch ta.TargetType {
	case TargetClassTypeParameter, TargetMethodTypeParameter, TargetMethodFormalParameter:
		ta.TargetIndex = uint16(r.readU1())
	case TargetClassExtends, TargetThrows:
		ta.TargetIndex = r.readU2()
	case TargetClassTypeParameterBound, TargetMethodTypeParamBound:
		ta.TargetIndex = uint16(r.readU1())
		ta.BoundIndex = r.readU1()
	case TargetField, TargetMethodReturn, TargetMethodReceiver:
	case 0x40, 0x41:
		r.skip(int(r.readU2()) * 6)
		keep = false
	case 0x42, 0x43, 0x44, 0x45, 0x46:
		r.skip(2)
		keep = false
	case 0x47, 0x48, 0x49, 0x4A, 0x4B:
		r.skip(3)
		keep = false
	default:
		if r.err == nil {
			r.err = errors.Errorf("unknown type annotation target 0x%02X", uint8(ta.TargetType))
		}
	}

	pathLength := r.readU1()
	ta.TargetPath = make([]TypePathEntry, 0, pathLength)
	for i := uint8(0); i < pathLength && r.err == nil; i++ {
		ta.TargetPath = append(ta.TargetPath, TypePathEntry{
			TypePathKind:      TypePathKind(r.readU1()),
			TypeArgumentIndex: r.readU1(),
		})
	}
	ta.Annotation = readAnnotation(r)
	return ta, keep
}

func parseTypeAnnotationsAttribute(info []byte, name string) ([]TypeAnnotation, error) {
	r := newByteReader(info)
	count := r.readU2()
	anns := make([]TypeAnnotation, 0, count)
	for i := uint16(0); i < count && r.err == nil; i++ {
		if ta, keep := readTypeAnnotation(r); keep {
			anns = append(anns, ta)
		}
	}
	return finish(r, anns, name)
}
