package java

import (
	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java/signature"
)

func (b *classBuilder) buildField(f *classfile.FieldNode) (*FieldModel, error) {
	anns := signature.NewTypeAnnotations(f.InvisibleTypeAnnotations, f.VisibleTypeAnnotations)
	var typ signature.Type
	var err error
	if f.Signature != "" {
		typ, err = signature.ParseFieldSignature(f.Signature, anns, b.g.env)
	} else {
		typ, err = signature.ParseFieldDescriptor(f.Descriptor, anns.Field(), b.g.env)
	}
	if err != nil {
		return nil, err
	}

	field := &FieldModel{
		Name:         f.Name,
		Type:         typ,
		Modifiers:    ModifiersFor(f.Access, DeclField),
		Annotations:  declarationAnnotations(f.InvisibleAnnotations, f.VisibleAnnotations),
		Javadoc:      b.g.mappings.FieldDoc(b.node.Name, f.Name, f.Descriptor),
		IsDeprecated: f.Deprecated,
	}
	if f.Access.IsFinal() {
		field.Initializer = Initializer(f.Descriptor, f.Value)
	}
	return field, nil
}

// buildEnumConstant keeps the annotations of the constant itself and the
// ones targeting its type, which on an enum constant read as declaration
// annotations.
func (b *classBuilder) buildEnumConstant(f *classfile.FieldNode) EnumConstantModel {
	anns := signature.NewTypeAnnotations(f.InvisibleTypeAnnotations, f.VisibleTypeAnnotations)
	annotations := declarationAnnotations(f.InvisibleAnnotations, f.VisibleAnnotations)
	annotations = append(annotations, anns.Field().Current()...)
	return EnumConstantModel{
		Name:        f.Name,
		Javadoc:     b.g.mappings.FieldDoc(b.node.Name, f.Name, f.Descriptor),
		Annotations: annotations,
	}
}
