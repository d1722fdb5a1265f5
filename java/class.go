package java

import (
	"strings"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java/signature"
)

const annotationInterface = "java/lang/annotation/Annotation"

// classKindOf decides the declaration kind from the access flags and
// direct supertypes.
func classKindOf(node *classfile.ClassNode) ClassKind {
	if node.Access.IsInterface() {
		if len(node.Interfaces) == 1 && node.Interfaces[0] == annotationInterface {
			return ClassKindAnnotation
		}
		return ClassKindInterface
	}
	if node.SuperName == "java/lang/Enum" {
		return ClassKindEnum
	}
	return ClassKindClass
}

func (k ClassKind) declKind() DeclKind {
	switch k {
	case ClassKindEnum:
		return DeclEnum
	case ClassKindInterface, ClassKindAnnotation:
		return DeclInterface
	}
	return DeclClass
}

// IsInterfaceLike reports whether members of the class follow interface
// rules.
func (k ClassKind) IsInterfaceLike() bool {
	return k == ClassKindInterface || k == ClassKindAnnotation
}

// classBuilder turns one ClassNode into a ClassModel. The header is built
// first, nesting information arrives when the parent attaches the class,
// and members are built last.
type classBuilder struct {
	g      *Generator
	node   *classfile.ClassNode
	model  *ClassModel
	parent *classBuilder
}

func (g *Generator) newClass(node *classfile.ClassNode) (*classBuilder, error) {
	kind := classKindOf(node)
	pkg, simple := splitClassName(node.Name)
	model := &ClassModel{
		Name:         node.Name,
		SimpleName:   simple,
		Package:      pkg,
		Kind:         kind,
		Modifiers:    ModifiersFor(node.Access, kind.declKind()),
		Annotations:  declarationAnnotations(node.InvisibleAnnotations, node.VisibleAnnotations),
		Javadoc:      g.mappings.ClassDoc(node.Name),
		IsDeprecated: node.Deprecated,
	}

	anns := signature.NewTypeAnnotations(node.InvisibleTypeAnnotations, node.VisibleTypeAnnotations)
	var cs *signature.ClassSignature
	if node.Signature != "" {
		var err error
		cs, err = signature.ParseClassSignature(node.Signature, anns, g.env)
		if err != nil {
			return nil, err
		}
	} else {
		cs = &signature.ClassSignature{}
		if node.SuperName != "" {
			cs.Superclass = signature.AnnotatedClass(node.SuperName, anns.Supertype(classfile.SuperclassIndex), g.env)
		}
		for i, iface := range node.Interfaces {
			cs.Interfaces = append(cs.Interfaces, signature.AnnotatedClass(iface, anns.Supertype(i), g.env))
		}
	}

	model.TypeParameters = cs.TypeParameters
	if kind == ClassKindClass && cs.Superclass != nil && !signature.IsObject(cs.Superclass) {
		model.SuperClass = cs.Superclass
	}
	if kind != ClassKindAnnotation {
		model.Interfaces = cs.Interfaces
	}
	if kind == ClassKindClass || kind == ClassKindInterface {
		for _, permitted := range node.PermittedSubclasses {
			model.Permits = append(model.Permits, signature.ClassName(permitted))
		}
	}
	return &classBuilder{g: g, node: node, model: model}, nil
}

// splitClassName returns the dotted package and the innermost simple name
// of an internal name.
func splitClassName(name string) (string, string) {
	pkg := ""
	simple := name
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		pkg = strings.ReplaceAll(name[:i], "/", ".")
		simple = name[i+1:]
	}
	if i := strings.LastIndexByte(simple, '$'); i >= 0 {
		simple = simple[i+1:]
	}
	return pkg, simple
}

// thisType is the parameterized type of the class in class type signature
// syntax without 'L' and ';', or "" when neither the class nor any
// enclosing instance is generic.
func (b *classBuilder) thisType() string {
	if b.model.ReceiverChain != "" {
		return b.model.ReceiverChain
	}
	if len(b.model.TypeParameters) > 0 {
		return b.node.Name + typeVariables(b.model.TypeParameters)
	}
	return ""
}

func typeVariables(params []*signature.TypeParameter) string {
	if len(params) == 0 {
		return ""
	}
	var s strings.Builder
	s.WriteByte('<')
	for _, p := range params {
		s.WriteString("T" + p.Name + ";")
	}
	s.WriteByte('>')
	return s.String()
}

// attach makes child a nested class of b. The InnerClasses entry of b
// decides the child's modifiers and whether it is an instance inner
// class. Without an entry the child is public static.
func (b *classBuilder) attach(child *classBuilder) {
	m := child.model
	child.parent = b
	entry, ok := b.innerClassEntry(child.node.Name)
	if ok {
		m.Modifiers = ModifiersFor(entry.Access, m.Kind.declKind())
		m.InstanceInner = !entry.Access.IsStatic()
		if entry.InnerName != "" {
			m.SimpleName = entry.InnerName
		}
	} else {
		m.Modifiers = Modifiers{ModifierPublic, ModifierStatic}
	}
	if m.InstanceInner {
		if outer := b.thisType(); outer != "" {
			m.ReceiverChain = outer + "." + m.SimpleName + typeVariables(m.TypeParameters)
		}
	}
	child.seal()
	b.model.NestedClasses = append(b.model.NestedClasses, m)
}

func (b *classBuilder) innerClassEntry(name string) (classfile.InnerClassNode, bool) {
	for _, entry := range b.node.InnerClasses {
		if entry.Name == name {
			return entry, true
		}
	}
	return classfile.InnerClassNode{}, false
}

// seal adds sealed to a class with permitted subclasses, and non-sealed
// to an open class that directly extends a sealed type.
func (b *classBuilder) seal() {
	m := b.model
	if m.Kind != ClassKindClass && m.Kind != ClassKindInterface {
		return
	}
	if len(m.Permits) > 0 {
		m.Modifiers = m.Modifiers.Without(ModifierFinal).With(ModifierSealed)
		return
	}
	if m.Modifiers.Has(ModifierFinal) {
		return
	}
	for _, super := range b.g.env.Supers(m.Name) {
		if b.g.env.IsSealed(super) {
			m.Modifiers = m.Modifiers.With(ModifierNonSealed)
			return
		}
	}
}

func (b *classBuilder) buildMembers() error {
	for i := range b.node.Methods {
		method := &b.node.Methods[i]
		if !b.keepMethod(method) {
			continue
		}
		model, err := b.buildMethod(method)
		if err != nil {
			if err := b.g.skipMember(b.node.Name, method.Name, method.Descriptor, err); err != nil {
				return err
			}
			continue
		}
		b.model.Methods = append(b.model.Methods, *model)
	}
	for i := range b.node.Fields {
		field := &b.node.Fields[i]
		if field.Access.IsSynthetic() || field.Access.IsMandated() {
			continue
		}
		if field.Access.IsEnum() {
			b.model.EnumConstants = append(b.model.EnumConstants, b.buildEnumConstant(field))
			continue
		}
		model, err := b.buildField(field)
		if err != nil {
			if err := b.g.skipMember(b.node.Name, field.Name, field.Descriptor, err); err != nil {
				return err
			}
			continue
		}
		b.model.Fields = append(b.model.Fields, *model)
	}
	return nil
}

func (b *classBuilder) keepMethod(m *classfile.MethodNode) bool {
	if m.Access.IsSynthetic() || m.Access.IsMandated() || m.Name == "<clinit>" {
		return false
	}
	if b.model.Kind == ClassKindEnum {
		self := "L" + b.node.Name + ";"
		switch {
		case m.Name == "values" && m.Descriptor == "()["+self:
			return false
		case m.Name == "valueOf" && m.Descriptor == "(Ljava/lang/String;)"+self:
			return false
		}
	}
	return true
}

// declarationAnnotations lists invisible annotations before visible ones.
func declarationAnnotations(invisible, visible []classfile.AnnotationNode) []classfile.AnnotationNode {
	if len(invisible)+len(visible) == 0 {
		return nil
	}
	out := make([]classfile.AnnotationNode, 0, len(invisible)+len(visible))
	out = append(out, invisible...)
	return append(out, visible...)
}
