package java

import (
	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java/signature"
)

func (b *classBuilder) buildMethod(m *classfile.MethodNode) (*MethodModel, error) {
	ctor := m.Name == "<init>"
	// Constructors of enums take the constant name and ordinal first, and
	// constructors of instance inner classes take the enclosing instance.
	skip := 0
	if ctor {
		switch {
		case b.model.Kind == ClassKindEnum:
			skip = 2
		case b.model.InstanceInner:
			skip = 1
		}
	}
	kind := DeclMethod
	switch {
	case ctor:
		kind = DeclConstructor
	case b.model.Kind.IsInterfaceLike():
		kind = DeclInterfaceMethod
	}

	anns := signature.NewTypeAnnotations(m.InvisibleTypeAnnotations, m.VisibleTypeAnnotations)
	desc, err := signature.ParseMethodDescriptor(m.Descriptor, anns, skip, b.g.env)
	if err != nil {
		return nil, err
	}
	skip = min(skip, len(desc.Parameters))

	method := &MethodModel{
		Name:          m.Name,
		Descriptor:    m.Descriptor,
		IsConstructor: ctor,
		Modifiers:     ModifiersFor(m.Access, kind),
		Annotations:   declarationAnnotations(m.InvisibleAnnotations, m.VisibleAnnotations),
		Javadoc:       b.g.mappings.MethodDoc(b.node.Name, m.Name, m.Descriptor),
		IsDeprecated:  m.Deprecated,
		DefaultValue:  m.AnnotationDefault,
	}

	params := desc.Parameters[skip:]
	ret := desc.Return
	if m.Signature != "" {
		sig, err := signature.ParseMethodSignature(m.Signature, anns, b.g.env)
		if err != nil {
			return nil, err
		}
		params = sig.Parameters
		if skip > 0 && len(params) == len(desc.Parameters) {
			params = params[skip:]
		}
		ret = sig.Return
		method.TypeParameters = sig.TypeParameters
		method.Throws = sig.Throws
	}
	if len(method.Throws) == 0 {
		for i, exception := range m.Exceptions {
			method.Throws = append(method.Throws, signature.AnnotatedClass(exception, anns.Throws(i), b.g.env))
		}
	}
	if !ctor {
		method.ReturnType = ret
	}

	slot := 1
	if m.Access.IsStatic() {
		slot = 0
	}
	for _, p := range desc.Parameters[:skip] {
		slot += slotWidth(p)
	}
	method.Parameters = b.buildParameters(m, params, skip, slot)
	if n := len(params); m.Access.IsVarargs() && n > 0 {
		_, method.IsVarargs = params[n-1].(*signature.ArrayType)
	}

	if bank := anns.Receiver(); bank != nil && !m.Access.IsStatic() {
		receiver, err := b.receiver(ctor, bank)
		if err != nil {
			return nil, err
		}
		method.Receiver = receiver
	}

	method.HasBody = !m.Access.IsAbstract() && !m.Access.IsNative()
	if method.HasBody && !ctor {
		prim, ok := ret.(*signature.Primitive)
		method.ThrowsPlaceholder = !ok || prim.Kind != signature.Void
	}
	return method, nil
}

func slotWidth(t signature.Type) int {
	if p, ok := t.(*signature.Primitive); ok && p.Kind.Wide() {
		return 2
	}
	return 1
}

// buildParameters names each parameter from, in order: the mappings of
// this method, the mappings of the method it overrides, the
// MethodParameters attribute. A name already taken in the list is
// reported and dropped. Parameters left without a name get one derived
// from their type, after all other names are taken.
func (b *classBuilder) buildParameters(m *classfile.MethodNode, params []signature.Type, skip, slot int) []ParameterModel {
	out := make([]ParameterModel, len(params))
	slots := make([]int, len(params))
	names := NewNameSet()
	inheritable := m.Name != "<init>" && !m.Access.IsStatic() && !m.Access.IsPrivate()

	for i, typ := range params {
		slots[i] = slot
		slot += slotWidth(typ)

		p := &out[i]
		p.Type = typ
		p.Annotations = declarationAnnotations(
			parameterAnnotations(m.InvisibleParameterAnnotations, i, len(params), skip),
			parameterAnnotations(m.VisibleParameterAnnotations, i, len(params), skip),
		)
		var recorded classfile.MethodParameterNode
		if mp := parameterList(m.Parameters, i, len(params), skip); len(mp) == 1 {
			recorded = mp[0]
		}
		p.Modifiers = ModifiersFor(recorded.Access, DeclParameter)

		name, doc, ok := b.g.mappings.Parameter(b.node.Name, m.Name, m.Descriptor, slots[i])
		if !ok && inheritable {
			name, doc, ok = b.inheritedParameter(m, slots[i])
		}
		if !ok || name == "" {
			name = recorded.Name
		}
		p.Javadoc = doc
		if name == "" {
			continue
		}
		if !names.Claim(name) {
			b.g.collision(&ParameterNameCollision{
				Class:      b.node.Name,
				Method:     m.Name,
				Descriptor: m.Descriptor,
				Slot:       slots[i],
				Name:       name,
				Reserved:   IsReserved(name),
			})
			continue
		}
		p.Name = name
	}

	for i := range out {
		if out[i].Name == "" {
			out[i].Name = names.Reserve(SuggestName(out[i].Type))
		}
	}
	return out
}

// parameterList picks entry i of a per-parameter table that may or may
// not include the skipped leading parameters, as a slice of at most one
// element.
func parameterList[T any](table []T, i, declared, skip int) []T {
	switch {
	case len(table) == declared+skip && skip > 0:
		i += skip
	case i >= len(table):
		return nil
	}
	return table[i : i+1]
}

func parameterAnnotations(table [][]classfile.AnnotationNode, i, declared, skip int) []classfile.AnnotationNode {
	if entry := parameterList(table, i, declared, skip); len(entry) == 1 {
		return entry[0]
	}
	return nil
}

// inheritedParameter looks the parameter up in the supertypes of the
// class, nearest first.
func (b *classBuilder) inheritedParameter(m *classfile.MethodNode, slot int) (string, string, bool) {
	seen := map[string]bool{b.node.Name: true}
	queue := append([]string(nil), b.g.env.Supers(b.node.Name)...)
	for len(queue) > 0 {
		super := queue[0]
		queue = queue[1:]
		if seen[super] {
			continue
		}
		seen[super] = true
		if name, doc, ok := b.g.mappings.Parameter(super, m.Name, m.Descriptor, slot); ok && name != "" {
			return name, doc, true
		}
		queue = append(queue, b.g.env.Supers(super)...)
	}
	return "", "", false
}

// receiver builds the explicit receiver parameter. A constructor receives
// the enclosing instance, so only instance inner classes have one.
func (b *classBuilder) receiver(ctor bool, bank *signature.Bank) (*ReceiverModel, error) {
	owner, name := b, "this"
	if ctor {
		if !b.model.InstanceInner || b.parent == nil {
			return nil, nil
		}
		owner, name = b.parent, b.parent.model.SimpleName+".this"
	}
	var typ signature.Type
	if chain := owner.thisType(); chain != "" {
		var err error
		if typ, _, err = signature.ParseType("L"+chain+";", 0, bank, b.g.env); err != nil {
			return nil, err
		}
	} else {
		typ = signature.AnnotatedClass(owner.node.Name, bank, b.g.env)
	}
	return &ReceiverModel{Type: typ, Name: name}, nil
}
