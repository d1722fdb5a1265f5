package signature

import (
	"github.com/dhamidi/stubgen/classfile"
)

// ParseType parses one type signature starting at offset and returns it
// with the offset just past it.
func ParseType(sig string, offset int, bank *Bank, ctx Context) (Type, int, error) {
	p := &parser{src: sig, pos: offset, ctx: ctx}
	t, err := p.typeSignature(bank, true, false)
	if err != nil {
		return nil, offset, err
	}
	return t, p.pos, nil
}

// ParseFieldSignature parses the Signature attribute of a field.
func ParseFieldSignature(sig string, anns TypeAnnotations, ctx Context) (Type, error) {
	p := &parser{src: sig, ctx: ctx}
	t, err := p.typeSignature(anns.Field(), true, false)
	if err != nil {
		return nil, err
	}
	if p.pos != len(sig) {
		return nil, p.fail(p.pos, "trailing characters")
	}
	return t, nil
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(sig string, anns TypeAnnotations, ctx Context) (*ClassSignature, error) {
	p := &parser{src: sig, ctx: ctx}
	params, err := p.typeParameters(anns, classTypeParameters)
	if err != nil {
		return nil, err
	}
	cs := &ClassSignature{TypeParameters: params}
	if err := p.expectClass(); err != nil {
		return nil, err
	}
	if cs.Superclass, err = p.classType(anns.Supertype(classfile.SuperclassIndex)); err != nil {
		return nil, err
	}
	for i := 0; p.pos < len(sig); i++ {
		if err := p.expectClass(); err != nil {
			return nil, err
		}
		iface, err := p.classType(anns.Supertype(i))
		if err != nil {
			return nil, err
		}
		cs.Interfaces = append(cs.Interfaces, iface)
	}
	return cs, nil
}

// ParseMethodSignature parses the Signature attribute of a method.
// Parameter annotation indexes follow the signature's parameter order.
func ParseMethodSignature(sig string, anns TypeAnnotations, ctx Context) (*MethodSignature, error) {
	p := &parser{src: sig, ctx: ctx}
	params, err := p.typeParameters(anns, methodTypeParameters)
	if err != nil {
		return nil, err
	}
	ms := &MethodSignature{TypeParameters: params}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	for i := 0; ; i++ {
		c, err := p.peekOr("unterminated parameter list")
		if err != nil {
			return nil, err
		}
		if c == ')' {
			p.pos++
			break
		}
		t, err := p.typeSignature(anns.Parameter(i), true, false)
		if err != nil {
			return nil, err
		}
		ms.Parameters = append(ms.Parameters, t)
	}
	if ms.Return, err = p.typeSignature(anns.Return(), true, true); err != nil {
		return nil, err
	}
	for i := 0; p.pos < len(sig); i++ {
		if err := p.expect('^'); err != nil {
			return nil, err
		}
		var thrown Type
		switch p.peek() {
		case 'T':
			thrown, err = p.typeVariable(anns.Throws(i))
		case 'L':
			thrown, err = p.classType(anns.Throws(i))
		default:
			err = p.fail(p.pos, "expected thrown class or type variable")
		}
		if err != nil {
			return nil, err
		}
		ms.Throws = append(ms.Throws, thrown)
	}
	return ms, nil
}

func (p *parser) expectClass() error {
	c, err := p.peekOr("expected class type")
	if err != nil {
		return err
	}
	if c != 'L' {
		return p.fail(p.pos, "expected class type, found %q", c)
	}
	return nil
}

func (p *parser) typeParameters(anns TypeAnnotations, sorts typeParameters) ([]*TypeParameter, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []*TypeParameter
	for i := 0; ; i++ {
		c, err := p.peekOr("unterminated type parameter list")
		if err != nil {
			return nil, err
		}
		if c == '>' {
			if i == 0 {
				return nil, p.fail(p.pos, "empty type parameter list")
			}
			p.pos++
			return params, nil
		}
		start := p.pos
		name := p.identifier()
		if name == "" {
			return nil, p.fail(start, "expected type parameter name")
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		tp := &TypeParameter{Name: name, Annotations: anns.typeParameter(sorts, i).Current()}
		switch p.peek() {
		case 'L', 'T', '[':
			if tp.ClassBound, err = p.typeSignature(anns.bound(sorts, i, 0), false, false); err != nil {
				return nil, err
			}
		}
		for bound := 1; p.peek() == ':'; bound++ {
			p.pos++
			t, err := p.typeSignature(anns.bound(sorts, i, bound), false, false)
			if err != nil {
				return nil, err
			}
			tp.InterfaceBounds = append(tp.InterfaceBounds, t)
		}
		params = append(params, tp)
	}
}

// identifier reads up to the next character that cannot appear in an
// unqualified name.
func (p *parser) identifier() string {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '.', ';', '[', '/', '<', '>', ':':
			return p.src[start:p.pos]
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// typeSignature parses a reference type, or a primitive when primitives
// is set, or void when void is set.
func (p *parser) typeSignature(bank *Bank, primitives, void bool) (Type, error) {
	dims := p.arrayDims(&bank)
	c, err := p.peekOr("unexpected end of signature")
	if err != nil {
		return nil, err
	}

	var elem Type
	switch {
	case c == 'V' && void && len(dims) == 0:
		elem = &Primitive{Kind: Void, Annotations: bank.Current()}
		p.pos++
	case isPrimitive(c) && (primitives || len(dims) > 0):
		elem = &Primitive{Kind: PrimitiveKind(c), Annotations: bank.Current()}
		p.pos++
	case c == 'T':
		if elem, err = p.typeVariable(bank); err != nil {
			return nil, err
		}
	case c == 'L':
		if elem, err = p.classType(bank); err != nil {
			return nil, err
		}
	default:
		return nil, p.fail(p.pos, "unexpected %q", c)
	}
	return wrapArrays(elem, dims), nil
}

func (p *parser) typeVariable(bank *Bank) (*TypeVariable, error) {
	p.pos++
	start := p.pos
	name := p.identifier()
	c, err := p.peekOr("unterminated type variable")
	if err != nil {
		return nil, err
	}
	if c != ';' {
		return nil, p.fail(p.pos, "unexpected %q in type variable", c)
	}
	if name == "" {
		return nil, p.fail(start, "empty type variable name")
	}
	p.pos++
	return &TypeVariable{Name: name, Annotations: bank.Current()}, nil
}

// className reads a package-qualified binary name up to the '<', '.' or
// ';' that ends it.
func (p *parser) className() (string, error) {
	start := p.pos
	for {
		c, err := p.peekOr("unterminated class name")
		if err != nil {
			return "", err
		}
		switch c {
		case '<', '.', ';':
			name := p.src[start:p.pos]
			if name == "" || name[len(name)-1] == '/' {
				return "", p.fail(p.pos, "expected identifier")
			}
			return name, nil
		case '[', '>', ':':
			return "", p.fail(p.pos, "unexpected %q in class name", c)
		case '/':
			if p.pos == start || p.src[p.pos-1] == '/' {
				return "", p.fail(p.pos, "empty package segment")
			}
		}
		p.pos++
	}
}

// pendingClass is a class reference whose closing ';' has not been seen,
// together with the way it plugs into its parent's argument list.
type pendingClass struct {
	chain               *chain
	closed              bool
	wildcard            WildcardKind
	wildcardAnnotations []classfile.AnnotationNode
	dims                [][]classfile.AnnotationNode
}

func (c *pendingClass) argument(t Type) TypeArgument {
	return TypeArgument{
		Wildcard:    c.wildcard,
		Type:        wrapArrays(t, c.dims),
		Annotations: c.wildcardAnnotations,
	}
}

// classType parses a class type signature starting at its 'L'. Open class
// references and open argument lists live on two explicit stacks, so
// nesting depth never grows the call stack. Every class below the top of
// classes has an open argument list; the top has one exactly when both
// stacks have the same height.
func (p *parser) classType(bank *Bank) (*ClassType, error) {
	var classes []*pendingClass
	var arguments [][]TypeArgument

	open := func(b *Bank, slot *pendingClass) error {
		p.pos++
		name, err := p.className()
		if err != nil {
			return err
		}
		slot.chain = p.startChain(name, b)
		classes = append(classes, slot)
		return nil
	}

	if err := open(bank, &pendingClass{}); err != nil {
		return nil, err
	}
	for {
		top := classes[len(classes)-1]

		if len(arguments) == len(classes) {
			last := len(arguments) - 1
			c, err := p.peekOr("unterminated type argument list")
			if err != nil {
				return nil, err
			}
			if c == '>' {
				if len(arguments[last]) == 0 {
					return nil, p.fail(p.pos, "empty type argument list")
				}
				top.chain.tail.Arguments = arguments[last]
				arguments = arguments[:last]
				top.closed = true
				p.pos++
				continue
			}

			argBank := top.chain.bank.Advance(classfile.PathTypeArgument, uint8(len(arguments[last])))
			slot := &pendingClass{}
			typeBank := argBank
			switch c {
			case '*':
				p.pos++
				arguments[last] = append(arguments[last], TypeArgument{Wildcard: Unbounded, Annotations: argBank.Current()})
				continue
			case '+', '-':
				slot.wildcard = Extends
				if c == '-' {
					slot.wildcard = Super
				}
				slot.wildcardAnnotations = argBank.Current()
				typeBank = argBank.Advance(classfile.PathWildcardBound, 0)
				p.pos++
			}
			slot.dims = p.arrayDims(&typeBank)

			c, err = p.peekOr("unterminated type argument")
			if err != nil {
				return nil, err
			}
			switch {
			case c == 'L':
				if err := open(typeBank, slot); err != nil {
					return nil, err
				}
			case c == 'T':
				tv, err := p.typeVariable(typeBank)
				if err != nil {
					return nil, err
				}
				arguments[last] = append(arguments[last], slot.argument(tv))
			case isPrimitive(c) && len(slot.dims) > 0:
				p.pos++
				prim := &Primitive{Kind: PrimitiveKind(c), Annotations: typeBank.Current()}
				arguments[last] = append(arguments[last], slot.argument(prim))
			default:
				return nil, p.fail(p.pos, "unexpected %q in type argument", c)
			}
			continue
		}

		c, err := p.peekOr("unterminated class type")
		if err != nil {
			return nil, err
		}
		switch c {
		case '<':
			if top.closed {
				return nil, p.fail(p.pos, "unexpected '<'")
			}
			p.pos++
			arguments = append(arguments, nil)
		case '.':
			p.pos++
			start := p.pos
			name := p.identifier()
			if name == "" {
				return nil, p.fail(start, "expected inner class name")
			}
			top.chain.nest(name, true)
			top.closed = false
		case ';':
			p.pos++
			classes = classes[:len(classes)-1]
			done := top.chain.tail
			if len(classes) == 0 {
				return done, nil
			}
			last := len(arguments) - 1
			arguments[last] = append(arguments[last], top.argument(done))
		default:
			return nil, p.fail(p.pos, "unexpected %q in class type", c)
		}
	}
}
