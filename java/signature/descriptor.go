package signature

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/classfile"
)

// Context answers the nesting questions annotation placement depends on.
// A nil Context treats every nested class as static.
type Context interface {
	IsInstanceInner(internalName string) bool
}

type parser struct {
	src        string
	pos        int
	ctx        Context
	descriptor bool
}

func (p *parser) fail(offset int, format string, args ...any) error {
	reason := fmt.Sprintf(format, args...)
	if p.descriptor {
		return errors.WithStack(&MalformedDescriptorError{Descriptor: p.src, Offset: offset, Reason: reason})
	}
	return errors.WithStack(&MalformedSignatureError{Signature: p.src, Offset: offset, Reason: reason})
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekOr(reason string) (byte, error) {
	if p.pos >= len(p.src) {
		return 0, p.fail(p.pos, "%s", reason)
	}
	return p.src[p.pos], nil
}

func (p *parser) expect(c byte) error {
	got, err := p.peekOr(fmt.Sprintf("expected %q", c))
	if err != nil {
		return err
	}
	if got != c {
		return p.fail(p.pos, "expected %q, found %q", c, got)
	}
	p.pos++
	return nil
}

func (p *parser) instanceInner(internalName string) bool {
	return p.ctx != nil && p.ctx.IsInstanceInner(internalName)
}

// arrayDims consumes leading '[' characters. It returns the annotations of
// each dimension, outermost first, and leaves bank at the element type.
func (p *parser) arrayDims(bank **Bank) [][]classfile.AnnotationNode {
	var dims [][]classfile.AnnotationNode
	for p.peek() == '[' {
		dims = append(dims, (*bank).Current())
		*bank = (*bank).Advance(classfile.PathArrayElement, 0)
		p.pos++
	}
	return dims
}

func wrapArrays(elem Type, dims [][]classfile.AnnotationNode) Type {
	for i := len(dims) - 1; i >= 0; i-- {
		elem = &ArrayType{Component: elem, Annotations: dims[i]}
	}
	return elem
}

// chain accumulates the segments of one class reference together with the
// annotation bank of its innermost segment.
type chain struct {
	tail     *ClassType
	base     *Bank
	bank     *Bank
	internal string
}

func (p *parser) startChain(internalName string, base *Bank) *chain {
	pkg, segments := splitInternalName(internalName)
	c := &chain{base: base, bank: base}
	c.tail = &ClassType{Package: pkg, Name: segments[0], Annotations: base.Current()}
	c.internal = segments[0]
	if i := strings.LastIndexByte(internalName, '/'); i >= 0 {
		c.internal = internalName[:i+1] + segments[0]
	}
	for _, seg := range segments[1:] {
		c.nest(seg, p.instanceInner(c.internal+"$"+seg))
	}
	return c
}

// nest appends a nested segment. An instance inner class is reached with
// an INNER_TYPE step. A static nested class restarts the path and its
// enclosing segments become plain qualifiers that cannot be annotated.
func (c *chain) nest(name string, instance bool) {
	c.internal += "$" + name
	if instance {
		c.bank = c.bank.Advance(classfile.PathInnerType, 0)
	} else {
		for t := c.tail; t != nil; t = t.Enclosing {
			t.Annotations = nil
		}
		c.bank = c.base
	}
	c.tail = &ClassType{Name: name, Enclosing: c.tail, Annotations: c.bank.Current()}
}

// AnnotatedClass builds a reference to internalName with the annotations
// of bank placed on its segments.
func AnnotatedClass(internalName string, bank *Bank, ctx Context) *ClassType {
	p := &parser{ctx: ctx}
	return p.startChain(internalName, bank).tail
}

// ParseDescriptorType parses one field type starting at start and returns
// it with the offset just past it.
func ParseDescriptorType(desc string, start int, bank *Bank, ctx Context) (Type, int, error) {
	p := &parser{src: desc, pos: start, ctx: ctx, descriptor: true}
	t, err := p.descriptorType(bank, false)
	if err != nil {
		return nil, start, err
	}
	return t, p.pos, nil
}

// ParseFieldDescriptor parses a complete field descriptor.
func ParseFieldDescriptor(desc string, bank *Bank, ctx Context) (Type, error) {
	p := &parser{src: desc, ctx: ctx, descriptor: true}
	t, err := p.descriptorType(bank, false)
	if err != nil {
		return nil, err
	}
	if p.pos != len(desc) {
		return nil, p.fail(p.pos, "trailing characters")
	}
	return t, nil
}

// ParseMethodDescriptor parses a method descriptor. The first skip
// parameters are compiler generated: they are parsed without annotations,
// and formal parameter annotation indexes count from the one after them.
func ParseMethodDescriptor(desc string, anns TypeAnnotations, skip int, ctx Context) (*MethodSignature, error) {
	p := &parser{src: desc, ctx: ctx, descriptor: true}
	if err := p.expect('('); err != nil {
		return nil, err
	}
	sig := &MethodSignature{}
	for i := 0; ; i++ {
		c, err := p.peekOr("unterminated parameter list")
		if err != nil {
			return nil, err
		}
		if c == ')' {
			p.pos++
			break
		}
		var bank *Bank
		if i >= skip {
			bank = anns.Parameter(i - skip)
		}
		t, err := p.descriptorType(bank, false)
		if err != nil {
			return nil, err
		}
		sig.Parameters = append(sig.Parameters, t)
	}
	ret, err := p.descriptorType(anns.Return(), true)
	if err != nil {
		return nil, err
	}
	if p.pos != len(desc) {
		return nil, p.fail(p.pos, "trailing characters")
	}
	sig.Return = ret
	return sig, nil
}

func (p *parser) descriptorType(bank *Bank, allowVoid bool) (Type, error) {
	dims := p.arrayDims(&bank)
	c, err := p.peekOr("unexpected end of descriptor")
	if err != nil {
		return nil, err
	}

	var elem Type
	switch {
	case isPrimitive(c) || (c == 'V' && allowVoid && len(dims) == 0):
		elem = &Primitive{Kind: PrimitiveKind(c), Annotations: bank.Current()}
		p.pos++
	case c == 'L':
		end := strings.IndexByte(p.src[p.pos+1:], ';')
		if end < 0 {
			return nil, p.fail(p.pos, "unterminated class name")
		}
		name := p.src[p.pos+1 : p.pos+1+end]
		if bad := strings.IndexAny(name, "<>.[:"); bad >= 0 {
			return nil, p.fail(p.pos+1+bad, "unexpected %q in class name", name[bad])
		}
		if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") || strings.Contains(name, "//") {
			return nil, p.fail(p.pos+1, "invalid class name %q", name)
		}
		elem = p.startChain(name, bank).tail
		p.pos += end + 2
	default:
		return nil, p.fail(p.pos, "unexpected %q", c)
	}
	return wrapArrays(elem, dims), nil
}
