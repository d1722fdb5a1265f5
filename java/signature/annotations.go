package signature

import (
	"github.com/dhamidi/stubgen/classfile"
)

type step struct {
	kind  classfile.TypePathKind
	index uint8
}

// Bank holds the type annotations of one type use, arranged as a tree
// keyed by type path steps. A nil *Bank is an empty bank, so callers can
// descend without checking.
type Bank struct {
	annotations []classfile.AnnotationNode
	children    map[step]*Bank
}

// Current returns the annotations bound at exactly this position.
func (b *Bank) Current() []classfile.AnnotationNode {
	if b == nil {
		return nil
	}
	return b.annotations
}

// Advance returns the bank for one step deeper into the type. The index is
// only significant for classfile.PathTypeArgument.
func (b *Bank) Advance(kind classfile.TypePathKind, index uint8) *Bank {
	if b == nil {
		return nil
	}
	if kind != classfile.PathTypeArgument {
		index = 0
	}
	return b.children[step{kind, index}]
}

func (b *Bank) add(path []classfile.TypePathEntry, ann classfile.AnnotationNode) {
	node := b
	for _, entry := range path {
		s := step{entry.TypePathKind, entry.TypeArgumentIndex}
		if s.kind != classfile.PathTypeArgument {
			s.index = 0
		}
		if node.children == nil {
			node.children = map[step]*Bank{}
		}
		child, ok := node.children[s]
		if !ok {
			child = &Bank{}
			node.children[s] = child
		}
		node = child
	}
	node.annotations = append(node.annotations, ann)
}

// Reference identifies the declaration-level position a type annotation
// targets: the sort plus its parameter, supertype, throws or bound index.
type Reference struct {
	Target classfile.TargetType
	Index  uint16
	Bound  uint8
}

// TypeAnnotations partitions the type annotations of one declaration by
// Reference. The zero value holds no annotations.
type TypeAnnotations struct {
	banks map[Reference]*Bank
}

// NewTypeAnnotations merges the invisible list and then the visible list.
func NewTypeAnnotations(invisible, visible []classfile.TypeAnnotationNode) TypeAnnotations {
	ta := TypeAnnotations{}
	for _, list := range [][]classfile.TypeAnnotationNode{invisible, visible} {
		for _, node := range list {
			ref := Reference{Target: node.Target, Index: node.TargetIndex, Bound: node.BoundIndex}
			if ta.banks == nil {
				ta.banks = map[Reference]*Bank{}
			}
			bank, ok := ta.banks[ref]
			if !ok {
				bank = &Bank{}
				ta.banks[ref] = bank
			}
			bank.add(node.Path, node.Annotation)
		}
	}
	return ta
}

// Bank returns the bank for ref, or nil when nothing targets it.
func (ta TypeAnnotations) Bank(ref Reference) *Bank {
	return ta.banks[ref]
}

func (ta TypeAnnotations) Field() *Bank {
	return ta.Bank(Reference{Target: classfile.TargetField})
}

func (ta TypeAnnotations) Return() *Bank {
	return ta.Bank(Reference{Target: classfile.TargetMethodReturn})
}

func (ta TypeAnnotations) Receiver() *Bank {
	return ta.Bank(Reference{Target: classfile.TargetMethodReceiver})
}

func (ta TypeAnnotations) Parameter(i int) *Bank {
	return ta.Bank(Reference{Target: classfile.TargetMethodFormalParameter, Index: uint16(i)})
}

func (ta TypeAnnotations) Throws(i int) *Bank {
	return ta.Bank(Reference{Target: classfile.TargetThrows, Index: uint16(i)})
}

// Supertype returns the bank of the i-th implemented interface, or of the
// superclass when i is classfile.SuperclassIndex.
func (ta TypeAnnotations) Supertype(i int) *Bank {
	return ta.Bank(Reference{Target: classfile.TargetClassExtends, Index: uint16(i)})
}

// typeParameters selects the sorts used for class or method type
// parameters.
type typeParameters struct {
	parameter classfile.TargetType
	bound     classfile.TargetType
}

var (
	classTypeParameters  = typeParameters{classfile.TargetClassTypeParameter, classfile.TargetClassTypeParameterBound}
	methodTypeParameters = typeParameters{classfile.TargetMethodTypeParameter, classfile.TargetMethodTypeParamBound}
)

func (ta TypeAnnotations) typeParameter(sorts typeParameters, i int) *Bank {
	return ta.Bank(Reference{Target: sorts.parameter, Index: uint16(i)})
}

func (ta TypeAnnotations) bound(sorts typeParameters, i, bound int) *Bank {
	return ta.Bank(Reference{Target: sorts.bound, Index: uint16(i), Bound: uint8(bound)})
}
