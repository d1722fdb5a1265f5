package java

import (
	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java/signature"
)

// NestedInfo describes a nested class as recorded by an InnerClasses
// attribute.
type NestedInfo struct {
	Outer         string
	SimpleName    string
	InstanceInner bool
}

// Environment holds what class builds need to know about other classes:
// direct supertypes, sealing and nesting. It is read-only once built and
// implements signature.Context.
type Environment struct {
	supers map[string][]string
	sealed map[string]bool
	nested map[string]NestedInfo
}

// Supers returns the direct superclass and interfaces of name, without
// java.lang.Object.
func (e *Environment) Supers(name string) []string {
	return e.supers[name]
}

func (e *Environment) IsSealed(name string) bool {
	return e.sealed[name]
}

func (e *Environment) Nested(name string) (NestedInfo, bool) {
	info, ok := e.nested[name]
	return info, ok
}

func (e *Environment) IsInstanceInner(name string) bool {
	if e == nil {
		return false
	}
	return e.nested[name].InstanceInner
}

var _ signature.Context = (*Environment)(nil)

// EnvironmentBuilder collects class metadata into an Environment. Nesting
// records from primary classes replace library records; library records
// never replace anything.
type EnvironmentBuilder struct {
	env     *Environment
	primary map[string]bool
}

func NewEnvironmentBuilder() *EnvironmentBuilder {
	return &EnvironmentBuilder{
		env: &Environment{
			supers: map[string][]string{},
			sealed: map[string]bool{},
			nested: map[string]NestedInfo{},
		},
		primary: map[string]bool{},
	}
}

// AddClass records a class from the primary input.
func (b *EnvironmentBuilder) AddClass(node *classfile.ClassNode) {
	var supers []string
	if node.SuperName != "" && node.SuperName != signature.Object {
		supers = append(supers, node.SuperName)
	}
	supers = append(supers, node.Interfaces...)
	if len(supers) > 0 {
		b.env.supers[node.Name] = supers
	}
	if len(node.PermittedSubclasses) > 0 {
		b.env.sealed[node.Name] = true
	}
	for _, inner := range node.InnerClasses {
		if inner.OuterName == "" {
			continue
		}
		b.env.nested[inner.Name] = nestedInfo(inner)
		b.primary[inner.Name] = true
	}
}

// AddLibraryNested records nesting learned from an auxiliary library.
func (b *EnvironmentBuilder) AddLibraryNested(inner classfile.InnerClassNode) {
	if inner.OuterName == "" || b.primary[inner.Name] {
		return
	}
	if _, ok := b.env.nested[inner.Name]; ok {
		return
	}
	b.env.nested[inner.Name] = nestedInfo(inner)
}

// Build returns the collected Environment. The builder must not be used
// afterwards.
func (b *EnvironmentBuilder) Build() *Environment {
	env := b.env
	b.env = nil
	return env
}

func nestedInfo(inner classfile.InnerClassNode) NestedInfo {
	return NestedInfo{
		Outer:         inner.OuterName,
		SimpleName:    inner.InnerName,
		InstanceInner: !inner.Access.IsStatic(),
	}
}

// NewEnvironment builds an Environment from primary classes only.
func NewEnvironment(nodes []*classfile.ClassNode) *Environment {
	b := NewEnvironmentBuilder()
	for _, node := range nodes {
		b.AddClass(node)
	}
	return b.Build()
}
