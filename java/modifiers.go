package java

import (
	"strings"

	"github.com/dhamidi/stubgen/classfile"
)

type Modifier string

const (
	ModifierPublic       Modifier = "public"
	ModifierProtected    Modifier = "protected"
	ModifierPrivate      Modifier = "private"
	ModifierAbstract     Modifier = "abstract"
	ModifierDefault      Modifier = "default"
	ModifierStatic       Modifier = "static"
	ModifierSealed       Modifier = "sealed"
	ModifierNonSealed    Modifier = "non-sealed"
	ModifierFinal        Modifier = "final"
	ModifierTransient    Modifier = "transient"
	ModifierVolatile     Modifier = "volatile"
	ModifierSynchronized Modifier = "synchronized"
	ModifierNative       Modifier = "native"
	ModifierStrictfp     Modifier = "strictfp"
)

// modifierOrder is the order modifiers are written in source.
var modifierOrder = []Modifier{
	ModifierPublic,
	ModifierProtected,
	ModifierPrivate,
	ModifierAbstract,
	ModifierDefault,
	ModifierStatic,
	ModifierSealed,
	ModifierNonSealed,
	ModifierFinal,
	ModifierTransient,
	ModifierVolatile,
	ModifierSynchronized,
	ModifierNative,
	ModifierStrictfp,
}

// Modifiers is a set of modifiers kept in source order.
type Modifiers []Modifier

func (m Modifiers) Has(mod Modifier) bool {
	for _, have := range m {
		if have == mod {
			return true
		}
	}
	return false
}

// With returns m plus mod, keeping source order.
func (m Modifiers) With(mod Modifier) Modifiers {
	if m.Has(mod) {
		return m
	}
	var out Modifiers
	for _, candidate := range modifierOrder {
		if candidate == mod || m.Has(candidate) {
			out = append(out, candidate)
		}
	}
	return out
}

func (m Modifiers) Without(mod Modifier) Modifiers {
	var out Modifiers
	for _, have := range m {
		if have != mod {
			out = append(out, have)
		}
	}
	return out
}

func (m Modifiers) String() string {
	parts := make([]string, len(m))
	for i, mod := range m {
		parts[i] = string(mod)
	}
	return strings.Join(parts, " ")
}

// DeclKind is the kind of declaration access flags are mapped for. The
// same bit means different things on different declarations.
type DeclKind int

const (
	DeclClass DeclKind = iota
	DeclEnum
	DeclInterface
	DeclField
	DeclMethod
	DeclInterfaceMethod
	DeclConstructor
	DeclParameter
)

// ModifiersFor maps access flags to the source modifiers of a declaration
// of the given kind.
func ModifiersFor(access classfile.AccessFlags, kind DeclKind) Modifiers {
	var mods Modifiers
	if kind == DeclParameter {
		if access.IsFinal() {
			mods = append(mods, ModifierFinal)
		}
		return mods
	}

	switch {
	case access.IsPublic():
		mods = append(mods, ModifierPublic)
	case access.IsProtected():
		mods = append(mods, ModifierProtected)
	case access.IsPrivate():
		mods = append(mods, ModifierPrivate)
	}
	if kind == DeclConstructor {
		return mods
	}

	if access.IsAbstract() && kind != DeclEnum && kind != DeclInterface {
		mods = append(mods, ModifierAbstract)
	}
	if kind == DeclInterfaceMethod && !access.IsAbstract() && !access.IsStatic() && !access.IsPrivate() {
		mods = append(mods, ModifierDefault)
	}
	if access.IsStatic() {
		mods = append(mods, ModifierStatic)
	}
	if access.IsFinal() && kind != DeclEnum && kind != DeclInterface {
		mods = append(mods, ModifierFinal)
	}

	switch kind {
	case DeclField:
		if access.IsTransient() {
			mods = append(mods, ModifierTransient)
		}
		if access.IsVolatile() {
			mods = append(mods, ModifierVolatile)
		}
	case DeclMethod, DeclInterfaceMethod:
		if access.IsSynchronized() {
			mods = append(mods, ModifierSynchronized)
		}
		if access.IsNative() {
			mods = append(mods, ModifierNative)
		}
		if access.IsStrict() {
			mods = append(mods, ModifierStrictfp)
		}
	}
	return mods
}
