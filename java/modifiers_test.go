package java

import (
	"testing"

	"github.com/dhamidi/stubgen/classfile"
)

func TestModifiersFor(t *testing.T) {
	tests := []struct {
		name   string
		access classfile.AccessFlags
		kind   DeclKind
		want   string
	}{
		{"public final class", classfile.AccPublic | classfile.AccFinal | classfile.AccSuper, DeclClass, "public final"},
		{"enum drops final and abstract", classfile.AccPublic | classfile.AccFinal | classfile.AccAbstract | classfile.AccEnum, DeclEnum, "public"},
		{"interface drops abstract", classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract | classfile.AccStatic, DeclInterface, "public static"},
		{"volatile transient field", classfile.AccPrivate | classfile.AccVolatile | classfile.AccTransient, DeclField, "private transient volatile"},
		{"bridge bit is not volatile on methods", classfile.AccPublic | classfile.AccBridge, DeclMethod, "public"},
		{"synchronized native method", classfile.AccProtected | classfile.AccSynchronized | classfile.AccNative, DeclMethod, "protected synchronized native"},
		{"static final method", classfile.AccPublic | classfile.AccStatic | classfile.AccFinal | classfile.AccStrict, DeclMethod, "public static final strictfp"},
		{"default method", classfile.AccPublic, DeclInterfaceMethod, "public default"},
		{"abstract interface method", classfile.AccPublic | classfile.AccAbstract, DeclInterfaceMethod, "public abstract"},
		{"static interface method", classfile.AccPublic | classfile.AccStatic, DeclInterfaceMethod, "public static"},
		{"private interface method", classfile.AccPrivate, DeclInterfaceMethod, "private"},
		{"constructor keeps visibility only", classfile.AccPublic | classfile.AccVarargs | classfile.AccSynthetic, DeclConstructor, "public"},
		{"final parameter", classfile.AccFinal | classfile.AccMandated, DeclParameter, "final"},
		{"package private", 0, DeclClass, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModifiersFor(tt.access, tt.kind).String(); got != tt.want {
				t.Errorf("ModifiersFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModifiersWith(t *testing.T) {
	mods := Modifiers{ModifierPublic, ModifierFinal}
	if got := mods.With(ModifierStatic).String(); got != "public static final" {
		t.Errorf("With(static) = %q", got)
	}
	if got := mods.Without(ModifierFinal).With(ModifierSealed).String(); got != "public sealed" {
		t.Errorf("sealed = %q", got)
	}
	if got := mods.With(ModifierPublic); len(got) != 2 {
		t.Errorf("With(public) = %v", got)
	}
}
