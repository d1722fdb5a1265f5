package java

import (
	"testing"

	"github.com/dhamidi/stubgen/classfile"
)

func TestEnvironment(t *testing.T) {
	b := NewEnvironmentBuilder()
	b.AddLibraryNested(classfile.InnerClassNode{Name: "lib/A$B", OuterName: "lib/A", InnerName: "B"})
	b.AddLibraryNested(classfile.InnerClassNode{Name: "p/X$Y", OuterName: "p/X", InnerName: "Y"})
	b.AddClass(&classfile.ClassNode{
		Name:                "p/X",
		SuperName:           "java/lang/Object",
		Interfaces:          []string{"p/I"},
		PermittedSubclasses: []string{"p/Z"},
		InnerClasses: []classfile.InnerClassNode{
			{Name: "p/X$Y", OuterName: "p/X", InnerName: "Y", Access: classfile.AccStatic},
			{Name: "p/X$1", InnerName: ""},
		},
	})
	b.AddLibraryNested(classfile.InnerClassNode{Name: "p/X$Y", OuterName: "p/X", InnerName: "Y"})
	b.AddClass(&classfile.ClassNode{Name: "p/Z", SuperName: "p/X"})
	env := b.Build()

	if got := env.Supers("p/X"); len(got) != 1 || got[0] != "p/I" {
		t.Errorf("Supers(p/X) = %v, want [p/I]", got)
	}
	if got := env.Supers("p/Z"); len(got) != 1 || got[0] != "p/X" {
		t.Errorf("Supers(p/Z) = %v, want [p/X]", got)
	}
	if !env.IsSealed("p/X") || env.IsSealed("p/Z") {
		t.Error("only p/X is sealed")
	}
	if env.IsInstanceInner("p/X$Y") {
		t.Error("primary record must win over library records")
	}
	if !env.IsInstanceInner("lib/A$B") {
		t.Error("library record should fill the gap")
	}
	if _, ok := env.Nested("p/X$1"); ok {
		t.Error("entries without an outer class are not recorded")
	}
	info, ok := env.Nested("p/X$Y")
	if !ok || info.Outer != "p/X" || info.SimpleName != "Y" {
		t.Errorf("Nested(p/X$Y) = %+v, %v", info, ok)
	}
}
