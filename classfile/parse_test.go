package classfile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/internal/classtest"
)

func sampleClass() *classtest.Class {
	return &classtest.Class{
		Access:     0x0021,
		Name:       "com/example/Box",
		Super:      "java/lang/Object",
		Interfaces: []string{"java/lang/Runnable"},
		Refs:       [][3]string{{"java/lang/Object", "<init>", "()V"}},
		Fields: []classtest.Member{
			{Access: 0x0019, Name: "SIZE", Descriptor: "I", Attributes: []classtest.Attribute{classtest.ConstantInt(42)}},
			{Access: 0x0019, Name: "BIG", Descriptor: "J", Attributes: []classtest.Attribute{classtest.ConstantLong(1 << 40)}},
			{Access: 0x0019, Name: "NAME", Descriptor: "Ljava/lang/String;", Attributes: []classtest.Attribute{
				classtest.ConstantString("box"),
				classtest.Deprecated(),
			}},
			{Access: 0x0002, Name: "items", Descriptor: "Ljava/util/List;", Attributes: []classtest.Attribute{
				classtest.Signature("Ljava/util/List<TT;>;"),
				classtest.TypeAnnotations(false, classtest.TypeAnnotation{
					Target:     0x13,
					Path:       [][2]byte{{3, 0}},
					Annotation: classtest.Annotation{Descriptor: "Lcom/example/NonNull;"},
				}),
			}},
		},
		Methods: []classtest.Member{
			{Access: 0x0001, Name: "<init>", Descriptor: "()V", Attributes: []classtest.Attribute{classtest.Code()}},
			{Access: 0x0001, Name: "put", Descriptor: "(ILjava/lang/Object;)V", Attributes: []classtest.Attribute{
				classtest.Code(),
				classtest.Signature("(ITT;)V^Ljava/io/IOException;"),
				classtest.Exceptions("java/io/IOException"),
				classtest.MethodParameters(classtest.Parameter{Name: "index"}, classtest.Parameter{Name: "value", Access: 0x0010}),
				classtest.ParameterAnnotations(true, nil, []classtest.Annotation{{Descriptor: "Lcom/example/NonNull;"}}),
				classtest.TypeAnnotations(true, classtest.TypeAnnotation{
					Target:     0x16,
					TargetInfo: []byte{1},
					Annotation: classtest.Annotation{Descriptor: "Lcom/example/Tainted;"},
				}, classtest.TypeAnnotation{
					Target:     0x17,
					TargetInfo: []byte{0, 0},
					Annotation: classtest.Annotation{Descriptor: "Lcom/example/Rare;"},
				}),
			}},
		},
		Attributes: []classtest.Attribute{
			classtest.Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;"),
			classtest.InnerClasses(classtest.InnerClass{
				Name: "com/example/Box$Lid", Outer: "com/example/Box", InnerName: "Lid", Access: 0x0001,
			}),
			classtest.Annotations(true, classtest.Annotation{
				Descriptor: "Lcom/example/Meta;",
				Values: []classtest.Pair{
					{Name: "count", Value: classtest.Int(3)},
					{Name: "flag", Value: classtest.Bool(true)},
					{Name: "letter", Value: classtest.Char('x')},
					{Name: "mode", Value: classtest.Enum("Lcom/example/Mode;", "FAST")},
					{Name: "type", Value: classtest.ClassLit("Ljava/lang/String;")},
					{Name: "tags", Value: classtest.Array(classtest.Str("a"), classtest.Str("b"))},
					{Name: "inner", Value: classtest.Nested(classtest.Annotation{Descriptor: "Lcom/example/Inner;"})},
				},
			}),
			classtest.TypeAnnotations(true, classtest.TypeAnnotation{
				Target:     0x10,
				TargetInfo: []byte{0xFF, 0xFF},
				Annotation: classtest.Annotation{Descriptor: "Lcom/example/Super;"},
			}),
		},
	}
}

func TestReadClass(t *testing.T) {
	node, err := classfile.ReadClassBytes(sampleClass().Bytes())
	if err != nil {
		t.Fatalf("ReadClassBytes() error = %v", err)
	}

	t.Run("header", func(t *testing.T) {
		if node.Name != "com/example/Box" {
			t.Errorf("Name = %q, want %q", node.Name, "com/example/Box")
		}
		if node.SuperName != "java/lang/Object" {
			t.Errorf("SuperName = %q, want %q", node.SuperName, "java/lang/Object")
		}
		if len(node.Interfaces) != 1 || node.Interfaces[0] != "java/lang/Runnable" {
			t.Errorf("Interfaces = %v, want [java/lang/Runnable]", node.Interfaces)
		}
		if !node.Access.IsPublic() {
			t.Error("expected class to be public")
		}
		want := "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;"
		if node.Signature != want {
			t.Errorf("Signature = %q, want %q", node.Signature, want)
		}
	})

	t.Run("inner classes", func(t *testing.T) {
		if len(node.InnerClasses) != 1 {
			t.Fatalf("expected 1 inner class, got %d", len(node.InnerClasses))
		}
		ic := node.InnerClasses[0]
		if ic.Name != "com/example/Box$Lid" || ic.OuterName != "com/example/Box" || ic.InnerName != "Lid" {
			t.Errorf("InnerClasses[0] = %+v", ic)
		}
	})

	t.Run("constant values", func(t *testing.T) {
		want := map[string]any{"SIZE": int32(42), "BIG": int64(1 << 40), "NAME": "box"}
		for _, f := range node.Fields {
			if w, ok := want[f.Name]; ok && f.Value != w {
				t.Errorf("%s.Value = %#v, want %#v", f.Name, f.Value, w)
			}
		}
		if !node.Fields[2].Deprecated {
			t.Error("expected NAME to be deprecated")
		}
	})

	t.Run("field type annotations", func(t *testing.T) {
		items := node.Fields[3]
		if items.Signature != "Ljava/util/List<TT;>;" {
			t.Errorf("Signature = %q", items.Signature)
		}
		if len(items.InvisibleTypeAnnotations) != 1 {
			t.Fatalf("expected 1 invisible type annotation, got %d", len(items.InvisibleTypeAnnotations))
		}
		ta := items.InvisibleTypeAnnotations[0]
		if ta.Target != classfile.TargetField {
			t.Errorf("Target = 0x%02X, want 0x13", uint8(ta.Target))
		}
		if len(ta.Path) != 1 || ta.Path[0].TypePathKind != classfile.PathTypeArgument || ta.Path[0].TypeArgumentIndex != 0 {
			t.Errorf("Path = %+v", ta.Path)
		}
	})

	t.Run("methods", func(t *testing.T) {
		if len(node.Methods) != 2 {
			t.Fatalf("expected 2 methods, got %d", len(node.Methods))
		}
		put := node.Methods[1]
		if len(put.Exceptions) != 1 || put.Exceptions[0] != "java/io/IOException" {
			t.Errorf("Exceptions = %v", put.Exceptions)
		}
		if len(put.Parameters) != 2 || put.Parameters[0].Name != "index" || !put.Parameters[1].Access.IsFinal() {
			t.Errorf("Parameters = %+v", put.Parameters)
		}
		if len(put.VisibleParameterAnnotations) != 2 || len(put.VisibleParameterAnnotations[1]) != 1 {
			t.Fatalf("VisibleParameterAnnotations = %+v", put.VisibleParameterAnnotations)
		}
		if len(put.VisibleTypeAnnotations) != 2 {
			t.Fatalf("expected 2 type annotations, got %d", len(put.VisibleTypeAnnotations))
		}
		if ta := put.VisibleTypeAnnotations[0]; ta.Target != classfile.TargetMethodFormalParameter || ta.TargetIndex != 1 {
			t.Errorf("formal parameter annotation = %+v", ta)
		}
		if ta := put.VisibleTypeAnnotations[1]; ta.Target != classfile.TargetThrows || ta.TargetIndex != 0 {
			t.Errorf("throws annotation = %+v", ta)
		}
	})

	t.Run("element values", func(t *testing.T) {
		if len(node.VisibleAnnotations) != 1 {
			t.Fatalf("expected 1 annotation, got %d", len(node.VisibleAnnotations))
		}
		values := map[string]classfile.ElementValueNode{}
		for _, pair := range node.VisibleAnnotations[0].Values {
			values[pair.Name] = pair.Value
		}
		if got := values["count"].Const; got != int32(3) {
			t.Errorf("count = %#v, want int32(3)", got)
		}
		if got := values["flag"].Const; got != true {
			t.Errorf("flag = %#v, want true", got)
		}
		if got := values["letter"].Const; got != uint16('x') {
			t.Errorf("letter = %#v, want 'x'", got)
		}
		if got := values["mode"]; got.EnumType != "Lcom/example/Mode;" || got.EnumName != "FAST" {
			t.Errorf("mode = %+v", got)
		}
		if got := values["type"].Class; got != "Ljava/lang/String;" {
			t.Errorf("type = %q", got)
		}
		if got := values["tags"].Elements; len(got) != 2 || got[1].Const != "b" {
			t.Errorf("tags = %+v", got)
		}
		if got := values["inner"].Annotation; got == nil || got.Descriptor != "Lcom/example/Inner;" {
			t.Errorf("inner = %+v", got)
		}
	})

	t.Run("superclass type annotation", func(t *testing.T) {
		if len(node.VisibleTypeAnnotations) != 1 {
			t.Fatalf("expected 1 type annotation, got %d", len(node.VisibleTypeAnnotations))
		}
		if got := node.VisibleTypeAnnotations[0].TargetIndex; got != classfile.SuperclassIndex {
			t.Errorf("TargetIndex = 0x%X, want 0xFFFF", got)
		}
	})
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad magic", data: []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61}},
		{name: "truncated", data: sampleClass().Bytes()[:40]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := classfile.Parse(bytes.NewReader(tt.data)); err == nil {
				t.Error("Parse() expected error, got nil")
			}
		})
	}

	_, err := classfile.Parse(bytes.NewReader([]byte{0xCA, 0xFE, 0xBA, 0xBF}))
	if !errors.Is(err, classfile.ErrInvalidMagic) {
		t.Errorf("Parse() error = %v, want ErrInvalidMagic", err)
	}
}

func TestConstantPoolGetters(t *testing.T) {
	cf, err := classfile.Parse(bytes.NewReader(sampleClass().Bytes()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	cp := cf.ConstantPool

	if got := cp.GetUtf8(0); got != "" {
		t.Errorf("GetUtf8(0) = %q, want empty", got)
	}
	if got := cp.GetClassName(uint16(len(cp) + 5)); got != "" {
		t.Errorf("GetClassName(out of range) = %q, want empty", got)
	}
	if _, err := cp.Constant(cf.ThisClass); err == nil {
		t.Error("Constant(class entry) expected error")
	}
	if got := cf.ClassName(); got != "com/example/Box" {
		t.Errorf("ClassName() = %q", got)
	}
	if cf.IsModuleInfo() {
		t.Error("IsModuleInfo() = true, want false")
	}
}
