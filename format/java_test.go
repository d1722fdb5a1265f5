package format

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/stubgen/classfile"
	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/java/signature"
)

type docMappings struct {
	java.NoMappings
}

func (docMappings) ClassDoc(class string) string {
	if class == "p/Shape" {
		return "A shape."
	}
	return ""
}

func (docMappings) MethodDoc(class, name, desc string) string {
	if name == "compareTo" {
		return "Compares.\nNever */ early."
	}
	return ""
}

func (docMappings) Parameter(class, name, desc string, slot int) (string, string, bool) {
	if name == "compareTo" && slot == 1 {
		return "other", "the other one", true
	}
	return "", "", false
}

func generate(t *testing.T, nodes ...*classfile.ClassNode) []*java.ClassModel {
	t.Helper()
	g := java.NewGenerator(java.NewEnvironment(nodes), docMappings{})
	roots, err := g.Generate(nodes)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return roots
}

func encode(t *testing.T, class *java.ClassModel) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewJavaEncoder(&buf).Encode(class); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	return buf.String()
}

func shapeNode() *classfile.ClassNode {
	return &classfile.ClassNode{
		Name:      "p/Shape",
		Access:    classfile.AccPublic | classfile.AccAbstract | classfile.AccSuper,
		SuperName: "java/lang/Object",
		Signature: "<T:Ljava/lang/Number;>Ljava/lang/Object;Ljava/lang/Comparable<TT;>;",
		Fields: []classfile.FieldNode{
			{Name: "SIDES", Descriptor: "I", Access: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Value: int32(4)},
		},
		Methods: []classfile.MethodNode{
			{Name: "<init>", Descriptor: "(I)V", Access: classfile.AccProtected},
			{Name: "area", Descriptor: "()D", Access: classfile.AccPublic | classfile.AccAbstract},
			{Name: "compareTo", Descriptor: "(Ljava/lang/Object;)I", Signature: "(TT;)I", Access: classfile.AccPublic},
		},
	}
}

func TestJavaEncoder(t *testing.T) {
	roots := generate(t, shapeNode())
	want := `package p;

/**
 * A shape.
 */
public abstract class Shape<T extends java.lang.Number> implements java.lang.Comparable<T> {
    public static final int SIDES = 4;

    protected Shape(int int2) {
    }

    public abstract double area();

    /**
     * Compares.
     * Never *&#47; early.
     *
     * @param other the other one
     */
    public int compareTo(T other) {
        throw new RuntimeException();
    }
}
`
	if got := encode(t, roots[0]); got != want {
		t.Errorf("Encode() =\n%s\nwant:\n%s", got, want)
	}
}

func TestJavaEncoderNested(t *testing.T) {
	str := signature.ClassName("java/lang/String")
	marker := classfile.AnnotationNode{Descriptor: "Lp/A;"}
	class := &java.ClassModel{
		Name:       "p/Outer",
		SimpleName: "Outer",
		Package:    "p",
		Kind:       java.ClassKindInterface,
		Modifiers:  java.Modifiers{java.ModifierPublic},
		Permits:    []*signature.ClassType{signature.ClassName("p/Impl")},
		Methods: []java.MethodModel{{
			Name:       "join",
			Descriptor: "([Ljava/lang/String;)Ljava/lang/String;",
			Modifiers:  java.Modifiers{java.ModifierPublic, java.ModifierDefault},
			ReturnType: str,
			Receiver: &java.ReceiverModel{
				Type: &signature.ClassType{Package: "p", Name: "Outer", Annotations: []classfile.AnnotationNode{marker}},
				Name: "this",
			},
			Parameters: []java.ParameterModel{{
				Name:      "parts",
				Type:      &signature.ArrayType{Component: str, Annotations: []classfile.AnnotationNode{marker}},
				Modifiers: java.Modifiers{java.ModifierFinal},
			}},
			IsVarargs:         true,
			IsDeprecated:      true,
			HasBody:           true,
			ThrowsPlaceholder: true,
		}},
		NestedClasses: []*java.ClassModel{
			{
				Name:       "p/Outer$Kind",
				SimpleName: "Kind",
				Package:    "p",
				Kind:       java.ClassKindEnum,
				Modifiers:  java.Modifiers{java.ModifierPublic, java.ModifierStatic},
				EnumConstants: []java.EnumConstantModel{
					{Name: "A"},
					{Name: "B", Annotations: []classfile.AnnotationNode{{Descriptor: "Ljava/lang/Deprecated;"}}},
				},
			},
			{
				Name:       "p/Outer$Empty",
				SimpleName: "Empty",
				Package:    "p",
				Kind:       java.ClassKindEnum,
				Modifiers:  java.Modifiers{java.ModifierPublic, java.ModifierStatic},
			},
			{
				Name:       "p/Outer$Option",
				SimpleName: "Option",
				Package:    "p",
				Kind:       java.ClassKindAnnotation,
				Modifiers:  java.Modifiers{java.ModifierPublic, java.ModifierStatic},
				Methods: []java.MethodModel{{
					Name:         "size",
					Descriptor:   "()I",
					Modifiers:    java.Modifiers{java.ModifierPublic, java.ModifierAbstract},
					ReturnType:   &signature.Primitive{Kind: signature.Int},
					DefaultValue: &classfile.ElementValueNode{Tag: 'I', Const: int32(3)},
				}},
			},
		},
	}
	want := `package p;

public interface Outer permits p.Impl {
    @java.lang.Deprecated
    public default java.lang.String join(p.@p.A Outer this, final java.lang.String @p.A... parts) {
        throw new RuntimeException();
    }

    public static enum Kind {
        A,
        @java.lang.Deprecated
        B;
    }

    public static enum Empty {
        ;
    }

    public static @interface Option {
        public abstract int size() default 3;
    }
}
`
	if got := encode(t, class); got != want {
		t.Errorf("Encode() =\n%s\nwant:\n%s", got, want)
	}
}

func TestAnnotation(t *testing.T) {
	tests := []struct {
		name     string
		input    classfile.AnnotationNode
		expected string
	}{
		{
			name:     "marker",
			input:    classfile.AnnotationNode{Descriptor: "Lp/Marker;"},
			expected: "@p.Marker",
		},
		{
			name: "single value",
			input: classfile.AnnotationNode{
				Descriptor: "Ljava/lang/SuppressWarnings;",
				Values: []classfile.ElementValuePairNode{{
					Name:  "value",
					Value: classfile.ElementValueNode{Tag: '[', Elements: []classfile.ElementValueNode{{Tag: 's', Const: "unchecked\n"}}},
				}},
			},
			expected: `@java.lang.SuppressWarnings({"unchecked\n"})`,
		},
		{
			name: "named values",
			input: classfile.AnnotationNode{
				Descriptor: "Lp/Outer$Config;",
				Values: []classfile.ElementValuePairNode{
					{Name: "policy", Value: classfile.ElementValueNode{Tag: 'e', EnumType: "Ljava/lang/annotation/RetentionPolicy;", EnumName: "RUNTIME"}},
					{Name: "type", Value: classfile.ElementValueNode{Tag: 'c', Class: "[Ljava/lang/String;"}},
					{Name: "ret", Value: classfile.ElementValueNode{Tag: 'c', Class: "V"}},
					{Name: "nested", Value: classfile.ElementValueNode{Tag: '@', Annotation: &classfile.AnnotationNode{Descriptor: "Lp/Marker;"}}},
					{Name: "c", Value: classfile.ElementValueNode{Tag: 'C', Const: uint16('x')}},
					{Name: "j", Value: classfile.ElementValueNode{Tag: 'J', Const: int64(3)}},
					{Name: "f", Value: classfile.ElementValueNode{Tag: 'F', Const: float32(0.5)}},
					{Name: "b", Value: classfile.ElementValueNode{Tag: 'B', Const: int8(-1)}},
					{Name: "z", Value: classfile.ElementValueNode{Tag: 'Z', Const: true}},
				},
			},
			expected: "@p.Outer.Config(policy = java.lang.annotation.RetentionPolicy.RUNTIME, type = java.lang.String[].class, " +
				"ret = void.class, nested = @p.Marker, c = 'x', j = 3L, f = 0.5f, b = -1, z = true)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Annotation(tt.input); got != tt.expected {
				t.Errorf("Annotation() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLineEncoder(t *testing.T) {
	roots := generate(t, shapeNode())
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(roots[0]); err != nil {
		t.Fatal(err)
	}
	want := "class\tp/Shape\tpublic,abstract\n" +
		"field\tSIDES\tint\tpublic,static,final\n" +
		"method\t<init>\t-\tint int2\tprotected\n" +
		"method\tarea\tdouble\t-\tpublic,abstract\n" +
		"method\tcompareTo\tint\tT other\tpublic\n"
	if got := buf.String(); got != want {
		t.Errorf("Encode() =\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONEncoder(t *testing.T) {
	roots := generate(t, shapeNode())
	enc := NewJSONEncoder(nil)
	enc.class = roots[0]
	text, err := enc.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"name": "p/Shape"`,
		`"typeParameters": [`,
		`"T extends java.lang.Number"`,
		`"initializer": "4"`,
		`"returnType": "double"`,
		`"javadoc": "the other one"`,
	} {
		if !strings.Contains(string(text), want) {
			t.Errorf("JSON output lacks %s:\n%s", want, text)
		}
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"java", "line", "json"} {
		if _, err := NewEncoder(name, &bytes.Buffer{}); err != nil {
			t.Errorf("NewEncoder(%q) error = %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}); err == nil {
		t.Error("NewEncoder(xml) should fail")
	}
}

func TestTreeWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	stale := filepath.Join(dir, "stale", "Old.java")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("class Old {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	roots := generate(t, shapeNode(), &classfile.ClassNode{
		Name:      "Top",
		Access:    classfile.AccPublic | classfile.AccSuper,
		SuperName: "java/lang/Object",
	})
	w := &TreeWriter{Dir: dir, Clean: true, Workers: 2}
	n, err := w.Write(t.Context(), roots)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Write() = %d files, want 2", n)
	}

	data, err := os.ReadFile(filepath.Join(dir, "p", "Shape.java"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "package p;\n") {
		t.Errorf("Shape.java starts with %q", string(data)[:20])
	}
	top, err := os.ReadFile(filepath.Join(dir, "Top.java"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "public class Top {\n}\n"; string(top) != want {
		t.Errorf("Top.java = %q, want %q", top, want)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file survived cleaning: %v", err)
	}
}
