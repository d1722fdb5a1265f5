package mappings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

const sample = "tiny\t2\t0\tintermediary\tnamed\n" +
	"c\tnet/a/class_1\tnet/a/Widget\n" +
	"\tc\tA widget.\\nSecond line.\n" +
	"\tf\tLnet/a/class_2;\tfield_1\tgadget\n" +
	"\t\tc\tThe gadget.\n" +
	"\tf\tI\tfield_2\tcount\n" +
	"\tm\t(Lnet/a/class_2;J)V\tmethod_1\tattach\n" +
	"\t\tc\tAttaches a gadget.\n" +
	"\t\tp\t1\t\tgadget\n" +
	"\t\t\tc\tthe \\\"gadget\\\"\n" +
	"\t\tp\t2\t\ttime\n" +
	"\t\tv\t5\t0\t\tlocal\n" +
	"\t\t\tc\tnot a parameter\n" +
	"c\tnet/a/class_2\tnet/a/Gadget\n" +
	"c\tnet/a/class_3\t\n" +
	"\tc\tUnnamed class.\n"

func TestRead(t *testing.T) {
	store, err := Read(strings.NewReader(sample), "named")
	require.NoError(t, err)

	assert.Equal(t, []string{"intermediary", "named"}, store.Namespaces)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "A widget.\nSecond line.", store.ClassDoc("net/a/Widget"))
	assert.Equal(t, "Unnamed class.", store.ClassDoc("net/a/class_3"))
	assert.Equal(t, "The gadget.", store.FieldDoc("net/a/Widget", "gadget", "Lnet/a/Gadget;"))
	assert.Empty(t, store.FieldDoc("net/a/Widget", "gadget", "Lnet/a/class_2;"))
	assert.Equal(t, "Attaches a gadget.", store.MethodDoc("net/a/Widget", "attach", "(Lnet/a/Gadget;J)V"))

	name, doc, ok := store.Parameter("net/a/Widget", "attach", "(Lnet/a/Gadget;J)V", 1)
	assert.True(t, ok)
	assert.Equal(t, "gadget", name)
	assert.Equal(t, `the \"gadget\"`, doc)

	name, doc, ok = store.Parameter("net/a/Widget", "attach", "(Lnet/a/Gadget;J)V", 2)
	assert.True(t, ok)
	assert.Equal(t, "time", name)
	assert.Empty(t, doc)

	_, _, ok = store.Parameter("net/a/Widget", "attach", "(Lnet/a/Gadget;J)V", 5)
	assert.False(t, ok, "local variables are not parameters")
	_, _, ok = store.Parameter("net/a/Missing", "attach", "()V", 1)
	assert.False(t, ok)
}

func TestReadSourceNamespace(t *testing.T) {
	store, err := Read(strings.NewReader(sample), "intermediary")
	require.NoError(t, err)
	assert.Equal(t, "Attaches a gadget.", store.MethodDoc("net/a/class_1", "method_1", "(Lnet/a/class_2;J)V"))
	name, doc, ok := store.Parameter("net/a/class_1", "method_1", "(Lnet/a/class_2;J)V", 1)
	assert.True(t, ok, "documented parameters are kept without a name")
	assert.Empty(t, name)
	assert.Equal(t, `the \"gadget\"`, doc)
	_, _, ok = store.Parameter("net/a/class_1", "method_1", "(Lnet/a/class_2;J)V", 2)
	assert.False(t, ok, "parameters have no intermediary names")
}

func TestReadParameterDocWithoutName(t *testing.T) {
	input := "tiny\t2\t0\tintermediary\tnamed\n" +
		"c\tp/A\tp/A\n" +
		"\tm\t(I)V\trun\trun\n" +
		"\t\tp\t1\t\t\n" +
		"\t\t\tc\tthe count\n"
	store, err := Read(strings.NewReader(input), "named")
	require.NoError(t, err)

	name, doc, ok := store.Parameter("p/A", "run", "(I)V", 1)
	assert.True(t, ok)
	assert.Empty(t, name)
	assert.Equal(t, "the count", doc)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "empty", input: "", line: 0},
		{name: "v1 header", input: "v1\tofficial\tnamed\n", line: 1},
		{name: "short class", input: "tiny\t2\t0\ta\tnamed\nc\tonly\n", line: 2},
		{name: "bad parameter", input: "tiny\t2\t0\ta\tnamed\nc\tx\ty\n\tm\t()V\tm\tn\n\t\tp\tx\t\tq\n", line: 4},
		{name: "orphan comment", input: "tiny\t2\t0\ta\tnamed\n\t\tc\tlost\n", line: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "named")
			require.Error(t, err)
			var syntax *SyntaxError
			require.True(t, errors.As(err, &syntax), "error %v", err)
			assert.Equal(t, tt.line, syntax.Line)
		})
	}

	t.Run("unknown namespace", func(t *testing.T) {
		_, err := Read(strings.NewReader(sample), "official")
		assert.ErrorIs(t, err, ErrUnknownNamespace)
	})
}

func TestRemapDescriptor(t *testing.T) {
	names := map[string]string{"a/B": "x/Y", "a/B$C": "x/Y$Z"}
	assert.Equal(t, "([[Lx/Y;ILx/Y$Z;Lq/Kept;)Lx/Y;", remapDescriptor("([[La/B;ILa/B$C;Lq/Kept;)La/B;", names))
}

func TestEmpty(t *testing.T) {
	store := Empty()
	assert.Empty(t, store.ClassDoc("a/B"))
	_, _, ok := store.Parameter("a/B", "m", "()V", 0)
	assert.False(t, ok)
}
