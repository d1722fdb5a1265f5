package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/java/signature"
)

func newSignatureCmd() *cobra.Command {
	var (
		kind   string
		offset int
		simple bool
	)

	cmd := &cobra.Command{
		Use:   "signature <text>",
		Short: "Parse a generic signature or descriptor and print it as Java",
		Long: `Signature parses <text> and prints the rendered result. For the type and
descriptor kinds, parsing starts at --offset and the offset just past the
parsed type is printed too.

Kinds: type, descriptor, field, class, method, method-descriptor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderSignature(args[0], kind, offset, signature.Renderer{Simple: simple})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "type", "what <text> is")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "start offset for type and descriptor")
	cmd.Flags().BoolVarP(&simple, "simple", "s", false, "drop package qualifiers")

	return cmd
}

func renderSignature(text, kind string, offset int, r signature.Renderer) (string, error) {
	switch kind {
	case "type":
		t, next, err := signature.ParseType(text, offset, nil, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\t%d", r.Type(t), next), nil
	case "descriptor":
		t, next, err := signature.ParseDescriptorType(text, offset, nil, nil)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\t%d", r.Type(t), next), nil
	case "field":
		t, err := signature.ParseFieldSignature(text, signature.TypeAnnotations{}, nil)
		if err != nil {
			return "", err
		}
		return r.Type(t), nil
	case "class":
		cs, err := signature.ParseClassSignature(text, signature.TypeAnnotations{}, nil)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(r.TypeParameters(cs.TypeParameters))
		if cs.Superclass != nil {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString("extends " + r.Type(cs.Superclass))
		}
		if len(cs.Interfaces) > 0 {
			parts := make([]string, len(cs.Interfaces))
			for i, iface := range cs.Interfaces {
				parts[i] = r.Type(iface)
			}
			b.WriteString(" implements " + strings.Join(parts, ", "))
		}
		return b.String(), nil
	case "method":
		ms, err := signature.ParseMethodSignature(text, signature.TypeAnnotations{}, nil)
		if err != nil {
			return "", err
		}
		return renderMethod(ms, r), nil
	case "method-descriptor":
		ms, err := signature.ParseMethodDescriptor(text, signature.TypeAnnotations{}, 0, nil)
		if err != nil {
			return "", err
		}
		return renderMethod(ms, r), nil
	}
	return "", errors.Errorf("unknown kind: %s", kind)
}

func renderMethod(ms *signature.MethodSignature, r signature.Renderer) string {
	var b strings.Builder
	if len(ms.TypeParameters) > 0 {
		b.WriteString(r.TypeParameters(ms.TypeParameters))
		b.WriteByte(' ')
	}
	b.WriteString(r.Type(ms.Return))
	params := make([]string, len(ms.Parameters))
	for i, p := range ms.Parameters {
		params[i] = r.Type(p)
	}
	b.WriteString(" (" + strings.Join(params, ", ") + ")")
	if len(ms.Throws) > 0 {
		throws := make([]string, len(ms.Throws))
		for i, t := range ms.Throws {
			throws[i] = r.Type(t)
		}
		b.WriteString(" throws " + strings.Join(throws, ", "))
	}
	return b.String()
}
