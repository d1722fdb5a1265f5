package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/stubgen/java"
	"github.com/dhamidi/stubgen/java/signature"
)

// LineEncoder writes one tab separated line per declaration. Nested
// classes follow their parent.
type LineEncoder struct {
	w     io.Writer
	class *java.ClassModel
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(class *java.ClassModel) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.class.Walk(func(c *java.ClassModel) {
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", c.Kind, c.Name, modifiersStr(c.Modifiers))

		for _, ec := range c.EnumConstants {
			fmt.Fprintf(&sb, "constant\t%s\n", ec.Name)
		}
		for _, f := range c.Fields {
			fmt.Fprintf(&sb, "field\t%s\t%s\t%s\n",
				f.Name,
				signature.String(f.Type),
				modifiersStr(f.Modifiers),
			)
		}
		for _, m := range c.Methods {
			ret := "-"
			if m.ReturnType != nil {
				ret = signature.String(m.ReturnType)
			}
			fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\n",
				m.Name,
				ret,
				parametersStr(m.Parameters),
				modifiersStr(m.Modifiers),
			)
		}
	})
	return []byte(sb.String()), nil
}

func modifiersStr(mods java.Modifiers) string {
	if len(mods) == 0 {
		return "-"
	}
	parts := make([]string, len(mods))
	for i, m := range mods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}

func parametersStr(params []java.ParameterModel) string {
	if len(params) == 0 {
		return "-"
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, signature.String(p.Type)+" "+p.Name)
	}
	return strings.Join(parts, ",")
}
