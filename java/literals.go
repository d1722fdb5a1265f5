package java

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// dummyValues are initializers that keep a final field from becoming a
// compile-time constant when the class file gives no value.
var dummyValues = map[string]string{
	"B":                  `java.lang.Byte.parseByte("dummy")`,
	"C":                  `java.lang.String.valueOf("dummy").charAt(0)`,
	"D":                  `java.lang.Double.parseDouble("dummy")`,
	"F":                  `java.lang.Float.parseFloat("dummy")`,
	"I":                  `java.lang.Integer.parseInt("dummy")`,
	"J":                  `java.lang.Long.parseLong("dummy")`,
	"S":                  `java.lang.Short.parseShort("dummy")`,
	"Z":                  `java.lang.Boolean.parseBoolean("dummy")`,
	"Ljava/lang/String;": `java.lang.String.valueOf("dummy")`,
}

// Initializer returns the initializer expression of a final field with
// the given descriptor and ConstantValue, which may be nil.
func Initializer(desc string, value any) string {
	if value != nil {
		if literal, ok := ConstantLiteral(desc, value); ok {
			return literal
		}
	}
	if dummy, ok := dummyValues[desc]; ok {
		return dummy
	}
	return "null"
}

// ConstantLiteral renders a ConstantValue as a Java literal for a field
// of the given descriptor.
func ConstantLiteral(desc string, value any) (string, bool) {
	switch v := value.(type) {
	case int32:
		switch desc {
		case "Z":
			return strconv.FormatBool(v != 0), true
		case "C":
			return CharLiteral(uint16(v)), true
		case "B", "S", "I":
			return strconv.FormatInt(int64(v), 10), true
		}
	case int64:
		if desc == "J" {
			return strconv.FormatInt(v, 10) + "L", true
		}
	case float32:
		if desc == "F" {
			return FloatLiteral(v), true
		}
	case float64:
		if desc == "D" {
			return DoubleLiteral(v), true
		}
	case string:
		if desc == "Ljava/lang/String;" {
			return Quote(v), true
		}
	}
	return "", false
}

func FloatLiteral(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "0.0f / 0.0f"
	case math.IsInf(f, 1):
		return "1.0f / 0.0f"
	case math.IsInf(f, -1):
		return "-1.0f / 0.0f"
	}
	return strconv.FormatFloat(f, 'g', -1, 32) + "f"
}

func DoubleLiteral(v float64) string {
	switch {
	case math.IsNaN(v):
		return "0.0d / 0.0"
	case math.IsInf(v, 1):
		return "1.0d / 0.0"
	case math.IsInf(v, -1):
		return "-1.0d / 0.0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64) + "d"
}

func CharLiteral(c uint16) string {
	if c == '\'' {
		return `'\''`
	}
	if c == '"' {
		return `'"'`
	}
	return "'" + escapeUnit(c) + "'"
}

// Quote renders s as a Java string literal. Characters outside printable
// ASCII are written as UTF-16 escapes.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, unit := range utf16.Encode([]rune(s)) {
		if unit == '"' {
			b.WriteString(`\"`)
			continue
		}
		b.WriteString(escapeUnit(unit))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeUnit(c uint16) string {
	switch c {
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	}
	if c >= 0x20 && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf(`\u%04x`, c)
}
