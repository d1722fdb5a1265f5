// Package format renders generated class models as Java source, as a
// line-oriented summary, or as JSON.
package format

import (
	"encoding"
	"io"

	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/java"
)

var log = commonlog.GetLogger("stubgen.format")

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}

// NewEncoder returns the encoder registered for name: java, line or json.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "java":
		return NewJavaEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, errors.Errorf("unknown format: %s (expected java, line, or json)", name)
}
