package java

import (
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/dhamidi/stubgen/java/signature"
)

// MissingParentClassError is returned when a nested class is reached
// before, or without, the class that encloses it.
type MissingParentClassError struct {
	Class  string
	Parent string
}

func (e *MissingParentClassError) Error() string {
	return fmt.Sprintf("could not find parent class %s for %s", e.Parent, e.Class)
}

// ParameterNameCollision records a mapped parameter name that was already
// taken in its parameter list, or is a reserved word. The parameter gets a
// synthesized name.
type ParameterNameCollision struct {
	Class      string
	Method     string
	Descriptor string
	Slot       int
	Name       string
	Reserved   bool
}

func (e *ParameterNameCollision) Error() string {
	if e.Reserved {
		return fmt.Sprintf("parameter name %q is a reserved word in %s %s%s slot %d", e.Name, e.Class, e.Method, e.Descriptor, e.Slot)
	}
	return fmt.Sprintf("parameter name %q collides in %s %s%s slot %d", e.Name, e.Class, e.Method, e.Descriptor, e.Slot)
}

// SkippedMemberError records a field or method left out because its
// descriptor or signature could not be parsed.
type SkippedMemberError struct {
	Class      string
	Member     string
	Descriptor string
	Err        error
}

func (e *SkippedMemberError) Error() string {
	return fmt.Sprintf("skipped %s.%s %s: %s", e.Class, e.Member, e.Descriptor, e.Err)
}

func (e *SkippedMemberError) Unwrap() error {
	return e.Err
}

func isMalformed(err error) bool {
	return errors.Is(err, signature.ErrMalformedSignature) || errors.Is(err, signature.ErrMalformedDescriptor)
}
