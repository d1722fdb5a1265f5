package signature

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrMalformedDescriptor = errors.Base("malformed descriptor")
	ErrMalformedSignature  = errors.Base("malformed signature")
)

// MalformedDescriptorError reports the offset of the first character that
// does not fit the descriptor grammar.
type MalformedDescriptorError struct {
	Descriptor string
	Offset     int
	Reason     string
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("malformed descriptor %q at %d: %s", e.Descriptor, e.Offset, e.Reason)
}

func (e *MalformedDescriptorError) Is(target error) bool {
	return target == ErrMalformedDescriptor
}

// MalformedSignatureError reports the offset of the first character that
// does not fit the signature grammar.
type MalformedSignatureError struct {
	Signature string
	Offset    int
	Reason    string
}

func (e *MalformedSignatureError) Error() string {
	return fmt.Sprintf("malformed signature %q at %d: %s", e.Signature, e.Offset, e.Reason)
}

func (e *MalformedSignatureError) Is(target error) bool {
	return target == ErrMalformedSignature
}
