package codec

import (
	"errors"
	"fmt"
)

// Errors returned by codec operations.
var (
	// ErrMalformed indicates the input is not well formed in the declared encoding.
	ErrMalformed = errors.New("malformed input")

	// ErrUnrepresentable indicates a scalar cannot be expressed in the target encoding.
	ErrUnrepresentable = errors.New("scalar not representable in encoding")

	// ErrUnknownEncoding indicates an encoding tag or name is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// DecodeError describes where decoding or encoding failed.
type DecodeError struct {
	// Encoding is the declared encoding.
	Encoding Encoding
	// Offset is the byte offset of the offending input.
	Offset int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v at offset %d", e.Encoding, e.Err, e.Offset)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
