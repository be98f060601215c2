package strand

import (
	"errors"
	"fmt"
)

// Errors returned or raised by strand operations.
var (
	// ErrNotSingleCharacter indicates a literal does not hold exactly one
	// extended grapheme cluster.
	ErrNotSingleCharacter = errors.New("not a single character")

	// ErrStaleView is raised when a view is used after its text was mutated
	// in place.
	ErrStaleView = errors.New("strand: view used after its text was mutated")

	// ErrCBufferExpired is raised when a CBuffer is used after the callback
	// it was handed to has returned.
	ErrCBufferExpired = errors.New("strand: C string buffer used outside its callback")
)

// BoundsError reports misuse of index arithmetic: an index before the start
// or after the end of a text, or a range whose endpoints are unordered or
// not valid for the text.
//
// Bounds violations are programmer errors. They are raised with panic and
// never returned.
type BoundsError struct {
	// Op is the operation that detected the violation.
	Op string
	// Index is the offending index.
	Index Index
	// Lower and Upper are the bounds the index was checked against.
	Lower Index
	Upper Index
	// Reason is an optional detail.
	Reason string
}

// Error implements the error interface.
func (e *BoundsError) Error() string {
	msg := fmt.Sprintf("strand: %s: index %v out of bounds [%v, %v]", e.Op, e.Index, e.Lower, e.Upper)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func boundsViolation(op string, i Index, w window, reason string) {
	panic(&BoundsError{
		Op:     op,
		Index:  i,
		Lower:  w.start(),
		Upper:  w.end(),
		Reason: reason,
	})
}
