package bugreducer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFailureMode indicates a failure mode name that is not
	// recognized.
	ErrUnknownFailureMode = errors.New("unknown failure mode")

	// ErrTargetWithoutMode indicates a target function was configured with
	// the pass disabled.
	ErrTargetWithoutMode = errors.New("target function set but failure mode is none")

	// ErrInjectedCrash is the cause of every injected optimizer crash.
	ErrInjectedCrash = errors.New("found the target")
)

// CrashError describes an injected optimizer crash.
type CrashError struct {
	Function string
	Target   string
}

// Error implements the error interface.
func (e *CrashError) Error() string {
	return fmt.Sprintf("bugreducer: %v: call to %q in %q", ErrInjectedCrash, e.Target, e.Function)
}

// Unwrap returns ErrInjectedCrash.
func (e *CrashError) Unwrap() error {
	return ErrInjectedCrash
}
