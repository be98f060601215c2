package bugreducer

import (
	"fmt"
	"strings"
)

// FailureMode selects what the pass does when it finds a call to the target.
type FailureMode uint8

const (
	// None disables the pass.
	None FailureMode = iota
	// CrashOptimizer aborts the optimizer.
	CrashOptimizer
	// DeleteCall removes the call, replacing its uses with undef.
	DeleteCall
	// SubstituteTrap replaces the call with a call to a function that traps.
	SubstituteTrap
)

var modeNames = [...]string{
	None:           "none",
	CrashOptimizer: "opt-crasher",
	DeleteCall:     "miscompile",
	SubstituteTrap: "runtime-crasher",
}

// String returns the command-line name of the mode.
func (m FailureMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("FailureMode(%d)", m)
}

// ParseFailureMode parses a mode by its command-line name ("opt-crasher",
// "miscompile", "runtime-crasher", "none") or its Go name. Matching is case
// insensitive; the empty string is None.
func ParseFailureMode(s string) (FailureMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "opt-crasher", "crashoptimizer":
		return CrashOptimizer, nil
	case "miscompile", "deletecall":
		return DeleteCall, nil
	case "runtime-crasher", "substitutetrap":
		return SubstituteTrap, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownFailureMode, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m FailureMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FailureMode) UnmarshalText(text []byte) error {
	mode, err := ParseFailureMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
