package storage

import "unicode/utf8"

// Summary holds aggregated metrics for a span of UTF-8 text.
type Summary struct {
	// Bytes is the UTF-8 code unit count.
	Bytes int

	// UTF16Units is the UTF-16 code unit count.
	UTF16Units int

	// Scalars is the Unicode scalar count.
	Scalars int

	// Lines is the number of newline characters.
	Lines int

	// Flags indicate text properties for fast paths.
	Flags Flags
}

// Flags indicate text properties for optimization fast paths.
type Flags uint8

const (
	// FlagASCII indicates all scalars are ASCII (< 128).
	FlagASCII Flags = 1 << iota

	// FlagHasNewlines indicates the text contains newline characters.
	FlagHasNewlines
)

// IsASCII reports whether every scalar in the span is ASCII.
func (s Summary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// Add combines two summaries (monoid operation).
func (s Summary) Add(other Summary) Summary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}

	result := Summary{
		Bytes:      s.Bytes + other.Bytes,
		UTF16Units: s.UTF16Units + other.UTF16Units,
		Scalars:    s.Scalars + other.Scalars,
		Lines:      s.Lines + other.Lines,
		Flags:      s.Flags & other.Flags & FlagASCII,
	}
	if s.Flags&FlagHasNewlines != 0 || other.Flags&FlagHasNewlines != 0 {
		result.Flags |= FlagHasNewlines
	}
	return result
}

// ComputeSummary calculates metrics for a UTF-8 byte slice.
func ComputeSummary(b []byte) Summary {
	sum := Summary{Bytes: len(b), Flags: FlagASCII}

	for i := 0; i < len(b); {
		c := b[i]
		if c < utf8.RuneSelf {
			sum.UTF16Units++
			sum.Scalars++
			if c == '\n' {
				sum.Lines++
				sum.Flags |= FlagHasNewlines
			}
			i++
			continue
		}

		sum.Flags &^= FlagASCII
		r, size := utf8.DecodeRune(b[i:])
		sum.UTF16Units += UTF16Width(r)
		sum.Scalars++
		i += size
	}

	return sum
}

// UTF16Width returns the number of UTF-16 code units needed for r.
func UTF16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

// IsScalarStart reports whether b begins a UTF-8 sequence.
// Continuation bytes have the form 10xxxxxx.
func IsScalarStart(b byte) bool {
	return b&0xC0 != 0x80
}
