package strand

import "strconv"

// Index is a position in a text.
//
// An Index is the UTF-8 offset of a position in the text's Storage plus a
// transcoded offset that addresses the trailing UTF-16 surrogate of a
// supplementary scalar. Indices are shared between a String and every
// Substring sliced from it: the same position has the same Index in both.
//
// An Index is only meaningful for texts sharing the Storage it was produced
// from, and only until that Storage is structurally mutated.
type Index struct {
	offset     int
	transcoded uint8
}

// Offset returns the UTF-8 offset of the position from the start of the
// Storage.
func (i Index) Offset() int {
	return i.offset
}

// Transcoded returns 1 when the index addresses the trailing surrogate of a
// supplementary scalar in the UTF-16 view, and 0 otherwise.
func (i Index) Transcoded() int {
	return int(i.transcoded)
}

// Compare returns -1 if i < j, 0 if i == j, 1 if i > j.
func (i Index) Compare(j Index) int {
	switch {
	case i.offset < j.offset:
		return -1
	case i.offset > j.offset:
		return 1
	case i.transcoded < j.transcoded:
		return -1
	case i.transcoded > j.transcoded:
		return 1
	default:
		return 0
	}
}

// Before returns true if i comes before j.
func (i Index) Before(j Index) bool {
	return i.Compare(j) < 0
}

// After returns true if i comes after j.
func (i Index) After(j Index) bool {
	return i.Compare(j) > 0
}

// String returns a human-readable representation of the index.
func (i Index) String() string {
	if i.transcoded != 0 {
		return strconv.Itoa(i.offset) + "+" + strconv.Itoa(int(i.transcoded))
	}
	return strconv.Itoa(i.offset)
}

// Bounds is a range expression that resolves to a half-open Range within a
// text. Range, ClosedRange, RangeFrom, RangeUpTo, RangeThrough and
// UnboundedRange implement it.
type Bounds interface {
	relative(w window) (Index, Index)
}

// Range is a half-open range of indices: [Lower, Upper).
type Range struct {
	Lower Index
	Upper Index
}

// NewRange creates a half-open Range.
func NewRange(lower, upper Index) Range {
	return Range{Lower: lower, Upper: upper}
}

func (r Range) relative(window) (Index, Index) {
	return r.Lower, r.Upper
}

// IsEmpty returns true if the range contains no positions.
func (r Range) IsEmpty() bool {
	return r.Lower == r.Upper
}

// Contains returns true if i lies in [Lower, Upper).
func (r Range) Contains(i Index) bool {
	return !i.Before(r.Lower) && i.Before(r.Upper)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return "[" + r.Lower.String() + ", " + r.Upper.String() + ")"
}

// ClosedRange is a range that includes the character at Upper.
type ClosedRange struct {
	Lower Index
	Upper Index
}

func (r ClosedRange) relative(w window) (Index, Index) {
	return r.Lower, w.after("ClosedRange", grainCharacter, r.Upper)
}

// RangeFrom spans from Lower to the end of the text.
type RangeFrom struct {
	Lower Index
}

func (r RangeFrom) relative(w window) (Index, Index) {
	return r.Lower, w.end()
}

// RangeUpTo spans from the start of the text up to, not including, Upper.
type RangeUpTo struct {
	Upper Index
}

func (r RangeUpTo) relative(w window) (Index, Index) {
	return w.start(), r.Upper
}

// RangeThrough spans from the start of the text through the character at Upper.
type RangeThrough struct {
	Upper Index
}

func (r RangeThrough) relative(w window) (Index, Index) {
	return w.start(), w.after("RangeThrough", grainCharacter, r.Upper)
}

// UnboundedRange spans the whole text.
type UnboundedRange struct{}

func (UnboundedRange) relative(w window) (Index, Index) {
	return w.start(), w.end()
}
