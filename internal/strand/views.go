package strand

import (
	"iter"

	"github.com/dshills/strand/internal/strand/storage"
)

// algebra provides the index arithmetic shared by every view.
type algebra struct {
	w window
	g grain
}

// StartIndex returns the position of the first element.
func (a algebra) StartIndex() Index {
	return a.w.start()
}

// EndIndex returns the position one past the last element.
func (a algebra) EndIndex() Index {
	return a.w.end()
}

// IndexAfter returns the position immediately after i.
// It panics with *BoundsError if i is the end index.
func (a algebra) IndexAfter(i Index) Index {
	return a.w.after("IndexAfter", a.g, i)
}

// IndexBefore returns the position immediately before i.
// It panics with *BoundsError if i is the start index.
func (a algebra) IndexBefore(i Index) Index {
	return a.w.before("IndexBefore", a.g, i)
}

// IndexOffsetBy returns the position n elements from i.
// It panics with *BoundsError if the result would leave the view.
func (a algebra) IndexOffsetBy(i Index, n int) Index {
	return a.w.offsetBy("IndexOffsetBy", a.g, i, n)
}

// IndexOffsetByLimitedBy returns the position n elements from i, or false if
// reaching it would pass limit or leave the view.
func (a algebra) IndexOffsetByLimitedBy(i Index, n int, limit Index) (Index, bool) {
	return a.w.offsetByLimited("IndexOffsetByLimitedBy", a.g, i, n, limit)
}

// Distance returns the number of elements from one index to another.
// The result is negative when to precedes from.
func (a algebra) Distance(from, to Index) int {
	return a.w.distance("Distance", a.g, from, to)
}

// Count returns the number of elements in the view.
func (a algebra) Count() int {
	return a.w.count(a.g)
}

// IsEmpty returns true if the view has no elements.
func (a algebra) IsEmpty() bool {
	a.w.check()
	return a.w.lo == a.w.hi
}

// sub returns the algebra of a narrower window.
func (a algebra) sub(op string, r Range) algebra {
	a.w.check()
	lo := a.w.align(op, a.g, r.Lower)
	hi := a.w.align(op, a.g, r.Upper)
	if lo != r.Lower || hi != r.Upper {
		boundsViolation(op, r.Lower, a.w, "range bound is not on an element boundary")
	}
	if hi.Before(lo) {
		boundsViolation(op, hi, a.w, "range upper bound precedes lower bound")
	}
	if lo.transcoded != 0 || hi.transcoded != 0 {
		boundsViolation(op, r.Lower, a.w, "range bound splits a surrogate pair")
	}
	return algebra{w: newWindow(a.w.st, lo.offset, hi.offset), g: a.g}
}

// UTF8View is the UTF-8 code units of a text's window.
type UTF8View struct {
	algebra
}

// At returns the code unit at i.
func (v UTF8View) At(i Index) byte {
	i = v.w.align("UTF8View.At", grainUTF8, i)
	if i.offset >= v.w.hi {
		boundsViolation("UTF8View.At", i, v.w, "end index has no element")
	}
	return v.w.st.CodeUnit(i.offset)
}

// All returns the code units in order.
func (v UTF8View) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		v.w.check()
		for i := v.w.lo; i < v.w.hi; i++ {
			v.w.check()
			if !yield(v.w.st.CodeUnit(i)) {
				return
			}
		}
	}
}

// Backward returns the code units in reverse order.
func (v UTF8View) Backward() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		v.w.check()
		for i := v.w.hi - 1; i >= v.w.lo; i-- {
			v.w.check()
			if !yield(v.w.st.CodeUnit(i)) {
				return
			}
		}
	}
}

// Slice returns the view restricted to r.
func (v UTF8View) Slice(r Range) UTF8View {
	return UTF8View{v.sub("UTF8View.Slice", r)}
}

// Count returns the number of code units. It is O(1).
func (v UTF8View) Count() int {
	v.w.check()
	return v.w.len()
}

// UTF16View is the UTF-16 code units of a text's window.
type UTF16View struct {
	algebra
}

// At returns the code unit at i.
func (v UTF16View) At(i Index) uint16 {
	i = v.w.align("UTF16View.At", grainUTF16, i)
	if i.offset >= v.w.hi {
		boundsViolation("UTF16View.At", i, v.w, "end index has no element")
	}
	r, _ := v.w.st.DecodeScalar(i.offset, v.w.hi)
	return utf16Unit(r, i.transcoded)
}

// utf16Unit returns the UTF-16 code unit of r selected by transcoded.
func utf16Unit(r rune, transcoded uint8) uint16 {
	if storage.UTF16Width(r) == 1 {
		return uint16(r)
	}
	r -= 0x10000
	if transcoded == 0 {
		return uint16(0xD800 + (r>>10)&0x3FF)
	}
	return uint16(0xDC00 + r&0x3FF)
}

// All returns the code units in order.
func (v UTF16View) All() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		v.w.check()
		for i := v.w.lo; i < v.w.hi; {
			v.w.check()
			r, size := v.w.st.DecodeScalar(i, v.w.hi)
			if !yield(utf16Unit(r, 0)) {
				return
			}
			if storage.UTF16Width(r) == 2 && !yield(utf16Unit(r, 1)) {
				return
			}
			i += size
		}
	}
}

// Backward returns the code units in reverse order.
func (v UTF16View) Backward() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		v.w.check()
		for i := v.w.hi; i > v.w.lo; {
			v.w.check()
			r, size := v.w.st.DecodeLastScalar(v.w.lo, i)
			if storage.UTF16Width(r) == 2 && !yield(utf16Unit(r, 1)) {
				return
			}
			if !yield(utf16Unit(r, 0)) {
				return
			}
			i -= size
		}
	}
}

// Slice returns the view restricted to r. Bounds must not split a
// surrogate pair.
func (v UTF16View) Slice(r Range) UTF16View {
	return UTF16View{v.sub("UTF16View.Slice", r)}
}

// ScalarView is the Unicode scalars of a text's window.
type ScalarView struct {
	algebra
}

// At returns the scalar at i.
func (v ScalarView) At(i Index) rune {
	i = v.w.align("ScalarView.At", grainScalar, i)
	if i.offset >= v.w.hi {
		boundsViolation("ScalarView.At", i, v.w, "end index has no element")
	}
	r, _ := v.w.st.DecodeScalar(i.offset, v.w.hi)
	return r
}

// All returns the scalars in order.
func (v ScalarView) All() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		v.w.check()
		for i := v.w.lo; i < v.w.hi; {
			v.w.check()
			r, size := v.w.st.DecodeScalar(i, v.w.hi)
			if !yield(r) {
				return
			}
			i += size
		}
	}
}

// Backward returns the scalars in reverse order.
func (v ScalarView) Backward() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		v.w.check()
		for i := v.w.hi; i > v.w.lo; {
			v.w.check()
			r, size := v.w.st.DecodeLastScalar(v.w.lo, i)
			if !yield(r) {
				return
			}
			i -= size
		}
	}
}

// Slice returns the view restricted to r.
func (v ScalarView) Slice(r Range) ScalarView {
	return ScalarView{v.sub("ScalarView.Slice", r)}
}

// CharacterView is the extended grapheme clusters of a text's window.
// Cluster boundaries are computed from the start of the window.
type CharacterView struct {
	algebra
}

// At returns the character starting at i.
func (v CharacterView) At(i Index) Character {
	return v.w.character("CharacterView.At", i)
}

// All returns the characters in order.
func (v CharacterView) All() iter.Seq[Character] {
	return func(yield func(Character) bool) {
		v.w.check()
		for i := v.w.lo; i < v.w.hi; {
			v.w.check()
			n := v.w.clusterLen(i)
			if !yield(Character(v.w.st.Bytes(i, i+n))) {
				return
			}
			i += n
		}
	}
}

// Backward returns the characters in reverse order.
func (v CharacterView) Backward() iter.Seq[Character] {
	return func(yield func(Character) bool) {
		v.w.check()
		for end := v.w.hi; end > v.w.lo; {
			v.w.check()
			start := v.w.clusterStart(end - 1)
			if !yield(Character(v.w.st.Bytes(start, end))) {
				return
			}
			end = start
		}
	}
}

// Slice returns the view restricted to r.
func (v CharacterView) Slice(r Range) CharacterView {
	return CharacterView{v.sub("CharacterView.Slice", r)}
}

// character returns the grapheme cluster starting at i.
func (w window) character(op string, i Index) Character {
	i = w.align(op, grainCharacter, i)
	if i.offset >= w.hi {
		boundsViolation(op, i, w, "end index has no element")
	}
	n := w.clusterLen(i.offset)
	return Character(w.st.Bytes(i.offset, i.offset+n))
}
