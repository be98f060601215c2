package strand

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dshills/strand/internal/strand/codec"
	"github.com/dshills/strand/internal/strand/storage"
)

// Text is the capability set shared by String and Substring: index algebra
// over characters, element access, the four views, slicing and range
// replacement.
type Text interface {
	fmt.Stringer

	StartIndex() Index
	EndIndex() Index
	IndexAfter(i Index) Index
	IndexBefore(i Index) Index
	IndexOffsetBy(i Index, n int) Index
	IndexOffsetByLimitedBy(i Index, n int, limit Index) (Index, bool)
	Distance(from, to Index) int
	Count() int
	IsEmpty() bool
	At(i Index) Character

	UTF8() UTF8View
	UTF16() UTF16View
	UnicodeScalars() ScalarView
	Characters() CharacterView

	Slice(b Bounds) *Substring
	ReplaceSubrange(b Bounds, repl string)
	ReplaceSubrangeText(b Bounds, repl Text)

	window() window
}

// noCopy may be embedded into structs which must not be copied after first
// use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// handle is the state shared by String and Substring: one counted reference
// to a Storage and the byte window [lo, hi) of it the text covers.
type handle struct {
	noCopy noCopy

	ref *storage.Ref
	lo  int
	hi  int
}

func newHandle(st *storage.Storage, lo, hi int) handle {
	return handle{ref: st.Acquire(), lo: lo, hi: hi}
}

func (h *handle) window() window {
	return newWindow(h.ref.Storage(), h.lo, h.hi)
}

func (h *handle) chars() algebra {
	return algebra{w: h.window(), g: grainCharacter}
}

// StartIndex returns the position of the first character.
func (h *handle) StartIndex() Index {
	return Index{offset: h.lo}
}

// EndIndex returns the position one past the last character.
func (h *handle) EndIndex() Index {
	return Index{offset: h.hi}
}

// IndexAfter returns the position of the character after i.
// It panics with *BoundsError if i is the end index.
func (h *handle) IndexAfter(i Index) Index {
	return h.chars().IndexAfter(i)
}

// IndexBefore returns the position of the character before i.
// It panics with *BoundsError if i is the start index.
func (h *handle) IndexBefore(i Index) Index {
	return h.chars().IndexBefore(i)
}

// IndexOffsetBy returns the position n characters from i.
func (h *handle) IndexOffsetBy(i Index, n int) Index {
	return h.chars().IndexOffsetBy(i, n)
}

// IndexOffsetByLimitedBy returns the position n characters from i, or false
// if the walk would pass limit or leave the text.
func (h *handle) IndexOffsetByLimitedBy(i Index, n int, limit Index) (Index, bool) {
	return h.chars().IndexOffsetByLimitedBy(i, n, limit)
}

// Distance returns the number of characters between two indices.
func (h *handle) Distance(from, to Index) int {
	return h.chars().Distance(from, to)
}

// Count returns the number of characters. It is O(n).
func (h *handle) Count() int {
	return h.chars().Count()
}

// IsEmpty returns true if the text has no code units.
func (h *handle) IsEmpty() bool {
	return h.lo == h.hi
}

// Len returns the number of UTF-8 code units in the text.
func (h *handle) Len() int {
	return h.hi - h.lo
}

// At returns the character starting at i.
func (h *handle) At(i Index) Character {
	return h.window().character("At", i)
}

// UTF8 returns the UTF-8 view of the text.
func (h *handle) UTF8() UTF8View {
	return UTF8View{algebra{w: h.window(), g: grainUTF8}}
}

// UTF16 returns the UTF-16 view of the text.
func (h *handle) UTF16() UTF16View {
	return UTF16View{algebra{w: h.window(), g: grainUTF16}}
}

// UnicodeScalars returns the scalar view of the text.
func (h *handle) UnicodeScalars() ScalarView {
	return ScalarView{algebra{w: h.window(), g: grainScalar}}
}

// Characters returns the character view of the text.
func (h *handle) Characters() CharacterView {
	return CharacterView{h.chars()}
}

// Slice returns a Substring over b sharing the text's Storage. It is O(1).
// The bounds must lie within the text and on scalar boundaries.
func (h *handle) Slice(b Bounds) *Substring {
	lo, hi := h.window().resolve("Slice", b)
	return &Substring{handle: newHandle(h.ref.Storage(), lo.offset, hi.offset)}
}

// ReplaceSubrange replaces the code units in b with repl. Ill-formed UTF-8
// in repl is replaced with U+FFFD.
//
// If the Storage is shared it is cloned first. Other texts sharing the
// original Storage are not updated.
func (h *handle) ReplaceSubrange(b Bounds, repl string) {
	h.replace("ReplaceSubrange", b, codec.Repair([]byte(repl)))
}

// ReplaceSubrangeText replaces the code units in b with the content of
// repl. repl may share Storage with the receiver.
func (h *handle) ReplaceSubrangeText(b Bounds, repl Text) {
	h.replace("ReplaceSubrangeText", b, bytes.Clone(repl.window().bytes()))
}

// Append adds s to the end of the text.
func (h *handle) Append(s string) {
	h.replace("Append", RangeFrom{Lower: h.EndIndex()}, codec.Repair([]byte(s)))
}

// Insert inserts s at i.
func (h *handle) Insert(i Index, s string) {
	h.replace("Insert", Range{Lower: i, Upper: i}, codec.Repair([]byte(s)))
}

// RemoveSubrange removes the code units in b.
func (h *handle) RemoveSubrange(b Bounds) {
	h.replace("RemoveSubrange", b, nil)
}

func (h *handle) replace(op string, b Bounds, repl []byte) {
	lo, hi := h.window().resolve(op, b)
	h.makeUnique()
	h.ref.Storage().Splice(lo.offset, hi.offset, repl)
	h.hi += len(repl) - (hi.offset - lo.offset)
}

// makeUnique clones the Storage unless the handle holds its only reference.
// Offsets are preserved, so existing indices into the text stay valid.
func (h *handle) makeUnique() {
	if h.ref.IsUnique() {
		return
	}
	old := h.ref
	h.ref = old.Storage().Clone().Acquire()
	old.Release()
}

// SetUTF8 replaces the content of the text with b, repairing ill-formed
// sequences.
func (h *handle) SetUTF8(b []byte) {
	h.replace("SetUTF8", UnboundedRange{}, codec.Repair(bytes.Clone(b)))
}

// SetUTF16 replaces the content of the text with the UTF-16 units. Unpaired
// surrogates become U+FFFD.
func (h *handle) SetUTF16(units []uint16) {
	h.replace("SetUTF16", UnboundedRange{}, []byte(string(utf16.Decode(units))))
}

// SetUnicodeScalars replaces the content of the text with rs. Invalid
// scalars become U+FFFD.
func (h *handle) SetUnicodeScalars(rs []rune) {
	h.replace("SetUnicodeScalars", UnboundedRange{}, []byte(string(rs)))
}

// SetCharacters replaces the content of the text with cs.
func (h *handle) SetCharacters(cs []Character) {
	var sb strings.Builder
	for _, c := range cs {
		sb.WriteString(string(c))
	}
	h.replace("SetCharacters", UnboundedRange{}, codec.Repair([]byte(sb.String())))
}

// Release drops the text's reference to its Storage. The text must not be
// used afterwards. Calling Release is optional; unreachable texts release
// their reference when collected.
func (h *handle) Release() {
	h.ref.Release()
}

// String returns a copy of the text's content.
func (h *handle) String() string {
	return string(h.window().bytes())
}

// GoString returns the content quoted as a Go string literal.
func (h *handle) GoString() string {
	return strconv.Quote(h.String())
}

// Equal reports whether the text is canonically equivalent to t.
func (h *handle) Equal(t Text) bool {
	return equalWindows(h.window(), t.window())
}

// Compare orders the text against t by the scalars of their canonical
// composition.
func (h *handle) Compare(t Text) int {
	return compareWindows(h.window(), t.window())
}

// WithCString calls fn with a NUL-terminated copy of the text encoded as
// enc. The buffer is only valid during the call.
func (h *handle) WithCString(enc codec.Encoding, fn func(CBuffer) error) error {
	_, err := WithCString(h, enc, func(b CBuffer) (struct{}, error) {
		return struct{}{}, fn(b)
	})
	return err
}
