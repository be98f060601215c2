package strand

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dshills/strand/internal/strand/codec"
	"github.com/dshills/strand/internal/strand/storage"
)

// String is an owning text: its window always spans the whole Storage.
//
// Strings share Storage with the Substrings sliced from them and with their
// clones. Mutation clones the Storage first unless the String holds the only
// reference, so a mutation is never visible through another value.
type String struct {
	handle
}

func newString(st *storage.Storage) *String {
	return &String{handle: newHandle(st, 0, st.Len())}
}

// New returns a String holding s. Valid UTF-8 is referenced without copying;
// otherwise ill-formed sequences are replaced with U+FFFD.
func New(s string) *String {
	if utf8.ValidString(s) {
		return newString(storage.FromLiteral(s))
	}
	return newString(storage.New(codec.Repair([]byte(s))))
}

// FromBytes returns a String holding a copy of b, with ill-formed sequences
// replaced by U+FFFD.
func FromBytes(b []byte) *String {
	return newString(storage.New(codec.Repair(bytes.Clone(b))))
}

// FromRune returns a String holding the single scalar r. Invalid scalars
// become U+FFFD.
func FromRune(r rune) *String {
	return newString(storage.New(utf8.AppendRune(nil, r)))
}

// FromRunes returns a String holding rs.
func FromRunes(rs []rune) *String {
	return newString(storage.New([]byte(string(rs))))
}

// FromCharacter returns a String holding the single character c.
func FromCharacter(c Character) *String {
	return New(string(c))
}

// FromUTF16 returns a String holding the UTF-16 units. Unpaired surrogates
// become U+FFFD.
func FromUTF16(units []uint16) *String {
	return newString(storage.New([]byte(string(utf16.Decode(units)))))
}

// Decode returns a String holding b decoded from enc. It returns a
// *codec.DecodeError wrapping codec.ErrMalformed if b is not well-formed.
func Decode(b []byte, enc codec.Encoding) (*String, error) {
	out, err := codec.Decode(b, enc, codec.Strict)
	if err != nil {
		return nil, err
	}
	return newString(storage.New(out)), nil
}

// DecodeLossy is like Decode but replaces ill-formed input with U+FFFD.
func DecodeLossy(b []byte, enc codec.Encoding) (*String, error) {
	out, err := codec.Decode(b, enc, codec.Replace)
	if err != nil {
		return nil, err
	}
	return newString(storage.New(out)), nil
}

// Clone returns a String sharing s's Storage.
func (s *String) Clone() *String {
	return &String{handle: newHandle(s.ref.Storage(), s.lo, s.hi)}
}

// Whole returns a Substring spanning all of s.
func Whole(s *String) *Substring {
	return s.Slice(UnboundedRange{})
}
