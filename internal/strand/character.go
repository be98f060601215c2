package strand

import (
	"iter"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/strand/internal/strand/storage"
)

// Character is a single extended grapheme cluster: what a user perceives as
// one character. Its value is the cluster's UTF-8 encoding.
type Character string

// NewCharacter returns s as a Character. It returns ErrNotSingleCharacter
// unless s is valid UTF-8 holding exactly one grapheme cluster.
func NewCharacter(s string) (Character, error) {
	if s == "" || !utf8.ValidString(s) {
		return "", ErrNotSingleCharacter
	}
	cluster, rest, _, _ := uniseg.StepString(s, -1)
	if rest != "" || cluster != s {
		return "", ErrNotSingleCharacter
	}
	return Character(s), nil
}

// MustCharacter is like NewCharacter but panics on error.
// It is intended for literals.
func MustCharacter(s string) Character {
	c, err := NewCharacter(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsASCII returns true if the character is a single ASCII scalar or the
// CR-LF pair.
func (c Character) IsASCII() bool {
	if c == "\r\n" {
		return true
	}
	return len(c) == 1 && c[0] < utf8.RuneSelf
}

// ASCIIValue returns the ASCII value of the character. CR-LF maps to LF.
func (c Character) ASCIIValue() (byte, bool) {
	if c == "\r\n" {
		return '\n', true
	}
	if len(c) == 1 && c[0] < utf8.RuneSelf {
		return c[0], true
	}
	return 0, false
}

// UnicodeScalars returns the scalars of the character in order.
func (c Character) UnicodeScalars() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range string(c) {
			if !yield(r) {
				return
			}
		}
	}
}

// UTF16Count returns the number of UTF-16 code units in the character.
func (c Character) UTF16Count() int {
	n := 0
	for _, r := range string(c) {
		n += storage.UTF16Width(r)
	}
	return n
}

// Equal reports whether c and d are canonically equivalent.
func (c Character) Equal(d Character) bool {
	return c == d || norm.NFC.String(string(c)) == norm.NFC.String(string(d))
}
