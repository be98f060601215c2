// Package codec converts between UTF-8 and the foreign encodings strand text
// can be decoded from or encoded into.
//
// Decoding always produces valid UTF-8. Under the Strict policy malformed
// input is reported as a *DecodeError wrapping ErrMalformed; under Replace
// every ill-formed sequence becomes U+FFFD. The transcoding itself is
// delegated to golang.org/x/text and github.com/gdamore/encoding.
package codec

import (
	"fmt"
	"strings"

	gdenc "github.com/gdamore/encoding"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Encoding is a declared source or target encoding.
type Encoding uint8

const (
	UTF8 Encoding = iota
	// UTF16 takes its byte order from a BOM and is big-endian without one.
	// Encoding to UTF16 writes a BOM followed by big-endian units.
	UTF16
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
	ASCII
	// Latin1 is ISO-8859-1.
	Latin1
	Windows1252
	MacRoman
	// EBCDIC is code page 037.
	EBCDIC
)

var encodingNames = map[Encoding]string{
	UTF8:        "UTF-8",
	UTF16:       "UTF-16",
	UTF16LE:     "UTF-16LE",
	UTF16BE:     "UTF-16BE",
	UTF32LE:     "UTF-32LE",
	UTF32BE:     "UTF-32BE",
	ASCII:       "US-ASCII",
	Latin1:      "ISO-8859-1",
	Windows1252: "windows-1252",
	MacRoman:    "macintosh",
	EBCDIC:      "EBCDIC",
}

// aliases maps normalized names to encodings.
var aliases = map[string]Encoding{
	"utf8":        UTF8,
	"utf16":       UTF16,
	"utf16le":     UTF16LE,
	"utf16be":     UTF16BE,
	"utf32le":     UTF32LE,
	"utf32be":     UTF32BE,
	"ascii":       ASCII,
	"usascii":     ASCII,
	"latin1":      Latin1,
	"iso88591":    Latin1,
	"windows1252": Windows1252,
	"cp1252":      Windows1252,
	"macintosh":   MacRoman,
	"macroman":    MacRoman,
	"ebcdic":      EBCDIC,
	"cp037":       EBCDIC,
}

// String returns the canonical name of the encoding.
func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return "unknown"
}

// UnitWidth returns the size in bytes of one code unit, which is also the
// width of a NUL terminator in that encoding.
func (e Encoding) UnitWidth() int {
	switch e {
	case UTF16, UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	default:
		return 1
	}
}

// WithoutBOM returns the encoding that writes the same code units as e
// without a byte order mark. UTF16 becomes UTF16BE; every other encoding is
// returned unchanged.
func (e Encoding) WithoutBOM() Encoding {
	if e == UTF16 {
		return UTF16BE
	}
	return e
}

// IsSingleByte reports whether every code unit maps to exactly one scalar.
func (e Encoding) IsSingleByte() bool {
	switch e {
	case ASCII, Latin1, Windows1252, MacRoman, EBCDIC:
		return true
	default:
		return false
	}
}

// Lookup resolves an encoding name such as "utf-16le", "latin1" or "cp1252".
func Lookup(name string) (Encoding, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(name))
	if e, ok := aliases[key]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Policy selects how malformed input is handled while decoding.
type Policy uint8

const (
	// Strict rejects malformed input with a *DecodeError.
	Strict Policy = iota
	// Replace substitutes U+FFFD for each ill-formed sequence.
	Replace
)

// transcoder returns the x/text encoding used for e.
func transcoder(e Encoding) (encoding.Encoding, bool) {
	switch e {
	case UTF8:
		return unicode.UTF8, true
	case UTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), true
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), true
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), true
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), true
	case ASCII:
		return gdenc.ASCII, true
	case Latin1:
		return charmap.ISO8859_1, true
	case Windows1252:
		return charmap.Windows1252, true
	case MacRoman:
		return charmap.Macintosh, true
	case EBCDIC:
		return gdenc.EBCDIC, true
	default:
		return nil, false
	}
}
