package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// Decode converts src from enc into valid UTF-8.
func Decode(src []byte, enc Encoding, policy Policy) ([]byte, error) {
	tc, ok := transcoder(enc)
	if !ok {
		return nil, fmt.Errorf("decode: %w: %d", ErrUnknownEncoding, enc)
	}

	if policy == Strict {
		if off, bad := firstMalformed(src, enc); bad {
			return nil, &DecodeError{Encoding: enc, Offset: off, Err: ErrMalformed}
		}
	}

	out, err := tc.NewDecoder().Bytes(src)
	if err != nil {
		return nil, &DecodeError{Encoding: enc, Offset: 0, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	if policy == Strict && enc.IsSingleByte() {
		// Single-byte tables report unmapped bytes as U+FFFD, one scalar per byte.
		if off, bad := firstReplacement(out); bad {
			return nil, &DecodeError{Encoding: enc, Offset: off, Err: ErrMalformed}
		}
	}

	if !utf8.Valid(out) {
		return nil, &DecodeError{Encoding: enc, Offset: 0, Err: ErrMalformed}
	}
	return out, nil
}

// Repair returns b with every ill-formed UTF-8 sequence replaced by U+FFFD.
// Valid input is returned unchanged without copying.
func Repair(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out, err := Decode(b, UTF8, Replace)
	if err != nil {
		// The UTF-8 decoder never fails under Replace.
		panic(err)
	}
	return out
}

// Encode converts valid UTF-8 src into enc. Scalars that enc cannot
// represent are reported as a *DecodeError wrapping ErrUnrepresentable, with
// the offset of the scalar in src.
func Encode(src []byte, enc Encoding) ([]byte, error) {
	tc, ok := transcoder(enc)
	if !ok {
		return nil, fmt.Errorf("encode: %w: %d", ErrUnknownEncoding, enc)
	}
	if !utf8.Valid(src) {
		off, _ := firstMalformed(src, UTF8)
		return nil, &DecodeError{Encoding: UTF8, Offset: off, Err: ErrMalformed}
	}

	if !enc.IsSingleByte() {
		out, err := tc.NewEncoder().Bytes(src)
		if err != nil {
			return nil, &DecodeError{Encoding: enc, Offset: 0, Err: err}
		}
		return out, nil
	}

	out, err := encoding.ReplaceUnsupported(tc.NewEncoder()).Bytes(src)
	if err != nil {
		return nil, &DecodeError{Encoding: enc, Offset: 0, Err: err}
	}
	back, err := tc.NewDecoder().Bytes(out)
	if err != nil {
		return nil, &DecodeError{Encoding: enc, Offset: 0, Err: err}
	}
	if off, bad := firstMismatch(src, back); bad {
		return nil, &DecodeError{Encoding: enc, Offset: off, Err: ErrUnrepresentable}
	}
	return out, nil
}

// firstMalformed reports the byte offset of the first ill-formed sequence of
// src in enc. Single-byte encodings are checked after transcoding.
func firstMalformed(src []byte, enc Encoding) (int, bool) {
	switch enc {
	case UTF8:
		for i := 0; i < len(src); {
			r, size := utf8.DecodeRune(src[i:])
			if r == utf8.RuneError && size <= 1 {
				return i, true
			}
			i += size
		}
		return 0, false
	case UTF16, UTF16LE, UTF16BE:
		return malformedUTF16(src, enc)
	case UTF32LE, UTF32BE:
		return malformedUTF32(src, enc)
	default:
		return 0, false
	}
}

func malformedUTF16(src []byte, enc Encoding) (int, bool) {
	var order binary.ByteOrder = binary.BigEndian
	start := 0
	switch enc {
	case UTF16LE:
		order = binary.LittleEndian
	case UTF16:
		if len(src) >= 2 {
			switch {
			case src[0] == 0xFE && src[1] == 0xFF:
				start = 2
			case src[0] == 0xFF && src[1] == 0xFE:
				order = binary.LittleEndian
				start = 2
			}
		}
	}

	for i := start; i < len(src); i += 2 {
		if i+1 >= len(src) {
			return i, true
		}
		u := order.Uint16(src[i:])
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+3 >= len(src) {
				return i, true
			}
			next := order.Uint16(src[i+2:])
			if next < 0xDC00 || next > 0xDFFF {
				return i, true
			}
			i += 2
		case u >= 0xDC00 && u <= 0xDFFF:
			return i, true
		}
	}
	return 0, false
}

func malformedUTF32(src []byte, enc Encoding) (int, bool) {
	var order binary.ByteOrder = binary.BigEndian
	if enc == UTF32LE {
		order = binary.LittleEndian
	}
	for i := 0; i < len(src); i += 4 {
		if i+3 >= len(src) {
			return i, true
		}
		v := order.Uint32(src[i:])
		if v > utf8.MaxRune || (v >= 0xD800 && v <= 0xDFFF) {
			return i, true
		}
	}
	return 0, false
}

// firstReplacement returns the scalar index of the first U+FFFD in b.
func firstReplacement(b []byte) (int, bool) {
	n := 0
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError {
			return n, true
		}
		i += size
		n++
	}
	return 0, false
}

// firstMismatch returns the byte offset in want of the first scalar that
// differs from got.
func firstMismatch(want, got []byte) (int, bool) {
	i, j := 0, 0
	for i < len(want) {
		if j >= len(got) {
			return i, true
		}
		a, asize := utf8.DecodeRune(want[i:])
		b, bsize := utf8.DecodeRune(got[j:])
		if a != b {
			return i, true
		}
		i += asize
		j += bsize
	}
	return 0, j != len(got)
}
