package strand

import (
	"bytes"
	"hash/maphash"

	"golang.org/x/text/unicode/norm"
)

// Equal reports whether a and b are canonically equivalent. Storage identity
// and window placement are irrelevant.
func Equal(a, b Text) bool {
	return equalWindows(a.window(), b.window())
}

// Compare orders a and b by the scalars of their canonical composition. It
// returns -1, 0 or 1.
func Compare(a, b Text) int {
	return compareWindows(a.window(), b.window())
}

// Hash returns a hash of t consistent with Equal: canonically equivalent
// texts hash equally under the same seed.
func Hash(seed maphash.Seed, t Text) uint64 {
	return maphash.Bytes(seed, composed(t.window().bytes()))
}

func sameWindow(a, b window) bool {
	return a.st == b.st && a.lo == b.lo && a.hi == b.hi
}

func equalWindows(a, b window) bool {
	if sameWindow(a, b) {
		return true
	}
	ab, bb := a.bytes(), b.bytes()
	if bytes.Equal(ab, bb) {
		return true
	}
	return bytes.Equal(composed(ab), composed(bb))
}

func compareWindows(a, b window) int {
	if sameWindow(a, b) {
		return 0
	}
	return bytes.Compare(composed(a.bytes()), composed(b.bytes()))
}

// composed returns b in NFC, without copying when b is already composed.
func composed(b []byte) []byte {
	if norm.NFC.QuickSpan(b) == len(b) {
		return b
	}
	return norm.NFC.Bytes(b)
}
