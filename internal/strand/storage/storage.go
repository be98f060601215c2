package storage

import (
	"sync"
	"sync/atomic"
	"unicode/utf8"
	"unsafe"
)

// Encoding names the base encoding of a Storage buffer.
type Encoding uint8

const (
	// UTF8 is the only base encoding: code units are bytes.
	UTF8 Encoding = iota
)

// String returns the name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	default:
		return "unknown"
	}
}

// Storage is a contiguous buffer of UTF-8 code units shared by text values.
//
// The content is always valid UTF-8. Constructors that accept arbitrary
// bytes expect the caller to have validated or repaired them.
type Storage struct {
	data     []byte
	immortal bool
	refs     atomic.Int64
	gen      atomic.Uint64

	mu      sync.Mutex
	crumbs  []crumb
	summary Summary
	indexed bool
}

// New creates a Storage that takes ownership of b.
// b must be valid UTF-8 and must not be modified by the caller afterwards.
func New(b []byte) *Storage {
	return &Storage{data: b}
}

// FromString creates a Storage holding a copy of s.
func FromString(s string) *Storage {
	return New([]byte(s))
}

// FromLiteral creates an immortal Storage that aliases the bytes of s
// without copying. s must be valid UTF-8.
func FromLiteral(s string) *Storage {
	if len(s) == 0 {
		return &Storage{immortal: true}
	}
	return &Storage{
		data:     unsafe.Slice(unsafe.StringData(s), len(s)),
		immortal: true,
	}
}

// Encoding returns the base encoding of the buffer.
func (s *Storage) Encoding() Encoding {
	return UTF8
}

// Len returns the number of code units in the buffer.
func (s *Storage) Len() int {
	return len(s.data)
}

// CodeUnit returns the code unit at offset i.
// It panics if i is out of range.
func (s *Storage) CodeUnit(i int) byte {
	return s.data[i]
}

// Bytes returns the code units in [lo, hi). The returned slice aliases the
// buffer and must not be modified or retained across a mutation.
func (s *Storage) Bytes(lo, hi int) []byte {
	return s.data[lo:hi:hi]
}

// IsImmortal reports whether the buffer aliases a literal.
func (s *Storage) IsImmortal() bool {
	return s.immortal
}

// Generation returns a counter incremented by every structural mutation.
func (s *Storage) Generation() uint64 {
	return s.gen.Load()
}

// RefCount returns the number of live Refs.
func (s *Storage) RefCount() int64 {
	return s.refs.Load()
}

// Clone returns a new mortal Storage holding a copy of the buffer.
func (s *Storage) Clone() *Storage {
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return New(data)
}

// CloneRange returns a new mortal Storage holding a copy of [lo, hi).
func (s *Storage) CloneRange(lo, hi int) *Storage {
	data := make([]byte, hi-lo)
	copy(data, s.data[lo:hi])
	return New(data)
}

// Splice replaces the code units in [lo, hi) with repl.
//
// The caller must hold the only Ref (see Ref.IsUnique); splicing an immortal
// buffer panics. lo and hi must lie on scalar boundaries and repl must be
// valid UTF-8.
func (s *Storage) Splice(lo, hi int, repl []byte) {
	if s.immortal {
		panic("storage: splice of immortal storage")
	}
	if lo < 0 || lo > hi || hi > len(s.data) {
		panic("storage: splice range out of bounds")
	}

	delta := len(repl) - (hi - lo)
	switch {
	case delta == 0:
		copy(s.data[lo:hi], repl)
	case delta < 0:
		copy(s.data[lo:], repl)
		n := copy(s.data[lo+len(repl):], s.data[hi:])
		s.data = s.data[:lo+len(repl)+n]
	default:
		tail := len(s.data) - hi
		if cap(s.data) >= len(s.data)+delta {
			s.data = s.data[:len(s.data)+delta]
			copy(s.data[lo+len(repl):], s.data[hi:hi+tail])
			copy(s.data[lo:], repl)
		} else {
			grown := make([]byte, len(s.data)+delta, growCap(len(s.data)+delta))
			copy(grown, s.data[:lo])
			copy(grown[lo:], repl)
			copy(grown[lo+len(repl):], s.data[hi:])
			s.data = grown
		}
	}

	s.invalidate()
}

// growCap returns the capacity used when a splice outgrows the buffer.
func growCap(n int) int {
	if n < 64 {
		return 64
	}
	return n + n/2
}

// invalidate drops cached metrics after a structural mutation.
func (s *Storage) invalidate() {
	s.gen.Add(1)
	s.mu.Lock()
	s.crumbs = s.crumbs[:0]
	s.summary = Summary{}
	s.indexed = false
	s.mu.Unlock()
}

// ScalarStart returns the start of the scalar containing offset i.
func (s *Storage) ScalarStart(i int) int {
	for i > 0 && i < len(s.data) && !IsScalarStart(s.data[i]) {
		i--
	}
	return i
}

// DecodeScalar decodes the scalar starting at offset i, stopping at limit.
func (s *Storage) DecodeScalar(i, limit int) (rune, int) {
	return utf8.DecodeRune(s.data[i:limit])
}

// DecodeLastScalar decodes the scalar ending at offset i, not reading before
// floor.
func (s *Storage) DecodeLastScalar(floor, i int) (rune, int) {
	return utf8.DecodeLastRune(s.data[floor:i])
}
