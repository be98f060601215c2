package storage

import (
	"sort"
	"unicode/utf8"
)

// CrumbStride is the approximate number of bytes between breadcrumbs.
const CrumbStride = 256

// crumb records cumulative metrics at a scalar boundary.
type crumb struct {
	byteOff   int
	utf16Off  int
	scalarOff int
}

// Summary returns the aggregated metrics for the whole buffer.
func (s *Storage) Summary() Summary {
	s.ensureIndexed()
	return s.summary
}

// ensureIndexed builds breadcrumbs and the summary if they are stale.
func (s *Storage) ensureIndexed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed {
		return
	}

	crumbs := s.crumbs[:0]
	var total Summary
	total.Flags = FlagASCII
	for lo := 0; lo < len(s.data); {
		hi := chunkEnd(s.data, lo, CrumbStride)
		crumbs = append(crumbs, crumb{
			byteOff:   total.Bytes,
			utf16Off:  total.UTF16Units,
			scalarOff: total.Scalars,
		})
		total = total.Add(ComputeSummary(s.data[lo:hi]))
		lo = hi
	}
	if len(s.data) == 0 {
		total = Summary{Flags: FlagASCII}
	}

	s.crumbs = crumbs
	s.summary = total
	s.indexed = true
}

// chunkEnd returns the end of the chunk starting at lo, moved forward to a
// scalar boundary.
func chunkEnd(b []byte, lo, stride int) int {
	hi := lo + stride
	if hi >= len(b) {
		return len(b)
	}
	for hi < len(b) && !IsScalarStart(b[hi]) {
		hi++
	}
	return hi
}

// nearestCrumb returns the last crumb satisfying key(c) <= target.
func (s *Storage) nearestCrumb(target int, key func(crumb) int) crumb {
	s.ensureIndexed()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.crumbs) == 0 {
		return crumb{}
	}
	i := sort.Search(len(s.crumbs), func(i int) bool {
		return key(s.crumbs[i]) > target
	})
	if i == 0 {
		return s.crumbs[0]
	}
	return s.crumbs[i-1]
}

// UTF16Offset converts a byte offset into the number of UTF-16 code units
// that precede it. A mid-scalar offset counts only the scalars before it.
func (s *Storage) UTF16Offset(byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff > len(s.data) {
		byteOff = len(s.data)
	}
	if s.Summary().IsASCII() {
		return byteOff
	}

	c := s.nearestCrumb(byteOff, func(c crumb) int { return c.byteOff })
	units := c.utf16Off
	for i := c.byteOff; i < byteOff; {
		r, size := utf8.DecodeRune(s.data[i:])
		if i+size > byteOff {
			break
		}
		units += UTF16Width(r)
		i += size
	}
	return units
}

// ByteOffsetForUTF16 converts a UTF-16 offset back into a byte offset.
// When the offset addresses the trailing surrogate of a supplementary
// scalar, the scalar's byte offset is returned with transcoded == 1.
func (s *Storage) ByteOffsetForUTF16(units int) (byteOff, transcoded int) {
	if units <= 0 {
		return 0, 0
	}
	if s.Summary().IsASCII() {
		if units > len(s.data) {
			return len(s.data), 0
		}
		return units, 0
	}

	c := s.nearestCrumb(units, func(c crumb) int { return c.utf16Off })
	cu := c.utf16Off
	i := c.byteOff
	for i < len(s.data) && cu < units {
		r, size := utf8.DecodeRune(s.data[i:])
		w := UTF16Width(r)
		if cu+w > units {
			return i, units - cu
		}
		cu += w
		i += size
	}
	return i, 0
}

// ScalarOffset converts a byte offset into the number of scalars preceding it.
func (s *Storage) ScalarOffset(byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff > len(s.data) {
		byteOff = len(s.data)
	}
	if s.Summary().IsASCII() {
		return byteOff
	}

	c := s.nearestCrumb(byteOff, func(c crumb) int { return c.byteOff })
	n := c.scalarOff
	for i := c.byteOff; i < byteOff; {
		_, size := utf8.DecodeRune(s.data[i:])
		if i+size > byteOff {
			break
		}
		n++
		i += size
	}
	return n
}

// ByteOffsetForScalar converts a scalar offset back into a byte offset.
func (s *Storage) ByteOffsetForScalar(n int) int {
	if n <= 0 {
		return 0
	}
	if s.Summary().IsASCII() {
		return min(n, len(s.data))
	}

	c := s.nearestCrumb(n, func(c crumb) int { return c.scalarOff })
	count := c.scalarOff
	i := c.byteOff
	for i < len(s.data) && count < n {
		_, size := utf8.DecodeRune(s.data[i:])
		i += size
		count++
	}
	return i
}
