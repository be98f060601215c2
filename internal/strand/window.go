package strand

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/strand/internal/strand/storage"
)

// grain selects the element type index arithmetic steps over.
type grain uint8

const (
	grainUTF8 grain = iota
	grainUTF16
	grainScalar
	grainCharacter
)

// String returns the name of the grain.
func (g grain) String() string {
	switch g {
	case grainUTF8:
		return "utf8"
	case grainUTF16:
		return "utf16"
	case grainScalar:
		return "unicodeScalars"
	case grainCharacter:
		return "characters"
	default:
		return "unknown"
	}
}

// window is a half-open byte range [lo, hi) of a Storage, captured at
// storage generation gen. All index arithmetic is implemented here; texts
// and views only choose the grain.
type window struct {
	st  *storage.Storage
	lo  int
	hi  int
	gen uint64
}

func newWindow(st *storage.Storage, lo, hi int) window {
	return window{st: st, lo: lo, hi: hi, gen: st.Generation()}
}

func (w window) start() Index {
	return Index{offset: w.lo}
}

func (w window) end() Index {
	return Index{offset: w.hi}
}

// check panics with ErrStaleView if the Storage was mutated after the
// window was captured.
func (w window) check() {
	if w.st.Generation() != w.gen {
		panic(ErrStaleView)
	}
}

func (w window) bytes() []byte {
	w.check()
	return w.st.Bytes(w.lo, w.hi)
}

func (w window) len() int {
	return w.hi - w.lo
}

// isScalarBoundary reports whether byte offset off starts a scalar or is
// the end of the window.
func (w window) isScalarBoundary(off int) bool {
	return off == w.hi || storage.IsScalarStart(w.st.CodeUnit(off))
}

// align checks that i lies within the window and rounds it to a position
// the grain can address.
func (w window) align(op string, g grain, i Index) Index {
	w.check()
	if i.offset < w.lo || i.offset > w.hi {
		boundsViolation(op, i, w, "")
	}

	switch g {
	case grainUTF8:
		i.transcoded = 0
		return i
	case grainCharacter:
		return Index{offset: w.clusterStart(i.offset)}
	}
	if !w.isScalarBoundary(i.offset) {
		i.offset = w.st.ScalarStart(i.offset)
		i.transcoded = 0
		return i
	}
	if i.transcoded != 0 {
		if g != grainUTF16 {
			i.transcoded = 0
			return i
		}
		if i.offset == w.hi {
			boundsViolation(op, i, w, "")
		}
		if r, _ := w.st.DecodeScalar(i.offset, w.hi); storage.UTF16Width(r) != 2 {
			i.transcoded = 0
		} else {
			i.transcoded = 1
		}
	}
	return i
}

// clusterLen returns the byte length of the grapheme cluster starting at off.
func (w window) clusterLen(off int) int {
	cluster, _, _, _ := uniseg.Step(w.st.Bytes(off, w.hi), -1)
	return len(cluster)
}

// clusterStart returns the start of the grapheme cluster containing byte
// offset off. An offset on a cluster boundary is returned unchanged.
func (w window) clusterStart(off int) int {
	p := w.knownBoundary(off)
	for p < off {
		next := p + w.clusterLen(p)
		if next > off {
			return p
		}
		p = next
	}
	return p
}

// knownBoundary returns the nearest offset at or before off that is a
// cluster boundary regardless of what precedes it: the window start, the
// position after a control character other than a CR-LF pair, or an ASCII
// scalar preceded by another ASCII scalar other than CR before LF.
func (w window) knownBoundary(off int) int {
	if off >= w.hi {
		return w.hi
	}
	for q := off; q > w.lo; q-- {
		prev, cur := w.st.CodeUnit(q-1), w.st.CodeUnit(q)
		if prev == '\r' && cur == '\n' {
			continue
		}
		if prev < 0x20 || prev == 0x7F {
			return q
		}
		if prev < utf8.RuneSelf && cur < utf8.RuneSelf {
			return q
		}
	}
	return w.lo
}

func (w window) after(op string, g grain, i Index) Index {
	i = w.align(op, g, i)
	if i.offset >= w.hi {
		boundsViolation(op, i, w, "cannot advance past end index")
	}

	switch g {
	case grainUTF8:
		return Index{offset: i.offset + 1}
	case grainUTF16:
		r, size := w.st.DecodeScalar(i.offset, w.hi)
		if storage.UTF16Width(r) == 2 && i.transcoded == 0 {
			return Index{offset: i.offset, transcoded: 1}
		}
		return Index{offset: i.offset + size}
	case grainScalar:
		_, size := w.st.DecodeScalar(i.offset, w.hi)
		return Index{offset: i.offset + size}
	default:
		return Index{offset: i.offset + w.clusterLen(i.offset)}
	}
}

func (w window) before(op string, g grain, i Index) Index {
	i = w.align(op, g, i)
	if i.offset <= w.lo && i.transcoded == 0 {
		boundsViolation(op, i, w, "cannot move before start index")
	}

	switch g {
	case grainUTF8:
		return Index{offset: i.offset - 1}
	case grainUTF16:
		if i.transcoded != 0 {
			return Index{offset: i.offset}
		}
		r, size := w.st.DecodeLastScalar(w.lo, i.offset)
		if storage.UTF16Width(r) == 2 {
			return Index{offset: i.offset - size, transcoded: 1}
		}
		return Index{offset: i.offset - size}
	case grainScalar:
		_, size := w.st.DecodeLastScalar(w.lo, i.offset)
		return Index{offset: i.offset - size}
	default:
		return Index{offset: w.clusterStart(i.offset - 1)}
	}
}

// position maps an index to a linear coordinate in the grain's unit for the
// grains with O(log n) translation. It reports false for characters.
func (w window) position(g grain, i Index) (int, bool) {
	switch g {
	case grainUTF8:
		return i.offset, true
	case grainUTF16:
		return w.st.UTF16Offset(i.offset) + int(i.transcoded), true
	case grainScalar:
		return w.st.ScalarOffset(i.offset), true
	default:
		return 0, false
	}
}

// indexAt is the inverse of position.
func (w window) indexAt(g grain, pos int) Index {
	switch g {
	case grainUTF8:
		return Index{offset: pos}
	case grainUTF16:
		off, tr := w.st.ByteOffsetForUTF16(pos)
		return Index{offset: off, transcoded: uint8(tr)}
	default:
		return Index{offset: w.st.ByteOffsetForScalar(pos)}
	}
}

func (w window) offsetBy(op string, g grain, i Index, n int) Index {
	i = w.align(op, g, i)

	if pos, ok := w.position(g, i); ok {
		lo, _ := w.position(g, w.start())
		hi, _ := w.position(g, w.end())
		target := pos + n
		if target < lo || target > hi {
			boundsViolation(op, i, w, "offset leaves the text")
		}
		return w.indexAt(g, target)
	}

	for ; n > 0; n-- {
		i = w.after(op, g, i)
	}
	for ; n < 0; n++ {
		i = w.before(op, g, i)
	}
	return i
}

// offsetByLimited walks n elements from i. The walk fails if it would leave
// the window, or if limit lies ahead of i in the walk direction and the
// result would pass it. limit is compared as given, so a limit inside an
// element stops a walk that would step over it.
func (w window) offsetByLimited(op string, g grain, i Index, n int, limit Index) (Index, bool) {
	i = w.align(op, g, i)
	if limit.Before(w.start()) {
		limit = w.start()
	}
	if limit.After(w.end()) {
		limit = w.end()
	}

	forward := n >= 0
	limited := (forward && !limit.Before(i)) || (!forward && !limit.After(i))
	passes := func(j Index) bool {
		switch {
		case !limited:
			return false
		case forward:
			return j.After(limit)
		default:
			return j.Before(limit)
		}
	}

	if pos, ok := w.position(g, i); ok {
		lo, _ := w.position(g, w.start())
		hi, _ := w.position(g, w.end())
		target := pos + n
		if target < lo || target > hi {
			return Index{}, false
		}
		j := w.indexAt(g, target)
		if passes(j) {
			return Index{}, false
		}
		return j, true
	}

	for ; n > 0; n-- {
		if i.offset >= w.hi || (limited && !i.Before(limit)) {
			return Index{}, false
		}
		i = w.after(op, g, i)
	}
	for ; n < 0; n++ {
		if i.offset <= w.lo || (limited && !i.After(limit)) {
			return Index{}, false
		}
		i = w.before(op, g, i)
	}
	if passes(i) {
		return Index{}, false
	}
	return i, true
}

func (w window) distance(op string, g grain, from, to Index) int {
	from = w.align(op, g, from)
	to = w.align(op, g, to)

	if a, ok := w.position(g, from); ok {
		b, _ := w.position(g, to)
		return b - a
	}

	if to.Before(from) {
		return -w.distance(op, g, to, from)
	}
	n := 0
	for p := from.offset; p < to.offset; p += w.clusterLen(p) {
		n++
	}
	return n
}

func (w window) count(g grain) int {
	return w.distance("Count", g, w.start(), w.end())
}

// resolve turns a range expression into validated half-open bounds for
// slicing or replacement. Both ends must lie within the window, be ordered
// and fall on scalar boundaries.
func (w window) resolve(op string, b Bounds) (Index, Index) {
	w.check()
	lo, hi := b.relative(w)
	for _, i := range [2]Index{lo, hi} {
		if i.offset < w.lo || i.offset > w.hi {
			boundsViolation(op, i, w, "")
		}
		if i.transcoded != 0 || !w.isScalarBoundary(i.offset) {
			boundsViolation(op, i, w, "range bound is not on a scalar boundary")
		}
	}
	if hi.Before(lo) {
		boundsViolation(op, hi, w, "range upper bound precedes lower bound")
	}
	return lo, hi
}
