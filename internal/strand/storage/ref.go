package storage

import (
	"runtime"
	"sync/atomic"
)

// Ref is one counted reference to a Storage.
//
// Every text value holds exactly one Ref. The count is decremented when the
// Ref is released explicitly or when it becomes unreachable, whichever
// happens first; a Ref is never counted twice.
type Ref struct {
	st   *Storage
	live *atomic.Bool
}

// refToken is the cleanup argument; it must not point at the Ref itself.
type refToken struct {
	st   *Storage
	live *atomic.Bool
}

// Acquire returns a new counted reference to s.
func (s *Storage) Acquire() *Ref {
	s.refs.Add(1)
	live := new(atomic.Bool)
	live.Store(true)

	r := &Ref{st: s, live: live}
	runtime.AddCleanup(r, dropRef, refToken{st: s, live: live})
	return r
}

func dropRef(t refToken) {
	if t.live.CompareAndSwap(true, false) {
		t.st.refs.Add(-1)
	}
}

// Storage returns the referenced buffer.
// It panics if the Ref has been released.
func (r *Ref) Storage() *Storage {
	if !r.live.Load() {
		panic("storage: use of released reference")
	}
	return r.st
}

// IsLive reports whether the Ref has not been released.
func (r *Ref) IsLive() bool {
	return r.live.Load()
}

// IsUnique reports whether the holder of r may mutate the buffer in place:
// r is live, it is the only live Ref, and the buffer is not immortal.
func (r *Ref) IsUnique() bool {
	return r.live.Load() && !r.st.immortal && r.st.refs.Load() == 1
}

// Release drops the reference. Releasing twice is a no-op.
func (r *Ref) Release() {
	dropRef(refToken{st: r.st, live: r.live})
}
