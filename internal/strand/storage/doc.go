// Package storage provides the shared code-unit buffer that backs strand
// text values.
//
// A Storage owns a contiguous UTF-8 buffer. It never hands out indices;
// callers see only the raw extent (Len), code-unit access (CodeUnit, Bytes)
// and translation helpers between encoding spaces. Text values hold a Ref,
// and the Ref count decides whether a mutation may happen in place:
//
//	st := storage.FromString("hello")
//	a := st.Acquire()
//	b := st.Acquire()
//	a.IsUnique()      // false, b shares the buffer
//	b.Release()
//	a.IsUnique()      // true, a may splice in place
//
// Storage built from a literal (FromLiteral) aliases the string's bytes and
// is immortal: it is never unique, so every mutation clones it first.
//
// Metrics are summarized per stride-sized chunk ("breadcrumbs") the first
// time a translation is requested, which makes UTF-16 and scalar offset
// translation O(log n + stride) instead of O(n).
package storage
