// Package strand implements Unicode text with zero-copy windowed substrings.
//
// A String owns its content; a Substring is a window into the Storage of the
// text it was sliced from and shares it without copying. Both implement Text
// and address positions with the same Index values:
//
//	s := strand.New("Hi there! It's nice to meet you!")
//	bang, _ := strand.FirstIndex(s, "!")
//	greeting := s.Slice(strand.RangeThrough{Upper: bang}) // "Hi there!"
//	greeting.Count()                                      // 9
//
// Every text exposes four views of the same content: UTF-8 code units,
// UTF-16 code units, Unicode scalars and characters (extended grapheme
// clusters). Each view steps over its own element type but accepts and
// returns the shared Index type.
//
// # Bounds
//
// Index arithmetic is checked. Moving past either end of a text, or using an
// index outside its window, panics with *BoundsError. IndexOffsetByLimitedBy
// reports failure with a boolean instead.
//
// # Sharing
//
// Mutating a String or Substring clones its Storage first unless it holds
// the only reference. Other texts are never affected by a mutation, but
// their indices do not follow it either: an index taken before an edit is
// only meaningful for texts that did not observe the edit.
//
// A Substring keeps its entire Storage alive. Materialize a Substring that
// outlives its source to release the rest of the buffer.
package strand
