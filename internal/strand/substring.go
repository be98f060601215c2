package strand

// Substring is a window [lower, upper) into a Storage shared with the text it
// was sliced from. Its indices are the indices of that text.
//
// A Substring keeps the whole Storage alive, however small its window. Use
// Materialize to copy the window when the Substring outlives its source.
type Substring struct {
	handle
}

// Clone returns a Substring over the same window and Storage.
func (s *Substring) Clone() *Substring {
	return &Substring{handle: newHandle(s.ref.Storage(), s.lo, s.hi)}
}

// Bounds returns the window of the Substring.
func (s *Substring) Bounds() Range {
	return Range{Lower: s.StartIndex(), Upper: s.EndIndex()}
}

// Materialize returns a String holding a copy of the window. The result
// does not reference the Substring's Storage.
func (s *Substring) Materialize() *String {
	return Own(s)
}

// Own returns a String holding a copy of t's content.
func Own(t Text) *String {
	w := t.window()
	return newString(w.st.CloneRange(w.lo, w.hi))
}

