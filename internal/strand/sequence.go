package strand

// FirstIndexFunc returns the index of the first character of t satisfying
// f, or false if there is none.
func FirstIndexFunc(t Text, f func(Character) bool) (Index, bool) {
	w := t.window()
	for i := w.lo; i < w.hi; {
		n := w.clusterLen(i)
		if f(Character(w.st.Bytes(i, i+n))) {
			return Index{offset: i}, true
		}
		i += n
	}
	return Index{}, false
}

// FirstIndex returns the index of the first character of t canonically
// equivalent to c, or false if there is none.
func FirstIndex(t Text, c Character) (Index, bool) {
	return FirstIndexFunc(t, c.Equal)
}

// PrefixWhile returns the longest leading Substring of t whose characters
// all satisfy f.
func PrefixWhile(t Text, f func(Character) bool) *Substring {
	end, ok := FirstIndexFunc(t, func(c Character) bool { return !f(c) })
	if !ok {
		end = t.EndIndex()
	}
	return t.Slice(Range{Lower: t.StartIndex(), Upper: end})
}

// HasPrefix reports whether the leading characters of t are canonically
// equivalent to the characters of prefix.
func HasPrefix(t Text, prefix Text) bool {
	w := t.window()
	i := w.lo
	for c := range prefix.Characters().All() {
		if i >= w.hi {
			return false
		}
		n := w.clusterLen(i)
		if !c.Equal(Character(w.st.Bytes(i, i+n))) {
			return false
		}
		i += n
	}
	return true
}
