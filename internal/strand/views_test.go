package strand

import (
	"iter"
	"slices"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
)

func TestViewsAll(t *testing.T) {
	s := New(mixed)

	if diff := cmp.Diff([]byte(mixed), slices.Collect(s.UTF8().All())); diff != "" {
		t.Errorf("UTF8 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(utf16.Encode([]rune(mixed)), slices.Collect(s.UTF16().All())); diff != "" {
		t.Errorf("UTF16 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]rune(mixed), slices.Collect(s.UnicodeScalars().All())); diff != "" {
		t.Errorf("scalars mismatch (-want +got):\n%s", diff)
	}
	wantChars := []Character{"a", "😀", "e\u0301", "\r\n", "x"}
	if diff := cmp.Diff(wantChars, slices.Collect(s.Characters().All())); diff != "" {
		t.Errorf("characters mismatch (-want +got):\n%s", diff)
	}
}

func TestViewsBackward(t *testing.T) {
	s := New(mixed)

	check := func(name string, forward, backward []any) {
		t.Helper()
		slices.Reverse(backward)
		if diff := cmp.Diff(forward, backward); diff != "" {
			t.Errorf("%s: Backward is not the reverse of All (-all +reversed):\n%s", name, diff)
		}
	}
	check("utf8", anys(s.UTF8().All()), anys(s.UTF8().Backward()))
	check("utf16", anys(s.UTF16().All()), anys(s.UTF16().Backward()))
	check("scalars", anys(s.UnicodeScalars().All()), anys(s.UnicodeScalars().Backward()))
	check("characters", anys(s.Characters().All()), anys(s.Characters().Backward()))
}

func anys[T any](seq iter.Seq[T]) []any {
	var out []any
	for v := range seq {
		out = append(out, v)
	}
	return out
}

func TestViewsStopEarly(t *testing.T) {
	s := New(mixed)
	n := 0
	for range s.Characters().All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d characters, want 2", n)
	}
}

func TestViewAt(t *testing.T) {
	s := New(mixed)

	if got := s.UTF8().At(idx(1)); got != 0xF0 {
		t.Errorf("UTF8 At(1) = %#x, want 0xf0", got)
	}
	if got := s.UTF16().At(idx(1)); got != 0xD83D {
		t.Errorf("UTF16 At(1) = %#x, want 0xd83d", got)
	}
	if got := s.UTF16().At(Index{offset: 1, transcoded: 1}); got != 0xDE00 {
		t.Errorf("UTF16 At(1+1) = %#x, want 0xde00", got)
	}
	if got := s.UnicodeScalars().At(idx(6)); got != 0x301 {
		t.Errorf("scalar At(6) = %U, want U+0301", got)
	}
	if got := s.Characters().At(idx(5)); got != "e\u0301" {
		t.Errorf("character At(5) = %q, want %q", got, "e\u0301")
	}
	if got := s.At(idx(8)); got != "\r\n" {
		t.Errorf("At(8) = %q, want %q", got, "\r\n")
	}

	expectBoundsPanic(t, "UTF8 At(end)", func() { s.UTF8().At(idx(11)) })
	expectBoundsPanic(t, "UTF16 At(end)", func() { s.UTF16().At(idx(11)) })
	expectBoundsPanic(t, "scalar At(end)", func() { s.UnicodeScalars().At(idx(11)) })
	expectBoundsPanic(t, "character At(end)", func() { s.Characters().At(idx(11)) })
	expectBoundsPanic(t, "At past end", func() { s.At(idx(12)) })
}

func TestViewSlice(t *testing.T) {
	s := New(mixed)

	u16 := s.UTF16().Slice(Range{Lower: idx(1), Upper: idx(5)})
	if diff := cmp.Diff([]uint16{0xD83D, 0xDE00}, slices.Collect(u16.All())); diff != "" {
		t.Errorf("UTF16 slice mismatch (-want +got):\n%s", diff)
	}
	if got := u16.Count(); got != 2 {
		t.Errorf("UTF16 slice Count() = %d, want 2", got)
	}

	u8 := s.UTF8().Slice(Range{Lower: idx(2), Upper: idx(3)})
	if diff := cmp.Diff([]byte{0x9F}, slices.Collect(u8.All())); diff != "" {
		t.Errorf("UTF8 slice mismatch (-want +got):\n%s", diff)
	}

	chars := s.Characters().Slice(Range{Lower: idx(5), Upper: idx(10)})
	if diff := cmp.Diff([]Character{"e\u0301", "\r\n"}, slices.Collect(chars.All())); diff != "" {
		t.Errorf("character slice mismatch (-want +got):\n%s", diff)
	}
	if chars.IsEmpty() {
		t.Error("character slice should not be empty")
	}

	empty := s.UnicodeScalars().Slice(Range{Lower: idx(5), Upper: idx(5)})
	if !empty.IsEmpty() || empty.Count() != 0 {
		t.Error("empty scalar slice should have no elements")
	}

	expectBoundsPanic(t, "UTF16 slice splits pair", func() {
		s.UTF16().Slice(Range{Lower: Index{offset: 1, transcoded: 1}, Upper: idx(5)})
	})
	expectBoundsPanic(t, "scalar slice mid-scalar", func() {
		s.UnicodeScalars().Slice(Range{Lower: idx(2), Upper: idx(5)})
	})
	expectBoundsPanic(t, "slice outside view", func() {
		u16.Slice(Range{Lower: idx(0), Upper: idx(5)})
	})
}

func TestViewOfSubstring(t *testing.T) {
	sub := New(mixed).Slice(Range{Lower: idx(5), Upper: idx(11)})
	if diff := cmp.Diff([]rune("e\u0301\r\nx"), slices.Collect(sub.UnicodeScalars().All())); diff != "" {
		t.Errorf("scalars mismatch (-want +got):\n%s", diff)
	}
	if got := sub.UTF8().Count(); got != 6 {
		t.Errorf("UTF8 Count() = %d, want 6", got)
	}
	if got := sub.UTF16().Count(); got != 5 {
		t.Errorf("UTF16 Count() = %d, want 5", got)
	}
}
