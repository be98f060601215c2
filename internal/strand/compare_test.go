package strand

import (
	"hash/maphash"
	"testing"
	"testing/quick"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Text
		want bool
	}{
		{"identical", New("abc"), New("abc"), true},
		{"different", New("abc"), New("abd"), false},
		{"canonical", New("\u00e9"), New("e\u0301"), true},
		{"window vs owner", New("xabcx").Slice(Range{Lower: idx(1), Upper: idx(4)}), New("abc"), true},
		{"windows of different texts", New("--abc").Slice(RangeFrom{Lower: idx(2)}), New("abc--").Slice(RangeUpTo{Upper: idx(3)}), true},
		{"empty", New(""), New("abc").Slice(Range{Lower: idx(1), Upper: idx(1)}), true},
		{"prefix", New("ab"), New("abc"), false},
	}

	seed := maphash.MakeSeed()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal reversed = %v, want %v", got, tt.want)
			}
			if got := Compare(tt.a, tt.b) == 0; got != tt.want {
				t.Errorf("Compare == 0 is %v, want %v", got, tt.want)
			}
			if tt.want && Hash(seed, tt.a) != Hash(seed, tt.b) {
				t.Error("equal texts should hash equally")
			}
		})
	}
}

func TestEqualSameWindow(t *testing.T) {
	s := New("abc")
	a := s.Slice(UnboundedRange{})
	b := a.Clone()
	if !a.Equal(b) || a.Compare(b) != 0 {
		t.Error("texts over the same window should be equal")
	}
}

func TestCompareOrdering(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"a", "b", -1},
		{"b", "a", 1},
		{"ab", "abc", -1},
		{"", "a", -1},
		{"z", "\u00e9", -1},
		{"e\u0301", "\u00e9", 0},
		{"\U0001F600", "�", 1},
	}

	for _, tt := range tests {
		if got := Compare(New(tt.a), New(tt.b)); got != tt.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestEqualityClosure(t *testing.T) {
	seed := maphash.MakeSeed()
	f := func(rs []rune, cut uint8) bool {
		s := FromRunes(rs)
		n := s.UnicodeScalars().Count()
		k := 0
		if n > 0 {
			k = int(cut) % (n + 1)
		}
		at := s.UnicodeScalars().IndexOffsetBy(s.StartIndex(), k)

		left := s.Slice(RangeUpTo{Upper: at})
		copied := left.Materialize()
		return Equal(left, copied) &&
			Equal(copied, left) &&
			Compare(left, copied) == 0 &&
			Hash(seed, left) == Hash(seed, copied)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
