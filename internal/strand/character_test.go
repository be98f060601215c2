package strand

import (
	"errors"
	"slices"
	"testing"
)

func TestNewCharacter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"ascii", "a", false},
		{"combining", "e\u0301", false},
		{"crlf", "\r\n", false},
		{"flag", "\U0001F1FA\U0001F1F8", false},
		{"family", "\U0001F468\u200d\U0001F469\u200d\U0001F467", false},
		{"empty", "", true},
		{"two", "ab", true},
		{"invalid", "\xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCharacter(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotSingleCharacter) {
					t.Errorf("err = %v, want ErrNotSingleCharacter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(c) != tt.input {
				t.Errorf("got %q, want %q", c, tt.input)
			}
		})
	}
}

func TestMustCharacterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCharacter should panic on two characters")
		}
	}()
	MustCharacter("ab")
}

func TestCharacterProperties(t *testing.T) {
	tests := []struct {
		c        Character
		ascii    bool
		value    byte
		utf16    int
		nScalars int
	}{
		{"a", true, 'a', 1, 1},
		{"\r\n", true, '\n', 2, 2},
		{"\u00e9", false, 0, 1, 1},
		{"e\u0301", false, 0, 2, 2},
		{"\U0001F600", false, 0, 2, 1},
	}

	for _, tt := range tests {
		if got := tt.c.IsASCII(); got != tt.ascii {
			t.Errorf("%q.IsASCII() = %v, want %v", tt.c, got, tt.ascii)
		}
		v, ok := tt.c.ASCIIValue()
		if ok != tt.ascii || v != tt.value {
			t.Errorf("%q.ASCIIValue() = %q, %v; want %q, %v", tt.c, v, ok, tt.value, tt.ascii)
		}
		if got := tt.c.UTF16Count(); got != tt.utf16 {
			t.Errorf("%q.UTF16Count() = %d, want %d", tt.c, got, tt.utf16)
		}
		if got := len(slices.Collect(tt.c.UnicodeScalars())); got != tt.nScalars {
			t.Errorf("%q has %d scalars, want %d", tt.c, got, tt.nScalars)
		}
	}
}

func TestCharacterEqual(t *testing.T) {
	if !Character("\u00e9").Equal("e\u0301") {
		t.Error("precomposed and decomposed forms should be equal")
	}
	if Character("e").Equal("e\u0301") {
		t.Error("base letter should not equal accented letter")
	}
}
