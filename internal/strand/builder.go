package strand

import (
	"io"
	"unicode/utf8"

	"github.com/dshills/strand/internal/strand/codec"
	"github.com/dshills/strand/internal/strand/storage"
)

// Builder provides efficient incremental construction of a String.
// Ill-formed UTF-8 written to it is repaired when Build is called.
type Builder struct {
	buf []byte
}

// NewBuilder creates a Builder with room for n bytes.
func NewBuilder(n int) *Builder {
	return &Builder{buf: make([]byte, 0, n)}
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteString appends a string to the builder.
func (b *Builder) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteRune appends a single rune.
func (b *Builder) WriteRune(r rune) (int, error) {
	n := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - n, nil
}

// WriteCharacter appends a character.
func (b *Builder) WriteCharacter(c Character) {
	b.buf = append(b.buf, c...)
}

// WriteText appends the content of t.
func (b *Builder) WriteText(t Text) {
	b.buf = append(b.buf, t.window().bytes()...)
}

// ReadFrom implements io.ReaderFrom.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if len(b.buf) == cap(b.buf) {
			b.buf = append(b.buf, 0)[:len(b.buf)]
		}
		n, err := r.Read(b.buf[len(b.buf):cap(b.buf)])
		b.buf = b.buf[:len(b.buf)+n]
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Len returns the total number of bytes written.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset clears the builder for reuse.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Build returns a String holding everything written. The Builder is reset
// and may be reused.
func (b *Builder) Build() *String {
	data := codec.Repair(b.buf)
	b.buf = nil
	return newString(storage.New(data))
}
