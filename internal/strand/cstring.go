package strand

import (
	"sync"
	"unsafe"

	"github.com/dshills/strand/internal/strand/codec"
)

// maxPooledCBuffer is the largest buffer returned to the pool.
const maxPooledCBuffer = 64 << 10

// cbuf is a pooled scratch buffer. gen is bumped every time the buffer is
// handed back, which expires every CBuffer issued for it.
type cbuf struct {
	data []byte
	gen  uint64
}

var cbufPool = sync.Pool{
	New: func() any {
		return &cbuf{data: make([]byte, 0, 256)}
	},
}

func getCBuf() *cbuf {
	b := cbufPool.Get().(*cbuf)
	b.data = b.data[:0]
	return b
}

func putCBuf(b *cbuf) {
	b.gen++
	if cap(b.data) > maxPooledCBuffer {
		return
	}
	clear(b.data)
	cbufPool.Put(b)
}

// CBuffer is a NUL-terminated encoded copy of a text, valid only during the
// callback it is passed to. Every accessor panics with ErrCBufferExpired
// once the callback has returned.
type CBuffer struct {
	b   *cbuf
	gen uint64
	enc codec.Encoding
	n   int
}

func (c CBuffer) check() {
	if c.b == nil || c.b.gen != c.gen {
		panic(ErrCBufferExpired)
	}
}

// Bytes returns the encoded content without the terminator.
func (c CBuffer) Bytes() []byte {
	c.check()
	return c.b.data[:c.n:c.n]
}

// BytesWithTerminator returns the encoded content followed by the
// terminator, which is one code unit of zero bytes.
func (c CBuffer) BytesWithTerminator() []byte {
	c.check()
	return c.b.data
}

// Pointer returns the address of the first byte, suitable for passing to C.
func (c CBuffer) Pointer() unsafe.Pointer {
	c.check()
	return unsafe.Pointer(unsafe.SliceData(c.b.data))
}

// Len returns the number of bytes before the terminator.
func (c CBuffer) Len() int {
	c.check()
	return c.n
}

// Encoding returns the encoding of the buffer.
func (c CBuffer) Encoding() codec.Encoding {
	return c.enc
}

// WithCString encodes t as enc, appends a terminator of one zero code unit
// and calls fn with the result. The buffer holds no byte order mark:
// codec.UTF16 is written as big-endian units and the CBuffer reports
// codec.UTF16BE. The buffer is recycled when fn returns or panics. An error
// is returned without calling fn if t contains a scalar enc cannot
// represent.
func WithCString[R any](t Text, enc codec.Encoding, fn func(CBuffer) (R, error)) (R, error) {
	src := t.window().bytes()
	enc = enc.WithoutBOM()

	b := getCBuf()
	defer putCBuf(b)

	if enc == codec.UTF8 {
		b.data = append(b.data, src...)
	} else {
		out, err := codec.Encode(src, enc)
		if err != nil {
			var zero R
			return zero, err
		}
		b.data = append(b.data, out...)
	}
	n := len(b.data)
	for range enc.UnitWidth() {
		b.data = append(b.data, 0)
	}

	return fn(CBuffer{b: b, gen: b.gen, enc: enc, n: n})
}
