package mem

import "io"

// BufferSlice is a collection of Buffers viewed as one logical byte stream.
type BufferSlice []Buffer

// Len returns the sum of the lengths of all buffers in the slice.
func (s BufferSlice) Len() int {
	length := 0
	for _, b := range s {
		length += b.Len()
	}
	return length
}

// Ref invokes Ref on each buffer in the slice.
func (s BufferSlice) Ref() {
	for _, b := range s {
		b.Ref()
	}
}

// Free invokes Free on each buffer in the slice.
func (s BufferSlice) Free() {
	for _, b := range s {
		b.Free()
	}
}

// CopyTo copies the slice's data into dst, stopping when dst is full or the
// data runs out, and returns the number of bytes copied.
func (s BufferSlice) CopyTo(dst []byte) int {
	off := 0
	for _, b := range s {
		off += copy(dst[off:], b.ReadOnlyData())
	}
	return off
}

// Materialize concatenates the slice's data into a single newly allocated
// byte slice.
func (s BufferSlice) Materialize() []byte {
	l := s.Len()
	if l == 0 {
		return nil
	}
	out := make([]byte, l)
	s.CopyTo(out)
	return out
}

// MaterializeToBuffer is like Materialize but returns a pooled Buffer. A
// single-buffer slice is returned as an extra reference to that buffer,
// without copying.
func (s BufferSlice) MaterializeToBuffer(pool BufferPool) Buffer {
	if len(s) == 1 {
		s[0].Ref()
		return s[0]
	}
	l := s.Len()
	if l == 0 {
		return emptyBuffer{}
	}
	buf := pool.Get(l)
	s.CopyTo(*buf)
	return NewBuffer(buf, pool)
}

type writer struct {
	buffers *BufferSlice
	pool    BufferPool
}

func (w *writer) Write(p []byte) (int, error) {
	b := Copy(p, w.pool)
	*w.buffers = append(*w.buffers, b)
	return b.Len(), nil
}

// NewWriter returns an io.Writer that appends a copy of every written chunk
// to buffers as a new pooled Buffer.
func NewWriter(buffers *BufferSlice, pool BufferPool) io.Writer {
	return &writer{buffers: buffers, pool: pool}
}
