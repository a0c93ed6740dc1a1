// Package mem provides reference-counted byte buffers used for message
// payloads crossing the transport boundary.
package mem

import (
	"sync"
	"sync/atomic"
)

// bufferPoolingThreshold: below this size pooling costs more than it saves,
// so plain slices are used.
const bufferPoolingThreshold = 1 << 10

var (
	bufferObjectPool = sync.Pool{New: func() any { return new(buffer) }}
	refObjectPool    = sync.Pool{New: func() any { return new(atomic.Int32) }}
)

// Buffer is an immutable, reference-counted view of a byte slice. Ref and
// Free must balance; using a freed buffer panics.
type Buffer interface {
	// ReadOnlyData returns the underlying byte slice. It must not be
	// mutated.
	ReadOnlyData() []byte
	// Ref increases the reference counter.
	Ref()
	// Free decrements the reference counter and returns the underlying
	// slice to its pool when the counter reaches zero.
	Free()
	// Len returns the buffer's size.
	Len() int
}

// IsBelowBufferPoolingThreshold reports whether size is too small for
// pooled allocation to pay off.
func IsBelowBufferPoolingThreshold(size int) bool {
	return size <= bufferPoolingThreshold
}

// NewBuffer wraps data with an initial reference count of one. When the
// last reference is dropped the slice goes back to pool.
func NewBuffer(data *[]byte, pool BufferPool) Buffer {
	if pool == nil || IsBelowBufferPoolingThreshold(cap(*data)) {
		return SliceBuffer(*data)
	}
	b := bufferObjectPool.Get().(*buffer)
	b.originData = data
	b.data = *data
	b.pool = pool
	b.refs = refObjectPool.Get().(*atomic.Int32)
	b.refs.Add(1)
	return b
}

// Copy returns a Buffer holding a copy of data with a reference count of
// one.
func Copy(data []byte, pool BufferPool) Buffer {
	if IsBelowBufferPoolingThreshold(len(data)) {
		buf := make(SliceBuffer, len(data))
		copy(buf, data)
		return buf
	}
	buf := pool.Get(len(data))
	copy(*buf, data)
	return NewBuffer(buf, pool)
}

type buffer struct {
	originData *[]byte
	data       []byte
	refs       *atomic.Int32
	pool       BufferPool
}

func (b *buffer) ReadOnlyData() []byte {
	if b.refs == nil {
		panic("mem: cannot read freed buffer")
	}
	return b.data
}

func (b *buffer) Ref() {
	if b.refs == nil {
		panic("mem: cannot ref freed buffer")
	}
	b.refs.Add(1)
}

func (b *buffer) Free() {
	if b.refs == nil {
		panic("mem: cannot free freed buffer")
	}
	refs := b.refs.Add(-1)
	switch {
	case refs > 0:
	case refs == 0:
		if b.pool != nil {
			b.pool.Put(b.originData)
		}
		refObjectPool.Put(b.refs)
		b.originData = nil
		b.data = nil
		b.refs = nil
		b.pool = nil
		bufferObjectPool.Put(b)
	default:
		panic("mem: cannot free freed buffer")
	}
}

func (b *buffer) Len() int {
	return len(b.ReadOnlyData())
}

// SliceBuffer is a Buffer backed directly by a byte slice, used when the
// data is too small to be worth pooling. Ref and Free are no-ops.
type SliceBuffer []byte

func (s SliceBuffer) ReadOnlyData() []byte { return s }
func (s SliceBuffer) Ref()                 {}
func (s SliceBuffer) Free()                {}
func (s SliceBuffer) Len() int             { return len(s) }

type emptyBuffer struct{}

func (emptyBuffer) ReadOnlyData() []byte { return nil }
func (emptyBuffer) Ref()                 {}
func (emptyBuffer) Free()                {}
func (emptyBuffer) Len() int             { return 0 }
