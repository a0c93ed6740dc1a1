package mem

import "sync"

// BufferPool hands out byte slices of at least the requested length and
// takes them back once the last Buffer reference is dropped.
type BufferPool interface {
	// Get returns a slice of the given length.
	Get(length int) *[]byte
	// Put returns a slice to the pool.
	Put(*[]byte)
}

var defaultPool BufferPool = &simpleBufferPool{}

// DefaultBufferPool returns the shared process-wide pool.
func DefaultBufferPool() BufferPool {
	return defaultPool
}

// simpleBufferPool recycles slices through a single sync.Pool, reallocating
// when a recycled slice is too small for the request.
type simpleBufferPool struct {
	pool sync.Pool
}

func (p *simpleBufferPool) Get(size int) *[]byte {
	bs, ok := p.pool.Get().(*[]byte)
	if ok && cap(*bs) >= size {
		*bs = (*bs)[:size]
		return bs
	}
	b := make([]byte, size)
	return &b
}

func (p *simpleBufferPool) Put(buf *[]byte) {
	p.pool.Put(buf)
}

// NopBufferPool never recycles; every Get allocates and Put discards.
// Useful in tests to keep buffer contents stable after free.
type NopBufferPool struct{}

func (NopBufferPool) Get(length int) *[]byte {
	b := make([]byte, length)
	return &b
}

func (NopBufferPool) Put(*[]byte) {}
