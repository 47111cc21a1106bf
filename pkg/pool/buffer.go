package pool

import (
	"errors"
	"sync"
)

// ErrPoolExhausted is returned when every buffer pair is in use.
// It means the caller admitted more concurrent comparisons than the pool was sized for.
var ErrPoolExhausted = errors.New("buffer pool exhausted")

// BufferPair holds one read buffer per side of a comparison
type BufferPair struct {
	Buf1 []byte
	Buf2 []byte
	busy bool
}

// BufferPool manages a fixed set of reusable buffer pairs
type BufferPool struct {
	mu         sync.Mutex
	bufferSize int
	pairs      []*BufferPair
}

// NewBufferPool pre-allocates n buffer pairs of bufferSize bytes each
func NewBufferPool(bufferSize, n int) *BufferPool {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if n < 1 {
		n = 1
	}
	pairs := make([]*BufferPair, n)
	for i := range pairs {
		pairs[i] = &BufferPair{
			Buf1: make([]byte, bufferSize),
			Buf2: make([]byte, bufferSize),
		}
	}
	return &BufferPool{
		bufferSize: bufferSize,
		pairs:      pairs,
	}
}

// Allocate returns the first free pair and marks it busy
func (p *BufferPool) Allocate() (*BufferPair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, pair := range p.pairs {
		if !pair.busy {
			pair.busy = true
			return pair, nil
		}
	}
	return nil, ErrPoolExhausted
}

// Free returns a pair to the pool
func (p *BufferPool) Free(pair *BufferPair) {
	if pair == nil {
		return
	}
	p.mu.Lock()
	pair.busy = false
	p.mu.Unlock()
}

// Size returns the number of pairs in the pool
func (p *BufferPool) Size() int {
	return len(p.pairs)
}

// BufferSize returns the size of each buffer
func (p *BufferPool) BufferSize() int {
	return p.bufferSize
}

// InUse returns the number of pairs currently allocated
func (p *BufferPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, pair := range p.pairs {
		if pair.busy {
			n++
		}
	}
	return n
}
