package pool

import (
	"context"
	"fmt"
	"sync"

	"github.com/sdejongh/dircompare/pkg/storage"
	"golang.org/x/sync/semaphore"
)

// OpenFunc opens a file for reading
type OpenFunc func(ctx context.Context, path string) (storage.File, error)

// FileDescriptorQueue admits at most maxOpen concurrently open files.
// Open requests beyond the limit wait and are served in FIFO order as handles are closed.
type FileDescriptorQueue struct {
	maxOpen int
	open    OpenFunc
	sem     *semaphore.Weighted

	mu      sync.Mutex
	current int
	peak    int
}

// NewFileDescriptorQueue creates a queue that opens files with open
func NewFileDescriptorQueue(maxOpen int, open OpenFunc) *FileDescriptorQueue {
	if maxOpen < 1 {
		maxOpen = 1
	}
	return &FileDescriptorQueue{
		maxOpen: maxOpen,
		open:    open,
		sem:     semaphore.NewWeighted(int64(maxOpen)),
	}
}

// Open waits for a free handle slot and opens path.
// The returned file must be released with Close.
func (q *FileDescriptorQueue) Open(ctx context.Context, path string) (storage.File, error) {
	if err := q.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for file handle: %w", err)
	}

	f, err := q.open(ctx, path)
	if err != nil {
		q.sem.Release(1)
		return nil, err
	}

	q.mu.Lock()
	q.current++
	if q.current > q.peak {
		q.peak = q.current
	}
	q.mu.Unlock()

	return f, nil
}

// Close closes f and hands its slot to the next waiting request
func (q *FileDescriptorQueue) Close(f storage.File) error {
	err := f.Close()

	q.mu.Lock()
	q.current--
	q.mu.Unlock()

	q.sem.Release(1)
	return err
}

// MaxOpen returns the configured handle limit
func (q *FileDescriptorQueue) MaxOpen() int {
	return q.maxOpen
}

// Current returns the number of handles currently open
func (q *FileDescriptorQueue) Current() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current
}

// Peak returns the highest number of simultaneously open handles observed
func (q *FileDescriptorQueue) Peak() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.peak
}
