// Package compare implements the content comparators used for files whose
// metadata already matched.
package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/sdejongh/dircompare/pkg/pool"
	"github.com/sdejongh/dircompare/pkg/ratelimit"
	"github.com/sdejongh/dircompare/pkg/storage"
)

// FileRef identifies one side of a content comparison
type FileRef struct {
	Path string
	Size int64
}

// Resources are the shared primitives a content comparison draws from.
// One instance is shared by every comparison of a session.
type Resources struct {
	Backend storage.Backend
	Buffers *pool.BufferPool
	// Files bounds open handles in async mode
	Files *pool.FileDescriptorQueue
	// Limiter throttles reads, nil means unlimited
	Limiter *ratelimit.Limiter
}

// FileComparator compares the content of two files.
// Both forms share one algorithm and differ only in how they acquire handles.
type FileComparator interface {
	// CompareSync opens both files directly
	CompareSync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error)
	// CompareAsync opens both files through the file descriptor queue.
	// It is safe for concurrent use as long as the caller admits no more
	// comparisons than the buffer pool holds.
	CompareAsync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error)
	// Name returns the comparator name
	Name() string
}

// handles is one acquired pair of readers plus their buffers
type handles struct {
	r1, r2 io.Reader
	pair   *pool.BufferPair
	close  []func() error
	res    *Resources
}

// acquire allocates a buffer pair and opens both files.
// Everything acquired is released by release, also when acquire fails halfway.
func (res *Resources) acquire(ctx context.Context, f1, f2 FileRef, queued bool) (*handles, error) {
	pair, err := res.Buffers.Allocate()
	if err != nil {
		return nil, err
	}
	h := &handles{pair: pair, res: res}

	open := func(path string) (io.Reader, error) {
		var f storage.File
		var err error
		if queued {
			f, err = res.Files.Open(ctx, path)
			if err == nil {
				h.close = append(h.close, func() error { return res.Files.Close(f) })
			}
		} else {
			f, err = res.Backend.Open(ctx, path)
			if err == nil {
				h.close = append(h.close, f.Close)
			}
		}
		if err != nil {
			return nil, err
		}
		return ratelimit.NewReader(ctx, f, res.Limiter), nil
	}

	if h.r1, err = open(f1.Path); err != nil {
		h.release()
		return nil, err
	}
	if h.r2, err = open(f2.Path); err != nil {
		h.release()
		return nil, err
	}
	return h, nil
}

// release closes every opened file and frees the buffer pair
func (h *handles) release() error {
	var first error
	for _, c := range h.close {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	h.res.Buffers.Free(h.pair)
	return first
}

// run acquires resources, runs fn and releases everything before returning
func run(ctx context.Context, f1, f2 FileRef, res *Resources, queued bool,
	fn func(h *handles) (bool, error)) (same bool, err error) {
	h, err := res.acquire(ctx, f1, f2, queued)
	if err != nil {
		return false, err
	}
	defer func() {
		if cerr := h.release(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close compared file: %w", cerr)
		}
	}()
	return fn(h)
}

// readChunk fills buf as far as the reader allows.
// A short count means the end of the file was reached.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}
