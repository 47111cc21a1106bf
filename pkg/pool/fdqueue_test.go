package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sdejongh/dircompare/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFile struct {
	path   string
	closed atomic.Bool
}

func (f *fakeFile) Read(p []byte) (int, error) { return 0, nil }
func (f *fakeFile) Close() error {
	f.closed.Store(true)
	return nil
}

// countingOpener tracks how many files are open at once
type countingOpener struct {
	current atomic.Int32
	peak    atomic.Int32
}

func (o *countingOpener) open(ctx context.Context, path string) (storage.File, error) {
	n := o.current.Add(1)
	for {
		p := o.peak.Load()
		if n <= p || o.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return &countedFile{fakeFile: fakeFile{path: path}, opener: o}, nil
}

type countedFile struct {
	fakeFile
	opener *countingOpener
}

func (f *countedFile) Close() error {
	f.opener.current.Add(-1)
	return f.fakeFile.Close()
}

func TestFileDescriptorQueueBound(t *testing.T) {
	opener := &countingOpener{}
	q := NewFileDescriptorQueue(4, opener.open)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := q.Open(ctx, "file")
			if !assert.NoError(t, err) {
				return
			}
			time.Sleep(time.Millisecond)
			assert.NoError(t, q.Close(f))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, opener.peak.Load(), int32(4))
	assert.LessOrEqual(t, q.Peak(), 4)
	assert.Equal(t, 0, q.Current())
	assert.Equal(t, 4, q.MaxOpen())
}

func TestFileDescriptorQueueFIFO(t *testing.T) {
	opener := &countingOpener{}
	q := NewFileDescriptorQueue(1, opener.open)
	ctx := context.Background()

	held, err := q.Open(ctx, "held")
	require.NoError(t, err)

	order := make(chan string, 3)
	var wg sync.WaitGroup
	for _, name := range []string{"first", "second", "third"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			f, err := q.Open(ctx, name)
			if !assert.NoError(t, err) {
				return
			}
			order <- name
			assert.NoError(t, q.Close(f))
		}(name)
		// let the waiter enqueue before the next one
		time.Sleep(20 * time.Millisecond)
	}

	require.NoError(t, q.Close(held))
	wg.Wait()
	close(order)

	var got []string
	for name := range order {
		got = append(got, name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestFileDescriptorQueueOpenError(t *testing.T) {
	boom := errors.New("boom")
	q := NewFileDescriptorQueue(1, func(ctx context.Context, path string) (storage.File, error) {
		return nil, boom
	})

	_, err := q.Open(context.Background(), "x")
	require.ErrorIs(t, err, boom)

	// The failed open must not leak its slot.
	q.open = func(ctx context.Context, path string) (storage.File, error) {
		return &fakeFile{path: path}, nil
	}
	f, err := q.Open(context.Background(), "y")
	require.NoError(t, err)
	assert.NoError(t, q.Close(f))
}

func TestFileDescriptorQueueCancelledWait(t *testing.T) {
	opener := &countingOpener{}
	q := NewFileDescriptorQueue(1, opener.open)

	held, err := q.Open(context.Background(), "held")
	require.NoError(t, err)
	defer q.Close(held)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = q.Open(ctx, "waiting")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
