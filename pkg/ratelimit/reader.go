// Package ratelimit throttles content reads with a token bucket shared by every
// file opened during one comparison.
package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// minBurst keeps small limits from degrading into one-byte reads
const minBurst = 64 * 1024

// Limiter is a token bucket measured in bytes
type Limiter struct {
	bytesPerSecond int64
	burst          int64

	mu       sync.Mutex
	tokens   int64
	lastFill time.Time
	consumed int64
}

// NewLimiter returns nil when bytesPerSecond is not positive, which disables limiting
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	burst := max(bytesPerSecond, minBurst)
	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		burst:          burst,
		tokens:         burst,
		lastFill:       time.Now(),
	}
}

// BytesPerSecond returns the configured rate
func (l *Limiter) BytesPerSecond() int64 {
	return l.bytesPerSecond
}

// Consumed returns the number of bytes read through the limiter so far
func (l *Limiter) Consumed() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.consumed
}

// wait blocks until n tokens are available or ctx is done
func (l *Limiter) wait(ctx context.Context, n int64) error {
	for {
		l.mu.Lock()
		l.refill(time.Now())
		if l.tokens >= n {
			l.mu.Unlock()
			return nil
		}
		delay := time.Duration(float64(n-l.tokens) / float64(l.bytesPerSecond) * float64(time.Second))
		l.mu.Unlock()

		timer := time.NewTimer(max(delay, time.Millisecond))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refill must be called with mu held
func (l *Limiter) refill(now time.Time) {
	add := int64(now.Sub(l.lastFill).Seconds() * float64(l.bytesPerSecond))
	if add <= 0 {
		return
	}
	l.tokens = min(l.tokens+add, l.burst)
	l.lastFill = now
}

func (l *Limiter) take(n int64) {
	l.mu.Lock()
	l.tokens = max(l.tokens-n, 0)
	l.consumed += n
	l.mu.Unlock()
}

// Reader reads through a Limiter
type Reader struct {
	ctx     context.Context
	reader  io.Reader
	limiter *Limiter
}

// NewReader wraps r. A nil limiter returns r unchanged.
func NewReader(ctx context.Context, r io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return r
	}
	return &Reader{
		ctx:     ctx,
		reader:  r,
		limiter: limiter,
	}
}

// Read implements io.Reader. Reads larger than the burst are shortened.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return r.reader.Read(p)
	}
	if int64(len(p)) > r.limiter.burst {
		p = p[:r.limiter.burst]
	}
	if err := r.limiter.wait(r.ctx, int64(len(p))); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p)
	if n > 0 {
		r.limiter.take(int64(n))
	}
	return n, err
}
