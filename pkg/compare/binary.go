package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// BinaryComparator compares files chunk by chunk.
// Files are equal when every chunk matches and both reach end of file together.
type BinaryComparator struct{}

// NewBinaryComparator creates the default content comparator
func NewBinaryComparator() *BinaryComparator {
	return &BinaryComparator{}
}

// CompareSync implements FileComparator
func (c *BinaryComparator) CompareSync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error) {
	if f1.Size != f2.Size {
		return false, nil
	}
	return run(ctx, f1, f2, res, false, func(h *handles) (bool, error) {
		return c.compare(ctx, h.r1, h.r2, h.pair.Buf1, h.pair.Buf2)
	})
}

// CompareAsync implements FileComparator
func (c *BinaryComparator) CompareAsync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error) {
	if f1.Size != f2.Size {
		return false, nil
	}
	return run(ctx, f1, f2, res, true, func(h *handles) (bool, error) {
		return c.compare(ctx, h.r1, h.r2, h.pair.Buf1, h.pair.Buf2)
	})
}

func (c *BinaryComparator) compare(ctx context.Context, r1, r2 io.Reader, buf1, buf2 []byte) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		n1, err := readChunk(r1, buf1)
		if err != nil {
			return false, fmt.Errorf("failed to read left file: %w", err)
		}
		n2, err := readChunk(r2, buf2)
		if err != nil {
			return false, fmt.Errorf("failed to read right file: %w", err)
		}

		if n1 != n2 {
			return false, nil
		}
		if n1 == 0 {
			return true, nil
		}
		if !bytes.Equal(buf1[:n1], buf2[:n2]) {
			return false, nil
		}
	}
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
