package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// LineOptions controls line normalization
type LineOptions struct {
	// IgnoreLineEnding treats \n, \r\n and \r line terminators as equal
	IgnoreLineEnding bool `yaml:"ignore_line_ending"`
	// IgnoreWhiteSpaces trims leading and trailing white space of each line
	IgnoreWhiteSpaces bool `yaml:"ignore_white_spaces"`
	// IgnoreAllWhiteSpaces removes every white space character of each line
	IgnoreAllWhiteSpaces bool `yaml:"ignore_all_white_spaces"`
	// IgnoreEmptyLines drops lines that are empty after normalization
	IgnoreEmptyLines bool `yaml:"ignore_empty_lines"`
	// BufferSize caps the read size, 0 uses the whole pool buffer
	BufferSize int `yaml:"buffer_size"`
}

// LineComparator compares files line by line.
// Lines split across read boundaries are reassembled before comparison,
// so the verdict does not depend on the buffer size.
type LineComparator struct {
	opts LineOptions
}

// NewLineComparator creates a line based comparator
func NewLineComparator(opts LineOptions) *LineComparator {
	return &LineComparator{opts: opts}
}

// Options returns the normalization options
func (c *LineComparator) Options() LineOptions {
	return c.opts
}

// CompareSync implements FileComparator
func (c *LineComparator) CompareSync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error) {
	return run(ctx, f1, f2, res, false, func(h *handles) (bool, error) {
		return c.compare(ctx, h.r1, h.r2, h.pair.Buf1, h.pair.Buf2)
	})
}

// CompareAsync implements FileComparator
func (c *LineComparator) CompareAsync(ctx context.Context, f1, f2 FileRef, res *Resources) (bool, error) {
	return run(ctx, f1, f2, res, true, func(h *handles) (bool, error) {
		return c.compare(ctx, h.r1, h.r2, h.pair.Buf1, h.pair.Buf2)
	})
}

// Name returns the comparator name
func (c *LineComparator) Name() string {
	return "line-based"
}

func (c *LineComparator) bufferSize(available int) int {
	if c.opts.BufferSize > 0 && c.opts.BufferSize < available {
		return c.opts.BufferSize
	}
	return available
}

func (c *LineComparator) compare(ctx context.Context, r1, r2 io.Reader, buf1, buf2 []byte) (bool, error) {
	size := c.bufferSize(len(buf1))
	left := &lineSource{reader: r1, buf: buf1[:size], opts: &c.opts}
	right := &lineSource{reader: r2, buf: buf2[:size], opts: &c.opts}

	// lines read from one side that the other side has not caught up with yet
	var rest1, rest2 []string

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if !left.eof {
			lines, err := left.next()
			if err != nil {
				return false, fmt.Errorf("failed to read left file: %w", err)
			}
			rest1 = append(rest1, lines...)
		}
		if !right.eof {
			lines, err := right.next()
			if err != nil {
				return false, fmt.Errorf("failed to read right file: %w", err)
			}
			rest2 = append(rest2, lines...)
		}

		n := min(len(rest1), len(rest2))
		for i := 0; i < n; i++ {
			if rest1[i] != rest2[i] {
				return false, nil
			}
		}
		rest1 = rest1[n:]
		rest2 = rest2[n:]

		switch {
		case left.eof && right.eof:
			return len(rest1) == 0 && len(rest2) == 0, nil
		case left.eof && len(rest1) == 0 && len(rest2) > 0:
			return false, nil
		case right.eof && len(rest2) == 0 && len(rest1) > 0:
			return false, nil
		}
	}
}

// lineSource turns chunks of one file into normalized complete lines
type lineSource struct {
	reader io.Reader
	buf    []byte
	opts   *LineOptions
	// fragment is the incomplete last line of the previous chunk
	fragment []byte
	eof      bool
}

// next reads one chunk and returns the lines it completed.
// The trailing fragment is held back until its terminator arrives or the file ends.
func (s *lineSource) next() ([]string, error) {
	n, err := readChunk(s.reader, s.buf)
	if err != nil {
		return nil, err
	}

	var lines []string
	if n == 0 {
		s.eof = true
		if len(s.fragment) > 0 {
			lines = s.keep(lines, string(s.fragment))
			s.fragment = nil
		}
		return lines, nil
	}

	data := append(s.fragment, s.buf[:n]...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		lines = s.keep(lines, string(data[:i+1]))
		data = data[i+1:]
	}
	s.fragment = append([]byte(nil), data...)
	return lines, nil
}

// keep normalizes line and appends it unless it is dropped as empty
func (s *lineSource) keep(lines []string, line string) []string {
	body, ending := splitLineEnding(line)
	switch {
	case s.opts.IgnoreAllWhiteSpaces:
		body = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, body)
	case s.opts.IgnoreWhiteSpaces:
		body = strings.TrimSpace(body)
	}
	if s.opts.IgnoreEmptyLines && body == "" {
		return lines
	}
	if s.opts.IgnoreLineEnding {
		ending = ""
	}
	return append(lines, body+ending)
}

// splitLineEnding separates a line from its terminator (\r\n, \n or \r)
func splitLineEnding(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"), strings.HasSuffix(line, "\r"):
		return line[:len(line)-1], line[len(line)-1:]
	default:
		return line, ""
	}
}
