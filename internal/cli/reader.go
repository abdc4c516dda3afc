package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

type readResult struct {
	err   error
	value string
}

// NonBlockingReader provides context-aware line reading. A single background
// goroutine owns the underlying reader, so a line that arrives after a
// canceled read is delivered to the next one.
type NonBlockingReader struct {
	reader *bufio.Reader
	lines  chan readResult
	start  sync.Once
}

// NewNonBlockingReader creates a new non-blocking reader.
func NewNonBlockingReader(reader io.Reader) *NonBlockingReader {
	if reader == nil {
		panic("reader cannot be nil")
	}

	return &NonBlockingReader{
		reader: bufio.NewReader(reader),
		lines:  make(chan readResult, 1),
	}
}

func (r *NonBlockingReader) pump() {
	for {
		value, err := r.reader.ReadString('\n')
		if value != "" {
			r.lines <- readResult{value: value}
		}
		if err != nil {
			r.lines <- readResult{err: err}
			close(r.lines)
			return
		}
	}
}

// ReadLine reads a trimmed line, respecting context cancellation.
// After the input is exhausted every call returns io.EOF.
func (r *NonBlockingReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
