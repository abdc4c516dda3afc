// Package speech provides utterance sources for dictation.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/soapbox/internal/cli"
	"github.com/Veraticus/soapbox/internal/common"
)

// DefaultTimeout is how long Listen waits for an utterance before reporting no speech.
const DefaultTimeout = 5 * time.Second

// LineSource treats each line of text input as one recognized utterance.
type LineSource struct {
	reader  *cli.NonBlockingReader
	timeout time.Duration
}

// NewLineSource creates a source over r. A timeout of zero or less waits indefinitely.
func NewLineSource(r io.Reader, timeout time.Duration) *LineSource {
	return NewLineSourceFromReader(cli.NewNonBlockingReader(r), timeout)
}

// NewLineSourceFromReader creates a source that shares an existing line reader.
func NewLineSourceFromReader(reader *cli.NonBlockingReader, timeout time.Duration) *LineSource {
	return &LineSource{reader: reader, timeout: timeout}
}

// Listen returns the next non-empty line. It returns common.ErrNoSpeech when the
// timeout passes or the line is blank, and common.ErrSourceClosed at end of input.
func (s *LineSource) Listen(ctx context.Context) (string, error) {
	listenCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		listenCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.reader.ReadLine(listenCtx)
	switch {
	case errors.Is(err, cli.ErrInputCancelled):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Debug("No speech before timeout", "timeout", s.timeout)
		return "", common.ErrNoSpeech
	case errors.Is(err, io.EOF):
		return "", common.ErrSourceClosed
	case err != nil:
		return "", fmt.Errorf("failed to read utterance: %w", err)
	}

	if text == "" {
		return "", common.ErrNoSpeech
	}
	return text, nil
}
