package notes

import (
	"errors"

	"github.com/Veraticus/soapbox/internal/model"
)

// ErrNoActiveNote is returned when an operation needs an open note session.
var ErrNoActiveNote = errors.New("no active SOAP note")

// Session is one note being dictated. It is owned by a single caller and is
// not safe for concurrent use.
type Session struct {
	note   *model.Note
	closed bool
}

func newSession(note *model.Note) *Session {
	return &Session{note: note}
}

// Note returns the note under construction. Callers must not modify it directly.
func (s *Session) Note() *model.Note {
	if s == nil {
		return nil
	}
	return s.note
}

// Active reports whether the session still accepts dictation.
func (s *Session) Active() bool {
	return s != nil && !s.closed
}

func (s *Session) active() error {
	if !s.Active() {
		return ErrNoActiveNote
	}
	return nil
}
