package notes

import (
	"context"
	"log/slog"

	"github.com/Veraticus/soapbox/internal/model"
)

// Desk holds the single current session of an interactive user.
type Desk struct {
	manager *Manager
	current *Session
}

// NewDesk creates a desk with no current session.
func NewDesk(manager *Manager) *Desk {
	return &Desk{manager: manager}
}

// Manager returns the manager behind the desk.
func (d *Desk) Manager() *Manager {
	return d.manager
}

// Current returns the current session, or nil.
func (d *Desk) Current() *Session {
	if !d.current.Active() {
		return nil
	}
	return d.current
}

// Start opens a new session and makes it current. An unsaved session that was
// current is discarded with a warning. On failure the current session is kept.
func (d *Desk) Start(ctx context.Context, patientID, doctorID string) (*Session, error) {
	session, err := d.manager.StartNewNote(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}

	if prev := d.Current(); prev != nil {
		slog.Warn("Discarding unsaved SOAP note",
			"patient_id", prev.note.PatientID,
			"doctor_id", prev.note.DoctorID,
			"entries", len(prev.note.Transcript))
		_ = d.manager.Discard(prev)
	}

	d.current = session
	return session, nil
}

// Dictate adds dictation to the current session.
func (d *Desk) Dictate(text string, speaker model.Speaker, section string) (model.Section, error) {
	return d.manager.AddDictation(d.Current(), text, speaker, section)
}

// Manual applies typed section values to the current session.
func (d *Desk) Manual(speaker model.Speaker, subjective, objective, assessment, plan string) error {
	return d.manager.ManualDictation(d.Current(), speaker, subjective, objective, assessment, plan)
}

// Save persists the current session and clears it on success.
func (d *Desk) Save(ctx context.Context) (*model.Note, error) {
	saved, err := d.manager.SaveNote(ctx, d.Current())
	if err != nil {
		return nil, err
	}
	d.current = nil
	return saved, nil
}

// Discard drops the current session without saving.
func (d *Desk) Discard() error {
	err := d.manager.Discard(d.Current())
	d.current = nil
	return err
}

// Summary renders the current session's note.
func (d *Desk) Summary() string {
	return d.manager.Summary(d.Current())
}
