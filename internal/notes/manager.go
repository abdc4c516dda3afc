// Package notes manages the lifecycle of SOAP notes from dictation to storage.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/service"
)

// Router decides which section a piece of dictation belongs to and appends it there.
type Router interface {
	Categorize(text string, note *model.Note, explicit string) model.Section
}

// Manager coordinates identity lookups, categorization and note persistence.
type Manager struct {
	identity service.IdentityStore
	notes    service.NoteStore
	router   Router
	now      func() time.Time
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock overrides the time source used to stamp notes and entries.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a note manager.
func NewManager(identity service.IdentityStore, notes service.NoteStore, router Router, opts ...Option) *Manager {
	m := &Manager{
		identity: identity,
		notes:    notes,
		router:   router,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddPatient registers a patient. Duplicate IDs fail with common.ErrDuplicateEntry.
func (m *Manager) AddPatient(ctx context.Context, patientID, name, dateOfBirth, contact string) (*model.Patient, error) {
	patient := &model.Patient{
		PatientID:   patientID,
		Name:        name,
		DateOfBirth: dateOfBirth,
		Contact:     contact,
		CreatedAt:   m.now(),
	}
	if err := m.identity.AddPatient(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to add patient %s: %w", patientID, err)
	}
	slog.Info("Added patient", "patient_id", patientID)
	return patient, nil
}

// AddDoctor registers a doctor. Duplicate IDs fail with common.ErrDuplicateEntry.
func (m *Manager) AddDoctor(ctx context.Context, doctorID, name, specialty, contact string) (*model.Doctor, error) {
	doctor := &model.Doctor{
		DoctorID:  doctorID,
		Name:      name,
		Specialty: specialty,
		Contact:   contact,
		CreatedAt: m.now(),
	}
	if err := m.identity.AddDoctor(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to add doctor %s: %w", doctorID, err)
	}
	slog.Info("Added doctor", "doctor_id", doctorID)
	return doctor, nil
}

// NextPatientID returns the ID the next registered patient should use.
func (m *Manager) NextPatientID(ctx context.Context) (string, error) {
	id, err := m.identity.NextPatientID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate patient ID: %w", err)
	}
	return id, nil
}

// StartNewNote opens a session for a patient and doctor that both exist.
func (m *Manager) StartNewNote(ctx context.Context, patientID, doctorID string) (*Session, error) {
	patient, err := m.identity.GetPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up patient %s: %w", patientID, err)
	}
	if patient == nil {
		return nil, common.NewUserError(fmt.Sprintf("Patient %s not found", patientID), common.ErrNotFound)
	}

	doctor, err := m.identity.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up doctor %s: %w", doctorID, err)
	}
	if doctor == nil {
		return nil, common.NewUserError(fmt.Sprintf("Doctor %s not found", doctorID), common.ErrNotFound)
	}

	slog.Info("Started SOAP note", "patient", patient.Name, "doctor", doctor.Name)
	return newSession(model.NewNote(patientID, doctorID, m.now())), nil
}

// AddDictation records text in the transcript and routes it to a section.
// An empty section means the router picks one from the text.
func (m *Manager) AddDictation(session *Session, text string, speaker model.Speaker, section string) (model.Section, error) {
	if err := session.active(); err != nil {
		return "", err
	}

	// The transcript keeps the requested section as given, even when it names no section.
	session.note.AddEntry(model.DictationEntry{
		Timestamp: m.now(),
		Speaker:   speaker,
		Text:      text,
		Section:   model.Section(section),
	})

	routed := m.router.Categorize(text, session.note, section)
	slog.Debug("Routed dictation", "section", routed, "speaker", speaker)
	return routed, nil
}

// ManualDictation sets sections from typed input. Each non-empty argument is
// logged in the transcript under speaker and replaces its section.
func (m *Manager) ManualDictation(session *Session, speaker model.Speaker, subjective, objective, assessment, plan string) error {
	if err := session.active(); err != nil {
		return err
	}

	values := map[model.Section]string{
		model.SectionSubjective: subjective,
		model.SectionObjective:  objective,
		model.SectionAssessment: assessment,
		model.SectionPlan:       plan,
	}
	for _, section := range model.Sections() {
		text := values[section]
		if text == "" {
			continue
		}
		session.note.AddEntry(model.DictationEntry{
			Timestamp: m.now(),
			Speaker:   speaker,
			Text:      text,
			Section:   section,
		})
		session.note.SetField(section, text)
	}
	return nil
}

// SaveNote persists a trimmed copy of the session's note and closes the session.
// If the store fails the session stays open so the caller can retry.
func (m *Manager) SaveNote(ctx context.Context, session *Session) (*model.Note, error) {
	if err := session.active(); err != nil {
		return nil, err
	}

	saved := session.note.Cleaned()
	if err := m.notes.SaveNote(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save SOAP note: %w", err)
	}

	session.note.ID = saved.ID
	session.closed = true
	slog.Info("Saved SOAP note", "id", saved.ID, "patient_id", saved.PatientID)
	return saved, nil
}

// Discard closes a session without saving it.
func (m *Manager) Discard(session *Session) error {
	if err := session.active(); err != nil {
		return err
	}
	session.closed = true
	return nil
}

// Summary renders the session's note for display. Closed sessions can still be summarized.
func (m *Manager) Summary(session *Session) string {
	if session == nil {
		return "No active SOAP note"
	}
	return FormatSummary(session.note)
}

// GetPatientNotes returns up to limit notes for a patient, newest first.
func (m *Manager) GetPatientNotes(ctx context.Context, patientID string, limit int) ([]model.Note, error) {
	notes, err := m.notes.GetPatientNotes(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notes for %s: %w", patientID, err)
	}
	return notes, nil
}

// SearchNotes finds notes whose section text contains query. Field is a section name or "all".
func (m *Manager) SearchNotes(ctx context.Context, query, field string) ([]model.Note, error) {
	notes, err := m.notes.SearchNotes(ctx, query, field)
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, nil
}
