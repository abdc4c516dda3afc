// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/soapbox/internal/model"
)

// IdentityStore resolves and registers patients and doctors.
type IdentityStore interface {
	// GetPatient returns nil, nil when the patient does not exist.
	GetPatient(ctx context.Context, patientID string) (*model.Patient, error)
	// GetDoctor returns nil, nil when the doctor does not exist.
	GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error)
	AddPatient(ctx context.Context, patient *model.Patient) error
	AddDoctor(ctx context.Context, doctor *model.Doctor) error
	GetPatients(ctx context.Context) ([]model.Patient, error)
	GetDoctors(ctx context.Context) ([]model.Doctor, error)
	NextPatientID(ctx context.Context) (string, error)
}

// NoteStore persists SOAP notes.
type NoteStore interface {
	// SaveNote inserts the note and sets its ID.
	SaveNote(ctx context.Context, note *model.Note) error
	// GetPatientNotes returns up to limit notes for a patient, newest first.
	GetPatientNotes(ctx context.Context, patientID string, limit int) ([]model.Note, error)
	// SearchNotes matches query case-insensitively against one section, or all
	// four when field is model.SectionAll.
	SearchNotes(ctx context.Context, query, field string) ([]model.Note, error)
}

// RecordStore persists veterinary animal records.
type RecordStore interface {
	// SaveAnimalRecord inserts a record, assigning its serial number when empty.
	SaveAnimalRecord(ctx context.Context, record *model.AnimalRecord) error
	// UpdateAnimalRecord replaces a record's content; common.ErrNotFound when absent.
	UpdateAnimalRecord(ctx context.Context, record *model.AnimalRecord) error
	// DeleteAnimalRecord removes a record; common.ErrNotFound when absent.
	DeleteAnimalRecord(ctx context.Context, id string) error
	// GetAnimalRecord looks a record up by ID or serial number. A miss returns nil, nil.
	GetAnimalRecord(ctx context.Context, id string) (*model.AnimalRecord, error)
	// SearchAnimalRecords matches serial number, owner name, animal name, species and breed.
	// An empty term returns every record. Results are newest first.
	SearchAnimalRecords(ctx context.Context, term string) ([]model.AnimalRecord, error)
}

// Storage is the full persistence layer.
type Storage interface {
	IdentityStore
	NoteStore
	RecordStore

	Migrate(ctx context.Context) error
	Close() error
}

// SpeechSource yields recognized utterances.
type SpeechSource interface {
	// Listen blocks until an utterance is available. It returns common.ErrNoSpeech
	// when nothing was recognized and common.ErrSourceClosed when the source is exhausted.
	Listen(ctx context.Context) (string, error)
}

// Renderer draws an animal record as a printable document.
type Renderer interface {
	RenderAnimalRecord(record *model.AnimalRecordDraft) ([]byte, error)
}

// Extractor reads a chart image into structured record data.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mediaType string) (*model.AnimalRecordDraft, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
