// Package storage provides the data persistence layer for the soap application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/soapbox/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidField     = errors.New("invalid search field")
	ErrInvalidNote      = errors.New("invalid note")
	ErrInvalidPatient   = errors.New("invalid patient")
	ErrInvalidDoctor    = errors.New("invalid doctor")
	ErrInvalidRecord    = errors.New("invalid animal record")
	ErrInvalidPatientID = errors.New("invalid patient ID")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePatient validates a patient.
func validatePatient(patient *model.Patient) error {
	if patient == nil {
		return fmt.Errorf("%w: patient", ErrNilParameter)
	}
	if strings.TrimSpace(patient.PatientID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPatient)
	}
	if strings.TrimSpace(patient.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPatient)
	}
	return nil
}

// validateDoctor validates a doctor.
func validateDoctor(doctor *model.Doctor) error {
	if doctor == nil {
		return fmt.Errorf("%w: doctor", ErrNilParameter)
	}
	if strings.TrimSpace(doctor.DoctorID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidDoctor)
	}
	if strings.TrimSpace(doctor.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDoctor)
	}
	return nil
}

// validateNote validates a note before insertion.
func validateNote(note *model.Note) error {
	if note == nil {
		return fmt.Errorf("%w: note", ErrNilParameter)
	}
	if note.PatientID == "" {
		return fmt.Errorf("%w: missing patient ID", ErrInvalidNote)
	}
	if note.DoctorID == "" {
		return fmt.Errorf("%w: missing doctor ID", ErrInvalidNote)
	}
	if note.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidNote)
	}
	if note.ID != 0 {
		return fmt.Errorf("%w: note %d already saved", ErrInvalidNote, note.ID)
	}
	return nil
}

// validateRecord validates an animal record.
func validateRecord(record *model.AnimalRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if record.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidRecord)
	}
	return nil
}

// searchColumns maps a search field to the note columns it covers.
func searchColumns(field string) ([]string, error) {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "" || f == model.SectionAll {
		cols := make([]string, 0, 4)
		for _, s := range model.Sections() {
			cols = append(cols, string(s))
		}
		return cols, nil
	}
	if s, ok := model.ParseSection(f); ok {
		return []string{string(s)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
}
