package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
)

// DemoPatient and DemoDoctor are the identities created by SeedDemo.
var (
	DemoPatient = model.Patient{
		PatientID:   "P0001",
		Name:        "John Doe",
		DateOfBirth: "1980-05-15",
		Contact:     "555-0123",
	}
	DemoDoctor = model.Doctor{
		DoctorID:  "D001",
		Name:      "Dr. Smith",
		Specialty: "Family Medicine",
		Contact:   "555-0100",
	}
)

// SeedDemo inserts the demo patient and doctor. Identities that already exist are left alone.
func (s *SQLiteStorage) SeedDemo(ctx context.Context) error {
	patient := DemoPatient
	if err := s.AddPatient(ctx, &patient); err != nil && !errors.Is(err, common.ErrDuplicateEntry) {
		return fmt.Errorf("failed to seed patient: %w", err)
	}
	doctor := DemoDoctor
	if err := s.AddDoctor(ctx, &doctor); err != nil && !errors.Is(err, common.ErrDuplicateEntry) {
		return fmt.Errorf("failed to seed doctor: %w", err)
	}
	slog.Debug("seeded demo identities", "patient", patient.PatientID, "doctor", doctor.DoctorID)
	return nil
}
