package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
)

// patientIDPrefix and patientIDWidth define generated IDs such as P0001.
const (
	patientIDPrefix = "P"
	patientIDWidth  = 4
)

// AddPatient registers a patient. Duplicate IDs return common.ErrDuplicateEntry.
func (s *SQLiteStorage) AddPatient(ctx context.Context, patient *model.Patient) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePatient(patient); err != nil {
		return err
	}

	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (patient_id, name, date_of_birth, contact, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		patient.PatientID, patient.Name, patient.DateOfBirth, patient.Contact, patient.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: patient %s", common.ErrDuplicateEntry, patient.PatientID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert patient: %w", err)
	}

	slog.Debug("added patient", "patient_id", patient.PatientID)
	return nil
}

// GetPatient returns the patient with the given ID, or nil if none exists.
func (s *SQLiteStorage) GetPatient(ctx context.Context, patientID string) (*model.Patient, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(patientID, "patientID"); err != nil {
		return nil, err
	}

	var p model.Patient
	err := s.db.QueryRowContext(ctx, `
		SELECT patient_id, name, date_of_birth, contact, created_at
		FROM patients
		WHERE patient_id = ?`, patientID,
	).Scan(&p.PatientID, &p.Name, &p.DateOfBirth, &p.Contact, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absent patient is a valid result
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &p, nil
}

// GetPatients returns every patient ordered by ID.
func (s *SQLiteStorage) GetPatients(ctx context.Context) ([]model.Patient, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, name, date_of_birth, contact, created_at
		FROM patients
		ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patients []model.Patient
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.PatientID, &p.Name, &p.DateOfBirth, &p.Contact, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, nil
}

// NextPatientID returns the ID following the highest numeric patient ID,
// starting at P0001. IDs that do not follow the P<number> form are ignored.
func (s *SQLiteStorage) NextPatientID(ctx context.Context) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT patient_id FROM patients WHERE patient_id LIKE 'P%'`)
	if err != nil {
		return "", fmt.Errorf("failed to query patient IDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	highest := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan patient ID: %w", err)
		}
		n, convErr := strconv.Atoi(strings.TrimPrefix(id, patientIDPrefix))
		if convErr != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error iterating patient IDs: %w", err)
	}

	return fmt.Sprintf("%s%0*d", patientIDPrefix, patientIDWidth, highest+1), nil
}

// AddDoctor registers a doctor. Duplicate IDs return common.ErrDuplicateEntry.
func (s *SQLiteStorage) AddDoctor(ctx context.Context, doctor *model.Doctor) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDoctor(doctor); err != nil {
		return err
	}

	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO doctors (doctor_id, name, specialty, contact, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		doctor.DoctorID, doctor.Name, doctor.Specialty, doctor.Contact, doctor.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: doctor %s", common.ErrDuplicateEntry, doctor.DoctorID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert doctor: %w", err)
	}

	slog.Debug("added doctor", "doctor_id", doctor.DoctorID)
	return nil
}

// GetDoctor returns the doctor with the given ID, or nil if none exists.
func (s *SQLiteStorage) GetDoctor(ctx context.Context, doctorID string) (*model.Doctor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(doctorID, "doctorID"); err != nil {
		return nil, err
	}

	var d model.Doctor
	err := s.db.QueryRowContext(ctx, `
		SELECT doctor_id, name, specialty, contact, created_at
		FROM doctors
		WHERE doctor_id = ?`, doctorID,
	).Scan(&d.DoctorID, &d.Name, &d.Specialty, &d.Contact, &d.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absent doctor is a valid result
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query doctor: %w", err)
	}
	return &d, nil
}

// GetDoctors returns every doctor ordered by ID.
func (s *SQLiteStorage) GetDoctors(ctx context.Context) ([]model.Doctor, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT doctor_id, name, specialty, contact, created_at
		FROM doctors
		ORDER BY doctor_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var doctors []model.Doctor
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.DoctorID, &d.Name, &d.Specialty, &d.Contact, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doctors: %w", err)
	}
	return doctors, nil
}
