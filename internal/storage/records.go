package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
)

const recordColumns = `id, serial_number, owner_info, animal_info, treatment_data, reminders, created_at`

// recordFields are the encoded columns shared by insert and update.
type recordFields struct {
	owner     string
	animal    string
	reminders string
}

func encodeRecord(record *model.AnimalRecord) (recordFields, error) {
	ownerJSON, err := json.Marshal(nonNil(record.OwnerInfo))
	if err != nil {
		return recordFields{}, fmt.Errorf("failed to marshal owner info: %w", err)
	}
	animalJSON, err := json.Marshal(nonNil(record.AnimalInfo))
	if err != nil {
		return recordFields{}, fmt.Errorf("failed to marshal animal info: %w", err)
	}
	reminders := record.Reminders
	if reminders == nil {
		reminders = []string{}
	}
	remindersJSON, err := json.Marshal(reminders)
	if err != nil {
		return recordFields{}, fmt.Errorf("failed to marshal reminders: %w", err)
	}
	return recordFields{owner: string(ownerJSON), animal: string(animalJSON), reminders: string(remindersJSON)}, nil
}

// SaveAnimalRecord inserts a veterinary record. A record without a serial
// number gets the next one for its creation day. Duplicate IDs or serial
// numbers return common.ErrDuplicateEntry.
func (s *SQLiteStorage) SaveAnimalRecord(ctx context.Context, record *model.AnimalRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	fields, err := encodeRecord(record)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	serial := record.SerialNumber
	if serial == "" {
		serial, err = nextSerial(ctx, tx, model.SerialPrefix(record.CreatedAt))
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO animal_records (
			id, serial_number, owner_name, animal_name, species, breed,
			owner_info, animal_info, treatment_data, reminders, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, serial, record.OwnerName(), record.AnimalName(), record.Species(), record.Breed(),
		fields.owner, fields.animal, record.TreatmentData, fields.reminders, record.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: animal record %s (%s)", common.ErrDuplicateEntry, record.ID, serial)
	}
	if err != nil {
		return fmt.Errorf("failed to insert animal record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit animal record: %w", err)
	}

	record.SerialNumber = serial
	slog.Debug("saved animal record", "id", record.ID, "serial", serial, "animal", record.AnimalName())
	return nil
}

// nextSerial returns prefix-NNN, one past the highest serial already issued
// with that prefix, starting at 001.
func nextSerial(ctx context.Context, tx *sql.Tx, prefix string) (string, error) {
	var last string
	err := tx.QueryRowContext(ctx, `
		SELECT serial_number FROM animal_records
		WHERE serial_number LIKE ?
		ORDER BY length(serial_number) DESC, serial_number DESC
		LIMIT 1`, prefix+"-%").Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read last serial number: %w", err)
	}

	next := 1
	if last != "" {
		n, convErr := strconv.Atoi(strings.TrimPrefix(last, prefix+"-"))
		if convErr != nil {
			return "", fmt.Errorf("%w: serial number %q", common.ErrDatabaseCorrupted, last)
		}
		next = n + 1
	}
	return fmt.Sprintf("%s-%03d", prefix, next), nil
}

// UpdateAnimalRecord replaces the owner, animal, treatment and reminder
// content of an existing record. The serial number and creation time are kept.
func (s *SQLiteStorage) UpdateAnimalRecord(ctx context.Context, record *model.AnimalRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if err := validateString(record.ID, "id"); err != nil {
		return err
	}

	fields, err := encodeRecord(record)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE animal_records SET
			owner_name = ?, animal_name = ?, species = ?, breed = ?,
			owner_info = ?, animal_info = ?, treatment_data = ?, reminders = ?
		WHERE id = ?`,
		record.OwnerName(), record.AnimalName(), record.Species(), record.Breed(),
		fields.owner, fields.animal, record.TreatmentData, fields.reminders, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update animal record: %w", err)
	}
	if err := expectOneRow(result, record.ID); err != nil {
		return err
	}

	slog.Debug("updated animal record", "id", record.ID)
	return nil
}

// DeleteAnimalRecord removes the record with the given ID.
func (s *SQLiteStorage) DeleteAnimalRecord(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM animal_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal record: %w", err)
	}
	if err := expectOneRow(result, id); err != nil {
		return err
	}

	slog.Debug("deleted animal record", "id", id)
	return nil
}

func expectOneRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: animal record %s", common.ErrNotFound, id)
	}
	return nil
}

// GetAnimalRecord returns the record with the given ID or serial number, or nil if none exists.
func (s *SQLiteStorage) GetAnimalRecord(ctx context.Context, id string) (*model.AnimalRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM animal_records WHERE id = ? OR serial_number = ?`, id, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absent record is a valid result
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SearchAnimalRecords matches term against serial number, owner name, animal name, species and breed.
func (s *SQLiteStorage) SearchAnimalRecords(ctx context.Context, term string) ([]model.AnimalRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + recordColumns + ` FROM animal_records`
	var args []any
	if term != "" {
		pattern := likePattern(term)
		columns := []string{"serial_number", "owner_name", "animal_name", "species", "breed"}
		conditions := make([]string, 0, len(columns))
		for _, col := range columns {
			conditions = append(conditions, likeCondition(col))
			args = append(args, pattern)
		}
		query += ` WHERE ` + strings.Join(conditions, " OR ")
	}
	query += ` ORDER BY created_at DESC, serial_number DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query animal records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.AnimalRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating animal records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.AnimalRecord, error) {
	var (
		r             model.AnimalRecord
		ownerJSON     string
		animalJSON    string
		remindersJSON string
	)
	if err := row.Scan(&r.ID, &r.SerialNumber, &ownerJSON, &animalJSON, &r.TreatmentData, &remindersJSON, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan animal record: %w", err)
	}

	if err := json.Unmarshal([]byte(ownerJSON), &r.OwnerInfo); err != nil {
		return nil, fmt.Errorf("%w: owner info of %s: %v", common.ErrDatabaseCorrupted, r.ID, err)
	}
	if err := json.Unmarshal([]byte(animalJSON), &r.AnimalInfo); err != nil {
		return nil, fmt.Errorf("%w: animal info of %s: %v", common.ErrDatabaseCorrupted, r.ID, err)
	}
	if err := json.Unmarshal([]byte(remindersJSON), &r.Reminders); err != nil {
		return nil, fmt.Errorf("%w: reminders of %s: %v", common.ErrDatabaseCorrupted, r.ID, err)
	}
	if len(r.Reminders) == 0 {
		r.Reminders = nil
	}
	return &r, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
