package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/soapbox/internal/common"
)

// ExpectedSchemaVersion is the schema version Migrate leaves the database at.
const ExpectedSchemaVersion = 4

// migration is one schema step. Its statements run in a single transaction
// that also bumps PRAGMA user_version.
type migration struct {
	description string
	statements  []string
	version     int
}

var migrations = []migration{
	{
		version:     1,
		description: "Initial schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS patients (
				patient_id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				date_of_birth TEXT NOT NULL DEFAULT '',
				contact TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS doctors (
				doctor_id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				specialty TEXT NOT NULL DEFAULT '',
				contact TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS soap_notes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				patient_id TEXT NOT NULL,
				doctor_id TEXT NOT NULL,
				date DATETIME NOT NULL,
				subjective TEXT NOT NULL DEFAULT '',
				objective TEXT NOT NULL DEFAULT '',
				assessment TEXT NOT NULL DEFAULT '',
				plan TEXT NOT NULL DEFAULT '',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_soap_notes_patient_date ON soap_notes(patient_id, date DESC)`,
			`CREATE INDEX idx_soap_notes_doctor ON soap_notes(doctor_id)`,
		},
	},
	{
		version:     2,
		description: "Add dictation transcript entries",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS note_entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				note_id INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				timestamp DATETIME NOT NULL,
				speaker TEXT NOT NULL,
				text TEXT NOT NULL,
				section TEXT NOT NULL DEFAULT '',
				FOREIGN KEY (note_id) REFERENCES soap_notes(id),
				UNIQUE (note_id, seq)
			)`,
		},
	},
	{
		version:     3,
		description: "Add veterinary animal records",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS animal_records (
				id TEXT PRIMARY KEY,
				owner_name TEXT NOT NULL DEFAULT '',
				animal_name TEXT NOT NULL DEFAULT '',
				species TEXT NOT NULL DEFAULT '',
				breed TEXT NOT NULL DEFAULT '',
				owner_info TEXT NOT NULL,
				animal_info TEXT NOT NULL,
				treatment_data TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			)`,
			`CREATE INDEX idx_animal_records_created ON animal_records(created_at DESC)`,
		},
	},
	{
		version:     4,
		description: "Add animal record serial numbers and reminders",
		statements: []string{
			`ALTER TABLE animal_records ADD COLUMN serial_number TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE animal_records ADD COLUMN reminders TEXT NOT NULL DEFAULT '[]'`,
			// Existing rows are numbered per UTC creation day in creation order.
			`UPDATE animal_records SET serial_number =
				replace(substr(created_at, 1, 10), '-', '') || '-' || printf('%03d', (
					SELECT COUNT(*) FROM animal_records AS earlier
					WHERE substr(earlier.created_at, 1, 10) = substr(animal_records.created_at, 1, 10)
					  AND (earlier.created_at < animal_records.created_at
					       OR (earlier.created_at = animal_records.created_at AND earlier.id <= animal_records.id))
				))`,
			`CREATE UNIQUE INDEX idx_animal_records_serial ON animal_records(serial_number) WHERE serial_number <> ''`,
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		if err := s.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		slog.Debug("Applied migration", "version", m.version, "description", m.description)
	}

	finalVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("%w: schema version %d, expected %d", common.ErrDatabaseCorrupted, finalVersion, ExpectedSchemaVersion)
	}
	return nil
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStorage) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return tx.Commit()
}
