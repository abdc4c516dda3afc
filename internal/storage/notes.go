package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/soapbox/internal/model"
)

// DefaultNoteLimit is used when GetPatientNotes is called without a positive limit.
const DefaultNoteLimit = 10

const noteColumns = `id, patient_id, doctor_id, date, subjective, objective, assessment, plan`

// SaveNote inserts a note and its transcript in one transaction and sets note.ID.
func (s *SQLiteStorage) SaveNote(ctx context.Context, note *model.Note) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNote(note); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO soap_notes (patient_id, doctor_id, date, subjective, objective, assessment, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.PatientID, note.DoctorID, note.Date.UTC(),
		note.Subjective, note.Objective, note.Assessment, note.Plan,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get note ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO note_entries (note_id, seq, timestamp, speaker, text, section)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare transcript statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, entry := range note.Transcript {
		if _, err := stmt.ExecContext(ctx, id, i, entry.Timestamp.UTC(),
			string(entry.Speaker), entry.Text, string(entry.Section)); err != nil {
			return fmt.Errorf("failed to insert transcript entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit note: %w", err)
	}

	note.ID = id
	slog.Debug("saved SOAP note",
		"note_id", id,
		"patient_id", note.PatientID,
		"doctor_id", note.DoctorID,
		"entries", len(note.Transcript))
	return nil
}

// GetNote returns a single note with its transcript, or nil if none exists.
func (s *SQLiteStorage) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	notes, err := s.queryNotes(ctx, `SELECT `+noteColumns+` FROM soap_notes WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, nil //nolint:nilnil // absent note is a valid result
	}
	return &notes[0], nil
}

// GetPatientNotes returns up to limit notes for a patient, newest first.
func (s *SQLiteStorage) GetPatientNotes(ctx context.Context, patientID string, limit int) ([]model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(patientID, "patientID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultNoteLimit
	}

	return s.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM soap_notes
		WHERE patient_id = ?
		ORDER BY date DESC, id DESC
		LIMIT ?`, patientID, limit)
}

// SearchNotes returns notes whose section text contains query, ignoring case.
// field is a section name or "all"; results are newest first.
func (s *SQLiteStorage) SearchNotes(ctx context.Context, query, field string) ([]model.Note, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	columns, err := searchColumns(field)
	if err != nil {
		return nil, err
	}

	pattern := likePattern(query)
	conditions := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		conditions = append(conditions, likeCondition(col))
		args = append(args, pattern)
	}

	notes, err := s.queryNotes(ctx, `
		SELECT `+noteColumns+`
		FROM soap_notes
		WHERE `+strings.Join(conditions, " OR ")+`
		ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}

	slog.Debug("searched notes", "query", query, "field", field, "count", len(notes))
	return notes, nil
}

func (s *SQLiteStorage) queryNotes(ctx context.Context, query string, args ...any) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.PatientID, &n.DoctorID, &n.Date,
			&n.Subjective, &n.Objective, &n.Assessment, &n.Plan); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	// Release the single connection before loading transcripts.
	_ = rows.Close()

	for i := range notes {
		transcript, err := s.getTranscript(ctx, notes[i].ID)
		if err != nil {
			return nil, err
		}
		notes[i].Transcript = transcript
	}
	return notes, nil
}

func (s *SQLiteStorage) getTranscript(ctx context.Context, noteID int64) ([]model.DictationEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, speaker, text, section
		FROM note_entries
		WHERE note_id = ?
		ORDER BY seq`, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []model.DictationEntry{}
	for rows.Next() {
		var (
			e       model.DictationEntry
			speaker string
			section sql.NullString
		)
		if err := rows.Scan(&e.Timestamp, &speaker, &e.Text, &section); err != nil {
			return nil, fmt.Errorf("failed to scan transcript entry: %w", err)
		}
		e.Speaker = model.Speaker(speaker)
		e.Section = model.Section(section.String)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transcript: %w", err)
	}
	return entries, nil
}
