package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/soapbox/internal/model"
)

func makeNote(patientID string, date time.Time, subjective, plan string) *model.Note {
	note := model.NewNote(patientID, "D001", date)
	note.Subjective = subjective
	note.Plan = plan
	note.AddEntry(model.DictationEntry{
		Timestamp: date,
		Speaker:   model.SpeakerPractitioner,
		Text:      subjective,
	})
	note.AddEntry(model.DictationEntry{
		Timestamp: date.Add(time.Minute),
		Speaker:   model.SpeakerSubject,
		Text:      plan,
		Section:   model.SectionPlan,
	})
	return note
}

func TestSQLiteStorage_SaveNote(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	date := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	note := makeNote("P0001", date, "Headache for 3 days", "Follow up in a week")

	if err := store.SaveNote(ctx, note); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if note.ID == 0 {
		t.Fatal("SaveNote did not assign an ID")
	}

	got, err := store.GetNote(ctx, note.ID)
	if err != nil {
		t.Fatalf("GetNote failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetNote returned nil")
	}
	if got.Subjective != note.Subjective || got.Plan != note.Plan {
		t.Errorf("GetNote sections = %q/%q, want %q/%q", got.Subjective, got.Plan, note.Subjective, note.Plan)
	}
	if !got.Date.Equal(date) {
		t.Errorf("GetNote date = %v, want %v", got.Date, date)
	}
	if len(got.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(got.Transcript))
	}
	if got.Transcript[1].Section != model.SectionPlan || got.Transcript[1].Speaker != model.SpeakerSubject {
		t.Errorf("second entry = %+v", got.Transcript[1])
	}
	if got.Transcript[0].Section != "" {
		t.Errorf("auto-detect entry section = %q, want empty", got.Transcript[0].Section)
	}

	if err := store.SaveNote(ctx, note); !errors.Is(err, ErrInvalidNote) {
		t.Errorf("saving an already saved note error = %v, want ErrInvalidNote", err)
	}
}

func TestSQLiteStorage_GetPatientNotes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		note := makeNote("P0001", base.Add(time.Duration(i)*24*time.Hour), "visit", "plan")
		if err := store.SaveNote(ctx, note); err != nil {
			t.Fatalf("SaveNote %d failed: %v", i, err)
		}
	}
	if err := store.SaveNote(ctx, makeNote("P0002", base, "other patient", "")); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}

	notes, err := store.GetPatientNotes(ctx, "P0001", 3)
	if err != nil {
		t.Fatalf("GetPatientNotes failed: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("GetPatientNotes returned %d notes, want 3", len(notes))
	}
	for i := 1; i < len(notes); i++ {
		if notes[i].Date.After(notes[i-1].Date) {
			t.Errorf("notes not newest first: %v after %v", notes[i].Date, notes[i-1].Date)
		}
	}
	if !notes[0].Date.Equal(base.Add(3 * 24 * time.Hour)) {
		t.Errorf("newest note date = %v", notes[0].Date)
	}

	all, err := store.GetPatientNotes(ctx, "P0001", 0)
	if err != nil {
		t.Fatalf("GetPatientNotes with default limit failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("GetPatientNotes default limit returned %d, want 4", len(all))
	}
}

func TestSQLiteStorage_SearchNotes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	fixtures := []*model.Note{
		makeNote("P0001", base, "Severe HEADACHE", "Ibuprofen"),
		makeNote("P0002", base.Add(time.Hour), "Cough", "Rest and fluids, recheck headache"),
		makeNote("P0003", base.Add(2*time.Hour), "100% better", "none"),
		makeNote("P0004", base.Add(3*time.Hour), "Ödem am Knöchel", "Kühlen"),
	}
	for _, n := range fixtures {
		if err := store.SaveNote(ctx, n); err != nil {
			t.Fatalf("SaveNote failed: %v", err)
		}
	}

	tests := []struct {
		name    string
		query   string
		field   string
		wantIDs []string
		wantErr error
	}{
		{name: "all fields case-insensitive", query: "headache", field: "all", wantIDs: []string{"P0002", "P0001"}},
		{name: "single field", query: "headache", field: "subjective", wantIDs: []string{"P0001"}},
		{name: "field name is case-insensitive", query: "fluids", field: "PLAN", wantIDs: []string{"P0002"}},
		{name: "empty field means all", query: "cough", field: "", wantIDs: []string{"P0002"}},
		{name: "wildcards are literal", query: "%", field: "all", wantIDs: []string{"P0003"}},
		{name: "non-ascii lowercase query", query: "ödem", field: "all", wantIDs: []string{"P0004"}},
		{name: "non-ascii uppercase query", query: "KNÖCHEL", field: "subjective", wantIDs: []string{"P0004"}},
		{name: "non-ascii in plan", query: "KÜHL", field: "plan", wantIDs: []string{"P0004"}},
		{name: "no match", query: "fracture", field: "all", wantIDs: nil},
		{name: "invalid field", query: "x", field: "patient_id", wantErr: ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := store.SearchNotes(ctx, tt.query, tt.field)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SearchNotes error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SearchNotes failed: %v", err)
			}
			var got []string
			for _, n := range notes {
				got = append(got, n.PatientID)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("SearchNotes patients = %v, want %v", got, tt.wantIDs)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("SearchNotes patients = %v, want %v", got, tt.wantIDs)
					break
				}
			}
		})
	}
}
