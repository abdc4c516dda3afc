package notes

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/soapbox/internal/categorize"
	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/testutil"
)

var fixedNow = time.Date(2025, 6, 9, 14, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*Manager, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mgr := NewManager(db.Storage, db.Storage,
		categorize.NewCategorizer(categorize.DefaultKeywords()),
		WithClock(func() time.Time { return fixedNow }))
	return mgr, db
}

// failingNoteStore fails every save until failures runs out.
type failingNoteStore struct {
	failures int
	saved    []*model.Note
}

func (f *failingNoteStore) SaveNote(_ context.Context, note *model.Note) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("disk full")
	}
	note.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, note)
	return nil
}

func (f *failingNoteStore) GetPatientNotes(context.Context, string, int) ([]model.Note, error) {
	return nil, nil
}

func (f *failingNoteStore) SearchNotes(context.Context, string, string) ([]model.Note, error) {
	return nil, nil
}

func TestStartNewNote(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	t.Run("known identities", func(t *testing.T) {
		session, err := mgr.StartNewNote(ctx, "P0001", "D001")
		require.NoError(t, err)
		require.True(t, session.Active())

		note := session.Note()
		assert.Equal(t, "P0001", note.PatientID)
		assert.Equal(t, "D001", note.DoctorID)
		assert.Equal(t, fixedNow, note.Date)
		assert.Empty(t, note.Subjective)
		assert.Empty(t, note.Transcript)
	})

	tests := []struct {
		name      string
		patientID string
		doctorID  string
		wantMsg   string
	}{
		{"unknown patient", "P0404", "D001", "Patient P0404 not found"},
		{"unknown doctor", "P0001", "D999", "Doctor D999 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := mgr.StartNewNote(ctx, tt.patientID, tt.doctorID)
			require.Error(t, err)
			assert.Nil(t, session)
			assert.ErrorIs(t, err, common.ErrNotFound)
			assert.Equal(t, tt.wantMsg, common.UserMessage(err))
		})
	}
}

func TestAddDictation(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	t.Run("keyword routing", func(t *testing.T) {
		session, err := mgr.StartNewNote(ctx, "P0001", "D001")
		require.NoError(t, err)

		section, err := mgr.AddDictation(session, "Patient reports headache for 3 days", model.SpeakerPractitioner, "")
		require.NoError(t, err)
		assert.Equal(t, model.SectionSubjective, section)

		note := session.Note()
		assert.Equal(t, " Patient reports headache for 3 days", note.Subjective)
		require.Len(t, note.Transcript, 1)
		assert.Equal(t, model.DictationEntry{
			Timestamp: fixedNow,
			Speaker:   model.SpeakerPractitioner,
			Text:      "Patient reports headache for 3 days",
		}, note.Transcript[0])
	})

	t.Run("keyword-free text goes to subjective", func(t *testing.T) {
		session, err := mgr.StartNewNote(ctx, "P0001", "D001")
		require.NoError(t, err)

		section, err := mgr.AddDictation(session, "hello there", model.SpeakerSubject, "")
		require.NoError(t, err)
		assert.Equal(t, model.SectionSubjective, section)
		assert.Equal(t, " hello there", session.Note().Subjective)
	})

	t.Run("repeated explicit dictation appends twice", func(t *testing.T) {
		session, err := mgr.StartNewNote(ctx, "P0001", "D001")
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			section, err := mgr.AddDictation(session, "Rest", model.SpeakerPractitioner, "PLAN")
			require.NoError(t, err)
			assert.Equal(t, model.SectionPlan, section)
		}

		note := session.Note()
		assert.Equal(t, " Rest Rest", note.Plan)
		require.Len(t, note.Transcript, 2)
		assert.Equal(t, model.Section("PLAN"), note.Transcript[1].Section)
	})

	t.Run("requested section is recorded verbatim", func(t *testing.T) {
		session, err := mgr.StartNewNote(ctx, "P0001", "D001")
		require.NoError(t, err)

		section, err := mgr.AddDictation(session, "blood pressure 120/80", model.SpeakerPractitioner, "vitals")
		require.NoError(t, err)
		assert.Equal(t, model.SectionObjective, section)
		require.Len(t, session.Note().Transcript, 1)
		assert.Equal(t, model.Section("vitals"), session.Note().Transcript[0].Section)
	})

	t.Run("nil session", func(t *testing.T) {
		_, err := mgr.AddDictation(nil, "text", model.SpeakerPractitioner, "")
		assert.ErrorIs(t, err, ErrNoActiveNote)
	})
}

func TestManualDictation(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	session, err := mgr.StartNewNote(ctx, "P0001", "D001")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "feels tired", model.SpeakerSubject, "")
	require.NoError(t, err)

	require.NoError(t, mgr.ManualDictation(session, model.SpeakerSubject, "Cough for a week", "Temp 101F", "Bronchitis", "Rest and fluids"))

	note := session.Note()
	assert.Equal(t, "Cough for a week", note.Subjective)
	assert.Equal(t, "Temp 101F", note.Objective)
	assert.Equal(t, "Bronchitis", note.Assessment)
	assert.Equal(t, "Rest and fluids", note.Plan)

	require.Len(t, note.Transcript, 5)
	wantSections := []model.Section{
		"",
		model.SectionSubjective,
		model.SectionObjective,
		model.SectionAssessment,
		model.SectionPlan,
	}
	for i, want := range wantSections {
		assert.Equal(t, want, note.Transcript[i].Section, "entry %d", i)
		assert.Equal(t, model.SpeakerSubject, note.Transcript[i].Speaker, "entry %d", i)
	}

	t.Run("empty arguments leave sections alone", func(t *testing.T) {
		require.NoError(t, mgr.ManualDictation(session, model.SpeakerPractitioner, "", "", "", "Recheck in 2 weeks"))
		assert.Equal(t, "Cough for a week", session.Note().Subjective)
		assert.Equal(t, "Recheck in 2 weeks", session.Note().Plan)
		require.Len(t, session.Note().Transcript, 6)
		assert.Equal(t, model.SpeakerPractitioner, session.Note().Transcript[5].Speaker)
	})
}

func TestSaveNote(t *testing.T) {
	mgr, db := newTestManager(t)
	ctx := context.Background()

	session, err := mgr.StartNewNote(ctx, "P0001", "D001")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "Patient reports headache for 3 days", model.SpeakerPractitioner, "")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "Prescribe ibuprofen", model.SpeakerPractitioner, "")
	require.NoError(t, err)

	saved, err := mgr.SaveNote(ctx, session)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Patient reports headache for 3 days", saved.Subjective)
	assert.Equal(t, "Prescribe ibuprofen", saved.Plan)
	assert.False(t, session.Active())

	// The session keeps its untrimmed text for display.
	assert.Equal(t, " Patient reports headache for 3 days", session.Note().Subjective)

	stored, err := db.Storage.GetNote(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Patient reports headache for 3 days", stored.Subjective)
	assert.Len(t, stored.Transcript, 2)

	t.Run("dictation after save fails", func(t *testing.T) {
		_, err := mgr.AddDictation(session, "more", model.SpeakerPractitioner, "")
		assert.ErrorIs(t, err, ErrNoActiveNote)
	})

	t.Run("second save fails", func(t *testing.T) {
		_, err := mgr.SaveNote(ctx, session)
		assert.ErrorIs(t, err, ErrNoActiveNote)
	})

	t.Run("listed newest first", func(t *testing.T) {
		notes, err := mgr.GetPatientNotes(ctx, "P0001", 10)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, saved.ID, notes[0].ID)
	})

	t.Run("searchable", func(t *testing.T) {
		notes, err := mgr.SearchNotes(ctx, "IBUPROFEN", "plan")
		require.NoError(t, err)
		assert.Len(t, notes, 1)

		_, err = mgr.SearchNotes(ctx, "x", "diagnosis")
		assert.Error(t, err)
	})
}

func TestSaveNote_PersistenceFailureKeepsSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := &failingNoteStore{failures: 1}
	mgr := NewManager(db.Storage, store, categorize.NewCategorizer(categorize.DefaultKeywords()))
	ctx := context.Background()

	session, err := mgr.StartNewNote(ctx, "P0001", "D001")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "blood pressure 120/80", model.SpeakerPractitioner, "")
	require.NoError(t, err)

	_, err = mgr.SaveNote(ctx, session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, session.Active())

	saved, err := mgr.SaveNote(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "blood pressure 120/80", saved.Objective)
	assert.Equal(t, int64(1), session.Note().ID)
	assert.False(t, session.Active())
}

func TestDiscard(t *testing.T) {
	mgr, _ := newTestManager(t)
	session, err := mgr.StartNewNote(context.Background(), "P0001", "D001")
	require.NoError(t, err)

	require.NoError(t, mgr.Discard(session))
	assert.False(t, session.Active())
	assert.ErrorIs(t, mgr.Discard(session), ErrNoActiveNote)
	assert.ErrorIs(t, mgr.ManualDictation(session, model.SpeakerPractitioner, "a", "", "", ""), ErrNoActiveNote)
}

func TestIdentityManagement(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	id, err := mgr.NextPatientID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P0002", id)

	patient, err := mgr.AddPatient(ctx, id, "Jane Roe", "1990-01-01", "555-0199")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, patient.CreatedAt)

	_, err = mgr.AddPatient(ctx, id, "Someone Else", "", "")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = mgr.AddDoctor(ctx, "D002", "Dr. Jones", "Pediatrics", "")
	require.NoError(t, err)
	_, err = mgr.AddDoctor(ctx, "D002", "Dr. Jones", "", "")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	session, err := mgr.StartNewNote(ctx, "P0002", "D002")
	require.NoError(t, err)
	assert.True(t, session.Active())
}

func TestSummary(t *testing.T) {
	mgr, _ := newTestManager(t)
	session, err := mgr.StartNewNote(context.Background(), "P0001", "D001")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "Diagnosis is migraine", model.SpeakerPractitioner, "")
	require.NoError(t, err)

	summary := mgr.Summary(session)
	assert.Contains(t, summary, "Patient ID: P0001")
	assert.Contains(t, summary, "Doctor ID: D001")
	assert.Contains(t, summary, "Date: 2025-06-09 14:30:00")
	assert.Contains(t, summary, "ASSESSMENT:\nDiagnosis is migraine")
	assert.Contains(t, summary, "No subjective data")
	assert.Contains(t, summary, "No objective data")
	assert.Contains(t, summary, "No plan data")

	assert.Equal(t, "No active SOAP note", mgr.Summary(nil))
}

func TestSaveNote_LogsOnce(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	session, err := mgr.StartNewNote(ctx, "P0001", "D001")
	require.NoError(t, err)
	_, err = mgr.AddDictation(session, "Patient reports cough", model.SpeakerPractitioner, "")
	require.NoError(t, err)
	_, err = mgr.SaveNote(ctx, session)
	require.NoError(t, err)
	_, err = mgr.AddPatient(ctx, "P0042", "Jane Roe", "", "")
	require.NoError(t, err)

	logs := strings.ToLower(buf.String())
	assert.Equal(t, 1, strings.Count(logs, "saved soap note"), logs)
	assert.Equal(t, 1, strings.Count(logs, "added patient"), logs)
}
