package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/soapbox/internal/model"
)

func TestFormatNoteList(t *testing.T) {
	assert.Contains(t, FormatNoteList(nil), "No notes found")

	notes := []model.Note{
		{ID: 7, PatientID: "P0001", DoctorID: "D001", Date: time.Now(), Subjective: strings.Repeat("headache ", 20)},
	}
	out := FormatNoteList(notes)
	assert.Contains(t, out, "P0001")
	assert.Contains(t, out, "D001")
	assert.Contains(t, out, "...")
}

func TestFormatNote(t *testing.T) {
	note := &model.Note{ID: 3, PatientID: "P0001", DoctorID: "D001", Date: time.Now(), Plan: "Rest"}
	out := FormatNote(note)
	assert.Contains(t, out, "SOAP note #3")
	assert.Contains(t, out, "PLAN")
	assert.Contains(t, out, "Rest")
	assert.Contains(t, out, "No objective data")
}

func TestFormatRecord(t *testing.T) {
	draft := &model.AnimalRecordDraft{
		OwnerInfo:     map[string]string{model.FieldOwnerName: "Alice Brown"},
		AnimalInfo:    map[string]string{model.FieldAnimalName: "Biscuit", model.FieldSpecies: "Canine"},
		TreatmentData: "6-9-25|19 lbs|rash|$45",
		Reminders:     []string{"Rabies booster"},
	}
	out := FormatRecord("Extracted record", draft)
	assert.Contains(t, out, "Alice Brown")
	assert.Contains(t, out, "Biscuit")
	assert.Contains(t, out, "$45")
	assert.Contains(t, out, "Reminders")
	assert.Contains(t, out, "- Rabies booster")

	assert.Contains(t, FormatRecord("Empty", &model.AnimalRecordDraft{}), "No treatment rows")
}

func TestFormatRecordList(t *testing.T) {
	assert.Contains(t, FormatRecordList(nil), "No animal records found")

	records := []model.AnimalRecord{{
		ID:           "rec-1",
		SerialNumber: "20250609-001",
		AnimalRecordDraft: model.AnimalRecordDraft{
			OwnerInfo:  map[string]string{model.FieldOwnerName: "Bob Green"},
			AnimalInfo: map[string]string{model.FieldAnimalName: "Mittens", model.FieldBreed: "Tabby"},
		},
	}}
	out := FormatRecordList(records)
	assert.Contains(t, out, "20250609-001")
	assert.Contains(t, out, "Bob Green")
	assert.Contains(t, out, "Tabby")
}

func TestPrompter(t *testing.T) {
	ctx := context.Background()

	t.Run("default on empty answer", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("\n"), &out)
		answer, err := p.Ask(ctx, "Patient ID", "P0002")
		require.NoError(t, err)
		assert.Equal(t, "P0002", answer)
		assert.Contains(t, out.String(), "Patient ID [P0002]")
	})

	t.Run("required repeats", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("\n  \nJane Roe\n"), &out)
		answer, err := p.AskRequired(ctx, "Name")
		require.NoError(t, err)
		assert.Equal(t, "Jane Roe", answer)
		assert.Equal(t, 2, strings.Count(out.String(), "Name is required"))
	})

	t.Run("confirm", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("YES\nn\n"), io.Discard)
		ok, err := p.Confirm(ctx, "Save?")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = p.Confirm(ctx, "Save?")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("eof", func(t *testing.T) {
		p := NewPrompter(strings.NewReader(""), io.Discard)
		_, err := p.Ask(ctx, "Name", "")
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestNewProgressBar(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 2, "Extracting records...")

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
	assert.Contains(t, buf.String(), "2/2")
}
