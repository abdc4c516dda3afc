package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/soapbox/internal/model"
)

func TestNewPDFRenderer_Defaults(t *testing.T) {
	r := NewPDFRenderer(Clinic{Name: "Paws Clinic"})
	assert.Equal(t, "Paws Clinic", r.clinic.Name)
	assert.Equal(t, DefaultClinic().Phone, r.clinic.Phone)
	assert.True(t, r.compress)
}

func TestRenderAnimalRecord(t *testing.T) {
	owner := map[string]string{
		model.FieldOwnerName: "Alice Brown",
		model.FieldHomePhone: "555-0100",
		model.FieldAddress:   "12 Elm Street",
	}
	animal := map[string]string{
		model.FieldAnimalName: "Biscuit",
		model.FieldSpecies:    "Canine",
		model.FieldBreed:      "Beagle",
	}
	treatment := "6-9-25|19 lbs|rash on stomach / neck area|$45\n||fell while jumping on couch.|"

	r := NewPDFRenderer(DefaultClinic(), WithCompression(false))
	out, err := r.RenderAnimalRecord(&model.AnimalRecordDraft{
		OwnerInfo:     owner,
		AnimalInfo:    animal,
		TreatmentData: treatment,
		Reminders:     []string{"Rabies booster June", " ", "Recheck ears"},
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	doc := string(out)
	for _, want := range []string{"Alice Brown", "Biscuit", "Beagle", "WEST HIGHLAND DOG & CAT HOSPITAL", "Reminders:", "Rabies booster June; Recheck ears", "Treatment and Progress", "rash on stomach"} {
		assert.Contains(t, doc, want)
	}
}

func TestRenderAnimalRecord_LongReminders(t *testing.T) {
	var reminders []string
	for i := 0; i < 12; i++ {
		reminders = append(reminders, fmt.Sprintf("Vaccine booster number %d due next spring", i))
	}

	r := NewPDFRenderer(DefaultClinic(), WithCompression(false))
	out, err := r.RenderAnimalRecord(&model.AnimalRecordDraft{Reminders: reminders})
	require.NoError(t, err)

	// Wrapped across lines, but every reminder is drawn.
	assert.Equal(t, len(reminders), strings.Count(string(out), "Vaccine"))
}

func TestRenderAnimalRecord_Empty(t *testing.T) {
	out, err := NewPDFRenderer(Clinic{}).RenderAnimalRecord(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderAnimalRecord_LongTableAddsPages(t *testing.T) {
	var rows []string
	for i := 0; i < 80; i++ {
		rows = append(rows, fmt.Sprintf("1-%d-25|20 lbs|%s|$10", i%28+1, strings.Repeat("recheck ears and skin ", 6)))
	}

	r := NewPDFRenderer(DefaultClinic(), WithCompression(false))
	short, err := r.RenderAnimalRecord(&model.AnimalRecordDraft{TreatmentData: rows[0]})
	require.NoError(t, err)
	long, err := r.RenderAnimalRecord(&model.AnimalRecordDraft{TreatmentData: strings.Join(rows, "\n")})
	require.NoError(t, err)

	assert.Greater(t, pageCount(long), pageCount(short))
}

func pageCount(doc []byte) int {
	return bytes.Count(doc, []byte("/Type /Page\n")) + bytes.Count(doc, []byte("/Type /Page\r\n"))
}
