package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection(t *testing.T) {
	tests := []struct {
		input string
		want  Section
		ok    bool
	}{
		{"subjective", SectionSubjective, true},
		{"OBJECTIVE", SectionObjective, true},
		{" Assessment ", SectionAssessment, true},
		{"Plan", SectionPlan, true},
		{"", "", false},
		{"history", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSection(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpeaker(t *testing.T) {
	for _, alias := range []string{"practitioner", "Doctor", "dr"} {
		got, ok := ParseSpeaker(alias)
		require.True(t, ok, alias)
		assert.Equal(t, SpeakerPractitioner, got)
	}
	for _, alias := range []string{"subject", "PATIENT", "pt"} {
		got, ok := ParseSpeaker(alias)
		require.True(t, ok, alias)
		assert.Equal(t, SpeakerSubject, got)
	}
	_, ok := ParseSpeaker("nurse")
	assert.False(t, ok)
}

func TestNote_AppendField(t *testing.T) {
	note := NewNote("P0001", "D001", time.Now())

	note.AppendField(SectionPlan, "rest")
	note.AppendField(SectionPlan, "fluids")

	assert.Equal(t, " rest fluids", note.Plan)
	assert.Empty(t, note.Subjective)
	assert.Empty(t, note.Objective)
	assert.Empty(t, note.Assessment)
}

func TestNote_Cleaned(t *testing.T) {
	note := NewNote("P0001", "D001", time.Now())
	note.AppendField(SectionSubjective, "headache  ")
	note.AddEntry(DictationEntry{Text: "headache", Speaker: SpeakerPractitioner})

	clean := note.Cleaned()

	assert.Equal(t, "headache", clean.Subjective)
	assert.Equal(t, " headache  ", note.Subjective, "original must be untouched")
	require.Len(t, clean.Transcript, 1)

	clean.AddEntry(DictationEntry{Text: "more"})
	assert.Len(t, note.Transcript, 1)
}
