package model

import (
	"strings"
	"time"
)

// DictationEntry is one utterance or typed input as it arrived.
type DictationEntry struct {
	Timestamp time.Time
	Speaker   Speaker
	Text      string
	Section   Section // Requested section; empty means auto-detect
}

// Note is a SOAP note for one patient authored by one doctor.
type Note struct {
	Date       time.Time
	PatientID  string
	DoctorID   string
	Subjective string
	Objective  string
	Assessment string
	Plan       string
	Transcript []DictationEntry
	ID         int64 // Assigned by the store; zero until saved
}

// NewNote creates an empty note stamped with the given time.
func NewNote(patientID, doctorID string, date time.Time) *Note {
	return &Note{
		PatientID:  patientID,
		DoctorID:   doctorID,
		Date:       date,
		Transcript: []DictationEntry{},
	}
}

// Field returns the text of a section.
func (n *Note) Field(s Section) string {
	switch s {
	case SectionSubjective:
		return n.Subjective
	case SectionObjective:
		return n.Objective
	case SectionAssessment:
		return n.Assessment
	case SectionPlan:
		return n.Plan
	}
	return ""
}

// SetField replaces the text of a section. Unknown sections are ignored.
func (n *Note) SetField(s Section, text string) {
	switch s {
	case SectionSubjective:
		n.Subjective = text
	case SectionObjective:
		n.Objective = text
	case SectionAssessment:
		n.Assessment = text
	case SectionPlan:
		n.Plan = text
	}
}

// AppendField appends text to a section, separated by a single space.
func (n *Note) AppendField(s Section, text string) {
	n.SetField(s, n.Field(s)+" "+text)
}

// AddEntry records a dictation entry in the transcript.
func (n *Note) AddEntry(entry DictationEntry) {
	n.Transcript = append(n.Transcript, entry)
}

// Cleaned returns a copy of the note with surrounding whitespace trimmed from every section.
func (n *Note) Cleaned() *Note {
	c := *n
	c.Subjective = strings.TrimSpace(n.Subjective)
	c.Objective = strings.TrimSpace(n.Objective)
	c.Assessment = strings.TrimSpace(n.Assessment)
	c.Plan = strings.TrimSpace(n.Plan)
	c.Transcript = append([]DictationEntry(nil), n.Transcript...)
	return &c
}
