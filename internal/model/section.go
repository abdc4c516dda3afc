// Package model defines the core domain models used throughout the application.
package model

import "strings"

// Section names one of the four parts of a SOAP note.
type Section string

// SOAP sections in categorization priority order.
const (
	SectionSubjective Section = "subjective"
	SectionObjective  Section = "objective"
	SectionAssessment Section = "assessment"
	SectionPlan       Section = "plan"
)

// SectionAll is the search field that matches any section.
const SectionAll = "all"

// Sections returns the four sections in priority order.
func Sections() []Section {
	return []Section{SectionSubjective, SectionObjective, SectionAssessment, SectionPlan}
}

// ParseSection resolves a section name case-insensitively.
// The second return value is false when name is not a SOAP section.
func ParseSection(name string) (Section, bool) {
	s := Section(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SectionSubjective, SectionObjective, SectionAssessment, SectionPlan:
		return s, true
	}
	return "", false
}

// Title returns the section name in upper case, as printed in summaries.
func (s Section) Title() string {
	return strings.ToUpper(string(s))
}

// Speaker identifies who produced a dictation entry.
type Speaker string

// Speaker roles.
const (
	SpeakerPractitioner Speaker = "practitioner"
	SpeakerSubject      Speaker = "subject"
)

// ParseSpeaker resolves a speaker role, accepting the clinical aliases used in dictation.
func ParseSpeaker(name string) (Speaker, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "practitioner", "doctor", "dr":
		return SpeakerPractitioner, true
	case "subject", "patient", "pt":
		return SpeakerSubject, true
	}
	return "", false
}
