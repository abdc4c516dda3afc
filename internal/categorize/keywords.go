// Package categorize routes free-text dictation into SOAP note sections.
package categorize

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/soapbox/internal/model"
	"gopkg.in/yaml.v3"
)

// Keywords holds the substrings that route text to each section.
type Keywords struct {
	Subjective []string `yaml:"subjective"`
	Objective  []string `yaml:"objective"`
	Assessment []string `yaml:"assessment"`
	Plan       []string `yaml:"plan"`
}

// DefaultKeywords returns the built-in keyword table.
func DefaultKeywords() Keywords {
	return Keywords{
		Subjective: []string{
			"patient reports", "complains of", "states", "feels", "describes",
			"history", "symptoms", "pain", "discomfort", "experienced",
		},
		Objective: []string{
			"vital signs", "blood pressure", "temperature", "examination",
			"observed", "physical", "heart rate", "respiratory", "weight",
		},
		Assessment: []string{
			"diagnosis", "impression", "assessment", "likely", "rule out",
			"differential", "condition", "disorder", "disease",
		},
		Plan: []string{
			"plan", "treatment", "medication", "follow up", "prescribe",
			"recommend", "therapy", "surgery", "procedure",
		},
	}
}

// For returns the keywords of a section.
func (k Keywords) For(s model.Section) []string {
	switch s {
	case model.SectionSubjective:
		return k.Subjective
	case model.SectionObjective:
		return k.Objective
	case model.SectionAssessment:
		return k.Assessment
	case model.SectionPlan:
		return k.Plan
	}
	return nil
}

// Merge returns a table with other's keywords appended after k's.
func (k Keywords) Merge(other Keywords) Keywords {
	return Keywords{
		Subjective: appendCopy(k.Subjective, other.Subjective),
		Objective:  appendCopy(k.Objective, other.Objective),
		Assessment: appendCopy(k.Assessment, other.Assessment),
		Plan:       appendCopy(k.Plan, other.Plan),
	}
}

// Clone returns a deep copy of the table.
func (k Keywords) Clone() Keywords {
	return Keywords{}.Merge(k)
}

// DecodeKeywords reads a YAML keyword table.
func DecodeKeywords(r io.Reader) (Keywords, error) {
	var k Keywords
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&k); err != nil {
		if err == io.EOF {
			return Keywords{}, nil
		}
		return Keywords{}, fmt.Errorf("invalid keyword table: %w", err)
	}
	return k, nil
}

// LoadKeywords reads a YAML keyword table from path.
func LoadKeywords(path string) (Keywords, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return Keywords{}, fmt.Errorf("failed to open keyword file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeKeywords(f)
}

// EncodeKeywords writes the table as YAML.
func EncodeKeywords(w io.Writer, k Keywords) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(k); err != nil {
		return fmt.Errorf("failed to encode keyword table: %w", err)
	}
	return enc.Close()
}

func appendCopy(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
