package notes

import (
	"fmt"
	"strings"

	"github.com/Veraticus/soapbox/internal/model"
)

const summaryRule = "=================================================="

// FormatSummary renders a note as plain text with one block per section.
// Empty sections print a "No <section> data" placeholder.
func FormatSummary(note *model.Note) string {
	if note == nil {
		return "No active SOAP note"
	}

	var b strings.Builder
	b.WriteString(summaryRule + "\n")
	b.WriteString("SOAP NOTE SUMMARY\n")
	b.WriteString(summaryRule + "\n")
	fmt.Fprintf(&b, "Patient ID: %s\n", note.PatientID)
	fmt.Fprintf(&b, "Doctor ID: %s\n", note.DoctorID)
	fmt.Fprintf(&b, "Date: %s\n", note.Date.Format("2006-01-02 15:04:05"))

	for _, section := range model.Sections() {
		text := strings.TrimSpace(note.Field(section))
		if text == "" {
			text = fmt.Sprintf("No %s data", section)
		}
		fmt.Fprintf(&b, "\n%s:\n%s\n", section.Title(), text)
	}
	b.WriteString(summaryRule + "\n")
	return b.String()
}
