package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/soapbox/internal/model"
)

const previewLength = 60

// FormatNoteList renders notes as a compact table, one row per note.
func FormatNoteList(notes []model.Note) string {
	if len(notes) == 0 {
		return SubtleStyle.Render("No notes found")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-6s %-17s %-8s %-6s %s", "ID", "Date", "Patient", "Doctor", "Subjective")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")
	for _, n := range notes {
		row := fmt.Sprintf("%-6d %-17s %-8s %-6s %s",
			n.ID, n.Date.Local().Format("2006-01-02 15:04"), n.PatientID, n.DoctorID, preview(n.Subjective))
		b.WriteString(TableCellStyle.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatNote renders every section of a note inside a box.
func FormatNote(note *model.Note) string {
	lines := []string{
		SubtleStyle.Render(fmt.Sprintf("Patient %s  Doctor %s  %s",
			note.PatientID, note.DoctorID, note.Date.Local().Format("2006-01-02 15:04:05"))),
	}
	for _, section := range model.Sections() {
		text := strings.TrimSpace(note.Field(section))
		if text == "" {
			text = SubtleStyle.Render(fmt.Sprintf("No %s data", section))
		}
		lines = append(lines, "", SectionStyle(section).Render(section.Title()), text)
	}
	return RenderBox(fmt.Sprintf("SOAP note #%d", note.ID), lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// FormatRecordList renders animal records as a table, newest first as given.
func FormatRecordList(records []model.AnimalRecord) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No animal records found")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-13s %-36s %-20s %-15s %-10s %s", "Serial", "ID", "Owner", "Animal", "Species", "Breed")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")
	for _, r := range records {
		row := fmt.Sprintf("%-13s %-36s %-20s %-15s %-10s %s",
			r.SerialNumber, r.ID, r.OwnerName(), r.AnimalName(), r.Species(), r.Breed())
		b.WriteString(TableCellStyle.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecord renders an extracted or stored animal record.
func FormatRecord(title string, draft *model.AnimalRecordDraft) string {
	var lines []string
	lines = append(lines, BoldStyle.Render("Owner Information"))
	for _, field := range model.OwnerFields() {
		lines = append(lines, fmt.Sprintf("  %-20s %s", field+":", draft.OwnerInfo[field]))
	}
	lines = append(lines, "", BoldStyle.Render("Animal Information"))
	for _, field := range model.AnimalFields() {
		lines = append(lines, fmt.Sprintf("  %-20s %s", field+":", draft.AnimalInfo[field]))
	}

	if len(draft.Reminders) > 0 {
		lines = append(lines, "", BoldStyle.Render("Reminders"))
		for _, r := range draft.Reminders {
			lines = append(lines, "  - "+r)
		}
	}

	lines = append(lines, "", BoldStyle.Render("Treatment"))
	rows := model.ParseTreatmentData(draft.TreatmentData)
	if len(rows) == 0 {
		lines = append(lines, SubtleStyle.Render("  No treatment rows"))
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %-10s %-10s %-40s %s", row.Date, row.Weight, row.Treatment, row.Charge))
	}
	return RenderBox(title, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len([]rune(text)) <= previewLength {
		return text
	}
	return string([]rune(text)[:previewLength-3]) + "..."
}
