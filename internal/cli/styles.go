// Package cli provides styled terminal output and line input for the soap commands.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/soapbox/internal/model"
)

// Palette.
var (
	PrimaryColor = lipgloss.Color("#4A90D9")
	SuccessColor = lipgloss.Color("#5CB85C")
	WarningColor = lipgloss.Color("#F0AD4E")
	ErrorColor   = lipgloss.Color("#D9534F")
	InfoColor    = lipgloss.Color("#5BC0DE")
	SubtleColor  = lipgloss.Color("#777777")
	BorderColor  = lipgloss.Color("#3A3F4B")
)

// sectionColors tints each SOAP section the same way in every view.
var sectionColors = map[model.Section]lipgloss.Color{
	model.SectionSubjective: lipgloss.Color("#E8A87C"),
	model.SectionObjective:  lipgloss.Color("#85DCB0"),
	model.SectionAssessment: lipgloss.Color("#C38D9E"),
	model.SectionPlan:       lipgloss.Color("#41B3A3"),
}

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	PromptStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	// BoxStyle frames a note or record.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	NoteIcon    = "🩺"
	MicIcon     = "🎙️"
	PawIcon     = "🐾"
)

// SectionStyle returns the heading style for a SOAP section.
func SectionStyle(section model.Section) lipgloss.Style {
	color, ok := sectionColors[section]
	if !ok {
		color = PrimaryColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// FormatSuccess prefixes message with a check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError prefixes message with a cross.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning prefixes message with a warning sign.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo prefixes message with an info sign.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a heading with the stethoscope icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(NoteIcon + " " + title)
}

// FormatPrompt renders an input label followed by an arrow.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
