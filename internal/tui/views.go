package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/soapbox/internal/model"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderSections(),
		m.renderLog(),
		m.theme.ActiveBox.Render(m.input.View()),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("SOAP Dictation")

	session := m.desk.Current()
	var who string
	switch {
	case session != nil:
		note := session.Note()
		who = fmt.Sprintf("Patient %s · Doctor %s · %s",
			note.PatientID, note.DoctorID, note.Date.Local().Format("2006-01-02 15:04"))
	default:
		who = "No active note"
	}

	section := "auto"
	if m.state.Section != "" {
		section = string(m.state.Section)
	}
	status := fmt.Sprintf("%s %s",
		m.theme.Selected.Render(string(m.state.Speaker)),
		m.theme.Subtitle.Render("section: "+section))

	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Subtitle.Render(who), status)
}

func (m Model) renderSections() string {
	var note *model.Note
	if session := m.desk.Current(); session != nil {
		note = session.Note()
	}

	width := 38
	if m.width > 0 {
		width = max(24, m.width/2-4)
	}

	boxes := make([]string, 0, 4)
	for _, section := range model.Sections() {
		text := ""
		if note != nil {
			text = strings.TrimSpace(note.Field(section))
		}
		if text == "" {
			text = m.theme.StatusPending.Render(fmt.Sprintf("No %s data", section))
		}

		style := m.theme.BorderedBox
		if section == m.state.Section {
			style = m.theme.ActiveBox
		}
		body := lipgloss.JoinVertical(lipgloss.Left, m.theme.Bold.Render(section.Title()), text)
		boxes = append(boxes, style.Width(width).Render(body))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], boxes[1])
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, boxes[2], boxes[3])
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func (m Model) renderLog() string {
	if len(m.log) == 0 {
		return m.theme.StatusPending.Render("Ready")
	}
	lines := make([]string, 0, len(m.log))
	for _, l := range m.log {
		switch l.level {
		case levelSuccess:
			lines = append(lines, m.theme.StatusSuccess.Render("✓ "+l.text))
		case levelError:
			lines = append(lines, m.theme.StatusError.Render("✗ "+l.text))
		default:
			lines = append(lines, m.theme.StatusInfo.Render(l.text))
		}
	}
	return strings.Join(lines, "\n")
}
