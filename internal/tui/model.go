// Package tui provides the terminal dictation screen.
package tui

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/soapbox/internal/common"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/notes"
	"github.com/Veraticus/soapbox/internal/tui/themes"
)

const maxLogLines = 8

// logLevel styles an activity line.
type logLevel int

const (
	levelInfo logLevel = iota
	levelSuccess
	levelError
)

type logLine struct {
	text  string
	level logLevel
}

// Model is the bubbletea model of the dictation screen. It drives the
// current session of a notes.Desk.
type Model struct {
	ctx      context.Context
	desk     *notes.Desk
	saved    *model.Note
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	input    textinput.Model
	state    notes.DictationState
	log      []logLine
	width    int
	height   int
	quitting bool
}

// NewModel creates the dictation screen for the desk's current session.
func NewModel(ctx context.Context, desk *notes.Desk, theme themes.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Dictate, or type a command (doctor, patient, plan, auto, save, quit)"
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	return Model{
		ctx:    ctx,
		desk:   desk,
		theme:  theme,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		input:  input,
		state:  notes.DictationState{Speaker: model.SpeakerPractitioner},
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-6)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keymap.ToggleSpeaker):
			if m.state.Speaker == model.SpeakerPractitioner {
				return m.apply("patient")
			}
			return m.apply("doctor")
		case key.Matches(msg, m.keymap.NextSection):
			return m.apply(nextSectionCommand(m.state.Section))
		case key.Matches(msg, m.keymap.Save):
			return m.apply("save")
		case key.Matches(msg, m.keymap.Submit):
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			return m.apply(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply runs one utterance through the shared dictation command handling.
func (m Model) apply(text string) (tea.Model, tea.Cmd) {
	if m.desk.Current() == nil && notes.ParseCommand(text).Kind == notes.CommandDictate {
		m.addLog(levelError, "No active SOAP note. Start one with: soap note new")
		return m, nil
	}

	var out bytes.Buffer
	wasActive := m.desk.Current()
	done, err := m.state.Apply(m.ctx, m.desk, text, &out)
	if err != nil {
		m.addLog(levelError, common.UserMessage(err))
		return m, nil
	}

	if wasActive != nil && m.desk.Current() == nil {
		m.saved = wasActive.Note()
		m.addLog(levelSuccess, "SOAP note saved")
	} else if line := lastLine(out.String()); line != "" {
		m.addLog(levelInfo, line)
	}

	if done {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) addLog(level logLevel, text string) {
	m.log = append(m.log, logLine{text: text, level: level})
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

// Saved returns the note saved during this screen, or nil.
func (m Model) Saved() *model.Note {
	return m.saved
}

func nextSectionCommand(current model.Section) string {
	sections := model.Sections()
	if current == "" {
		return string(sections[0])
	}
	for i, s := range sections {
		if s == current && i+1 < len(sections) {
			return string(sections[i+1])
		}
	}
	return "auto"
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
