package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/notes"
	"github.com/Veraticus/soapbox/internal/tui/themes"
)

// RunDictation shows the dictation screen for the desk's current session and
// returns the note saved from it, if any.
func RunDictation(ctx context.Context, desk *notes.Desk, theme themes.Theme) (*model.Note, error) {
	if desk.Current() == nil {
		return nil, notes.ErrNoActiveNote
	}

	program := tea.NewProgram(NewModel(ctx, desk, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("dictation screen failed: %w", err)
	}

	if m, ok := final.(Model); ok {
		return m.Saved(), nil
	}
	return nil, nil
}
