package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/soapbox/internal/categorize"
	"github.com/Veraticus/soapbox/internal/model"
	"github.com/Veraticus/soapbox/internal/notes"
	"github.com/Veraticus/soapbox/internal/testutil"
	"github.com/Veraticus/soapbox/internal/tui/themes"
)

func newTestModel(t *testing.T) (Model, *notes.Desk, *testutil.TestDB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	mgr := notes.NewManager(db.Storage, db.Storage, categorize.NewCategorizer(categorize.DefaultKeywords()),
		notes.WithClock(func() time.Time { return time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC) }))
	desk := notes.NewDesk(mgr)
	_, err := desk.Start(context.Background(), "P0001", "D001")
	require.NoError(t, err)
	return NewModel(context.Background(), desk, themes.Default), desk, db
}

func typeLine(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestModel_Dictation(t *testing.T) {
	m, desk, _ := newTestModel(t)

	m = typeLine(t, m, "Patient reports headache for 3 days")
	assert.Equal(t, " Patient reports headache for 3 days", desk.Current().Note().Subjective)
	assert.Empty(t, m.input.Value())

	m = typeLine(t, m, "plan")
	assert.Equal(t, model.SectionPlan, m.state.Section)

	m = typeLine(t, m, "hydrate")
	assert.Equal(t, " hydrate", desk.Current().Note().Plan)

	view := m.View()
	assert.Contains(t, view, "SOAP Dictation")
	assert.Contains(t, view, "Patient P0001")
	assert.Contains(t, view, "hydrate")
	assert.Contains(t, view, "No objective data")
}

func TestModel_KeyBindings(t *testing.T) {
	m, desk, _ := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.SpeakerSubject, m.state.Speaker)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, model.SpeakerPractitioner, m.state.Speaker)

	wantSections := []model.Section{
		model.SectionSubjective,
		model.SectionObjective,
		model.SectionAssessment,
		model.SectionPlan,
		"",
	}
	for _, want := range wantSections {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
		assert.Equal(t, want, m.state.Section)
	}

	m = typeLine(t, m, "temperature 101F")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, desk.Current())
	require.NotNil(t, m.Saved())
	assert.NotZero(t, m.Saved().ID)
	assert.Contains(t, m.Saved().Objective, "temperature 101F")

	// Saving finishes the screen.
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
}

func TestModel_Quit(t *testing.T) {
	t.Run("escape", func(t *testing.T) {
		m, desk, _ := newTestModel(t)
		m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
		assert.NotNil(t, desk.Current())
	})

	t.Run("typed quit", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		m.input.SetValue("quit")
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.True(t, next.(Model).quitting)
	})
}

func TestModel_WindowSize(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 114, m.input.Width)
}

func TestModel_LogIsBounded(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < maxLogLines+5; i++ {
		m = typeLine(t, m, "doctor")
	}
	assert.Len(t, m.log, maxLogLines)
}

func TestNextSectionCommand(t *testing.T) {
	assert.Equal(t, "subjective", nextSectionCommand(""))
	assert.Equal(t, "plan", nextSectionCommand(model.SectionAssessment))
	assert.Equal(t, "auto", nextSectionCommand(model.SectionPlan))
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, themes.CatppuccinMocha.Primary, themes.ByName("catppuccin").Primary)
	assert.Equal(t, themes.Default.Primary, themes.ByName("unknown").Primary)
}
