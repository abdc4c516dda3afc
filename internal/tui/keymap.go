package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts of the dictation screen.
type KeyMap struct {
	Submit        key.Binding
	ToggleSpeaker key.Binding
	NextSection   key.Binding
	Save          key.Binding
	ToggleHelp    key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "dictate"),
		),
		ToggleSpeaker: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch speaker"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "cycle section"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save note"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleSpeaker, k.NextSection, k.Save, k.Quit}
}

// FullHelp returns every binding grouped in columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Save},
		{k.ToggleSpeaker, k.NextSection},
		{k.ToggleHelp, k.Quit},
	}
}
