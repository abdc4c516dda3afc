// Package themes defines the color schemes for the dictation screen.
package themes

import "github.com/charmbracelet/lipgloss"

// Palette is the handful of colors a theme is derived from.
type Palette struct {
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Accent  lipgloss.Color
	OnFill  lipgloss.Color
	Border  lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Theme holds the styles used by the dictation screen.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	BorderedBox   lipgloss.Style
	ActiveBox     lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
}

// New derives a theme from a palette.
func New(p Palette) Theme {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Theme{
		Primary:  p.Accent,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Subtitle: lipgloss.NewStyle().Foreground(p.Dim),
		Bold:     lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Selected: lipgloss.NewStyle().Bold(true).Padding(0, 1).
			Background(p.Accent).Foreground(p.OnFill),
		// Section boxes: the one receiving dictation is highlighted.
		BorderedBox:   box.BorderForeground(p.Border),
		ActiveBox:     box.BorderForeground(p.Accent),
		StatusSuccess: lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		StatusError:   lipgloss.NewStyle().Bold(true).Foreground(p.Error),
		StatusInfo:    lipgloss.NewStyle().Foreground(p.Info),
		StatusPending: lipgloss.NewStyle().Italic(true).Foreground(p.Dim),
	}
}

var (
	// Default uses the clinic blue of the CLI output.
	Default = New(Palette{
		Text:    "#fafafa",
		Dim:     "#a3a3a3",
		Accent:  "#4A90D9",
		OnFill:  "#fafafa",
		Border:  "#404040",
		Success: "#10b981",
		Error:   "#ef4444",
		Info:    "#3b82f6",
	})

	// CatppuccinMocha is the Catppuccin Mocha flavor.
	CatppuccinMocha = New(Palette{
		Text:    "#cdd6f4",
		Dim:     "#a6adc8",
		Accent:  "#89b4fa",
		OnFill:  "#1e1e2e",
		Border:  "#45475a",
		Success: "#a6e3a1",
		Error:   "#f38ba8",
		Info:    "#89dceb",
	})
)

// ByName returns the theme configured by ui.theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
