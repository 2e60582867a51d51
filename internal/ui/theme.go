package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Theme is an immutable set of styles. Values are passed into the render
// functions; switching themes replaces the value held by the model.
type Theme struct {
	name      string
	base      lipgloss.Style
	title     lipgloss.Style
	completed lipgloss.Style
	pending   lipgloss.Style
	cursor    lipgloss.Style
	status    lipgloss.Style
	dialog    lipgloss.Style
	warning   lipgloss.Style
	muted     lipgloss.Style
}

// Row colors match the classic completed/pending coding: green with white
// text for completed rows, light red with black text for pending ones.
var (
	completedBg = lipgloss.Color("#4CAF50")
	pendingBg   = lipgloss.Color("#FFCDD2")
	selectBg    = lipgloss.Color("#61afef")
	accent      = lipgloss.Color("#ffcc00")
)

// DarkTheme returns the dark theme.
func DarkTheme() Theme {
	fg := lipgloss.Color("#ffffff")
	bg := lipgloss.Color("#2c2c2c")
	return Theme{
		name:      ThemeDark,
		base:      lipgloss.NewStyle().Foreground(fg),
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		completed: lipgloss.NewStyle().Background(completedBg).Foreground(lipgloss.Color("#ffffff")),
		pending:   lipgloss.NewStyle().Background(pendingBg).Foreground(lipgloss.Color("#000000")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(selectBg),
		status:    lipgloss.NewStyle().Background(bg).Foreground(fg).Padding(0, 1),
		dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		warning:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#ff5f5f")).Padding(0, 1),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9e9e9e")),
	}
}

// LightTheme returns the light theme.
func LightTheme() Theme {
	fg := lipgloss.Color("#000000")
	bg := lipgloss.Color("#ffffff")
	return Theme{
		name:      ThemeLight,
		base:      lipgloss.NewStyle().Foreground(fg),
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#444444")),
		completed: lipgloss.NewStyle().Background(completedBg).Foreground(lipgloss.Color("#ffffff")),
		pending:   lipgloss.NewStyle().Background(pendingBg).Foreground(lipgloss.Color("#000000")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(selectBg),
		status:    lipgloss.NewStyle().Background(bg).Foreground(fg).Padding(0, 1),
		dialog:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#cccccc")).Padding(0, 1),
		warning:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#d32f2f")).Padding(0, 1),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("#757575")),
	}
}

// ThemeByName returns the named theme. Unknown names fall back to dark.
func ThemeByName(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ThemeDark:
		return DarkTheme(), true
	case ThemeLight:
		return LightTheme(), true
	}
	return DarkTheme(), false
}

// Name returns the theme name.
func (t Theme) Name() string { return t.name }

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t.name == ThemeLight {
		return DarkTheme()
	}
	return LightTheme()
}
