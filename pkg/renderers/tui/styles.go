package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	PrimaryColor = lipgloss.Color("#2563EB")
	ErrorColor   = lipgloss.Color("#DC2626")
	MutedColor   = lipgloss.Color("#6B7280")
	TextColor    = lipgloss.Color("#F9FAFB")
)

// Layout bounds in cells.
const (
	MinViewWidth = 40
	MaxViewWidth = 100
)

// Theme groups the styles used to draw a view.
type Theme struct {
	Title   lipgloss.Style
	Overlay lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Error   lipgloss.Style
	Preview lipgloss.Style
}

// DefaultTheme returns the built-in styles.
func DefaultTheme() Theme {
	return Theme{
		Title: lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true),
		Overlay: lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true),
		Label: lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(12),
		Value: lipgloss.NewStyle().
			Foreground(TextColor),
		Error: lipgloss.NewStyle().
			Foreground(ErrorColor),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1),
	}
}

// viewWidth clamps the terminal width to the drawable range.
func viewWidth(cols int) int {
	if cols < MinViewWidth {
		return MinViewWidth
	}
	if cols > MaxViewWidth {
		return MaxViewWidth
	}
	return cols
}
