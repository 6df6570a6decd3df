package render

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Failure   = lipgloss.Color("#F43F5E") // Rose
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Theme holds the styles applied to rendered output when color is enabled.
type Theme struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	ID      lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Hint    lipgloss.Style
	Border  lipgloss.Style
}

// ColorTheme is used when color output is enabled.
func ColorTheme() Theme {
	return Theme{
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary),

		Label: lipgloss.NewStyle().
			Foreground(TextDim),

		ID: lipgloss.NewStyle().
			Foreground(Secondary),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Failure).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(TextDim).
			Italic(true),

		Border: lipgloss.NewStyle().
			Foreground(Border),
	}
}
