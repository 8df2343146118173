package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorRed       = lipgloss.Color("#E06C75")
	ColorGreen     = lipgloss.Color("#98C379")
	ColorYellow    = lipgloss.Color("#E5C07B")
	ColorBlue      = lipgloss.Color("#61AFEF")
	ColorMagenta   = lipgloss.Color("#C678DD")
	ColorBorder    = lipgloss.Color("#3F4451")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			PaddingLeft(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	SelectedTypeStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true)

	// Session view
	FeedbackStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	GoalReachedStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1)
)
