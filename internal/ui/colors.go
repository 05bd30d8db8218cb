package ui

import "github.com/charmbracelet/lipgloss"

// Color constants for the taskgraph theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383" // done tasks, hints, legends

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // headers, card borders
	ColorAccentBright = "#A78BFA" // section titles
	ColorInfo         = "#38BDF8" // scores, dependency labels

	// State Colors
	ColorError   = "#EF4444" // blocked, high priority, hot scores
	ColorSuccess = "#22C55E" // done, confirmations
	ColorWarning = "#F59E0B" // in progress, medium priority, warm scores
)

var (
	styleBold    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	styleSubtle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain)).Bold(true)
	styleSection = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	styleBorder  = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder))

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Width(cardWidth)
)

// Message styles used by commands for one-line feedback.
var (
	Header  = styleHeader.Render
	Dim     = styleDim.Render
	Success = styleSuccess.Render
	Warning = styleWarning.Render
	Error   = styleError.Render
	Info    = styleInfo.Render
)
