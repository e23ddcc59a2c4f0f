package tui

import "github.com/charmbracelet/lipgloss"

// borderPadding accounts for the border and padding of BoxStyle.
const borderPadding = 4

// Shared styles for spritebatch terminal output.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values shared by views
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	SubtleStyle = lipgloss.NewStyle().Faint(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	BoxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)
