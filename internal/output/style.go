package output

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7C3AED")
	green   = lipgloss.Color("#10B981")
	red     = lipgloss.Color("#EF4444")
	yellow  = lipgloss.Color("#F59E0B")
	dim     = lipgloss.Color("#6B7280")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary)
	successStyle = lipgloss.NewStyle().Foreground(green)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(yellow)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	keyStyle     = lipgloss.NewStyle().Foreground(dim)
)
