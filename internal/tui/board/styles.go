package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/steveyegge/launchgate/internal/ui"
)

// Styles for the board TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ui.ColorAccent)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ColorFail)

	successStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPass)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorAccent).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)
)
