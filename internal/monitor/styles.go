package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ipcam/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true)

	onlineStyle = lipgloss.NewStyle().
			Foreground(ui.SuccessColor).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.PrimaryColor).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Padding(1, 0, 0, 0)
)
