package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#7c3aed")
	muted   = lipgloss.Color("#737373")
	border  = lipgloss.Color("#404040")
	success = lipgloss.Color("#10b981")
	danger  = lipgloss.Color("#ef4444")
	warning = lipgloss.Color("#f59e0b")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa"))

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fafafa")).
			Background(primary).
			Padding(0, 2)

	tabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)

	labelStyle   = lipgloss.NewStyle().Foreground(muted)
	creditStyle  = lipgloss.NewStyle().Foreground(success)
	debitStyle   = lipgloss.NewStyle().Foreground(danger)
	noticeStyle  = lipgloss.NewStyle().Foreground(warning)
	statusStyle  = lipgloss.NewStyle().Foreground(success)
	spinnerStyle = lipgloss.NewStyle().Foreground(primary)
)
