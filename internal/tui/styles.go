package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRed     = lipgloss.Color("#FF5F5F")
	colorGreen   = lipgloss.Color("#5FD75F")
	colorYellow  = lipgloss.Color("#FFD75F")
	colorCyan    = lipgloss.Color("#5FD7FF")
	colorGray    = lipgloss.Color("#808080")
	colorMagenta = lipgloss.Color("#D75FD7")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	listeningStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	partialStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	transcriptStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	alertStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	dueStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorMagenta)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)
)
