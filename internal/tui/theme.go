package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	styleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("219"))

	styleDone = lipgloss.NewStyle().
			Faint(true).
			Strikethrough(true)

	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(1, 2)

	styleFilter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75"))
)
