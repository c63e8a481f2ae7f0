package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/mono/internal/ui/style"
)

var (
	lanePendingStyle = lipgloss.NewStyle().
				Foreground(style.Slate)

	laneRunningStyle = lipgloss.NewStyle().
				Foreground(style.Indigo).
				Bold(true)

	laneDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	laneErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	durationStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Indigo).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Indigo).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			Padding(0, 1)

	logStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.Slate)
)
