package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	purple = lipgloss.Color("#7D56F4")
	green  = lipgloss.Color("#04B575")
	grey   = lipgloss.Color("#888888")

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(purple).
			MarginBottom(1)

	// Progress percentage styling
	ProgressStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true)

	// Help text styling
	HelpStyle = lipgloss.NewStyle().
			Foreground(grey).
			MarginTop(1)

	// Error styling
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	// Success styling
	SuccessStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	// Subtle text styling
	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// Percent renders a progress marker such as "[42%]"
func Percent(p int) string {
	return ProgressStyle.Render(fmt.Sprintf("[%d%%]", p))
}
