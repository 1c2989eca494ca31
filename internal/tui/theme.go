package tui

import (
	huh "github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// NewHuhTheme returns the Charm theme recoloured with the expressgen palette
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeCharm()

	t.Focused.Base = t.Focused.Base.BorderForeground(purple)
	t.Focused.Title = t.Focused.Title.Foreground(purple).Bold(true)
	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(purple).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(grey)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(green)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(green)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(green)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(purple)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
