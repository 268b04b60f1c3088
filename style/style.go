// Package style holds the render helpers shared by the CLI output and the TUI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/maboroshi-cli/maboroshi/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer that paints text with c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return colored(c, "").Render(s) }
}

// Truncate returns a renderer that pads or cuts text to width columns.
func Truncate(width int) func(string) string {
	return func(s string) string { return New().Width(width).MaxHeight(1).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a screen heading.
var Title = func(s string) string {
	return colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

// ErrorTitle renders the heading of the startup failure screen.
var ErrorTitle = func(s string) string {
	return colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}
