package style

import "github.com/charmbracelet/lipgloss"

var (
	Base = lipgloss.Color("#1e1e2e")
	Text = lipgloss.Color("#cdd6f4")

	Pink     = lipgloss.Color("#f5c2e7")
	Mauve    = lipgloss.Color("#cba6f7")
	Red      = lipgloss.Color("#f38ba8")
	Yellow   = lipgloss.Color("#f9e2af")
	Lavender = lipgloss.Color("#b4befe")

	AccentColor  = Mauve
	WarningColor = Yellow
	ErrorColor   = Red
	HiRed        = Red
)
