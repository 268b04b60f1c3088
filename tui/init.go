package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the player and arms the event, tick and spinner loops.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		b.spinnerC.Tick,
		b.startPlayer(),
		b.waitForPlayerEvent(),
		b.tick(),
	)
}
