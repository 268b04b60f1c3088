// Package ui holds small pieces of TUI state: the transient status
// notification and the bounded event log.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const notificationLifetime = 3 * time.Second

var notificationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Model shows one short-lived notification next to the help line.
type Model struct {
	notification string
	generation   int
}

// NotifyMsg sets the notification.
type NotifyMsg string

type clearNotificationMsg struct {
	generation int
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotifyMsg(text)
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotifyMsg:
		m.notification = string(msg)
		m.generation++
		generation := m.generation
		return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
			return clearNotificationMsg{generation: generation}
		})
	case clearNotificationMsg:
		// a newer notification owns the slot
		if msg.generation == m.generation {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the visible notification, if any.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.notification == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + notificationStyle.Render(m.notification)
	return strings.Join(lines, "\n")
}
