package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
)

// listItem wraps a track for the favorites and results lists.
type listItem struct {
	track    track.Track
	favorite bool
	playing  bool
}

func (t *listItem) Title() string {
	var sb strings.Builder
	sb.WriteString(t.track.Title)

	if t.playing {
		sb.WriteString(" ")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(icon.Get(icon.Playing)))
	}
	if t.favorite {
		sb.WriteString(" ")
		sb.WriteString(style.Fg(style.Pink)(icon.Get(icon.Favorite)))
	}

	return sb.String()
}

func (t *listItem) Description() string {
	parts := []string{t.track.FormatDuration()}
	if t.track.Artist != "" {
		parts = append(parts, t.track.Artist)
	}
	parts = append(parts, t.track.Source.Name())

	return style.Faint(strings.Join(parts, " · "))
}

func (t *listItem) FilterValue() string {
	return fmt.Sprintf("%s %s", t.track.Title, t.track.Artist)
}

func selectedTrack(l *list.Model) (track.Track, bool) {
	item, ok := l.SelectedItem().(*listItem)
	if !ok || item == nil {
		return track.Track{}, false
	}
	return item.track, true
}
