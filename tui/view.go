package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case favoritesState:
		output = b.withPlayer(b.favoritesC.View())
	case searchState:
		output = b.viewSearch()
	case resultsState:
		output = b.withPlayer(b.viewResults())
	case logState:
		output = b.viewLog()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search " + b.source.Name()),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok && suggestion != strings.ToLower(strings.TrimSpace(b.inputC.Value())) {
		lines = append(lines, "", style.Faint(icon.Get(icon.Search)+" "+suggestion))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewResults() string {
	if b.searching {
		return listExtraPaddingStyle.Render(style.Title(b.resultsC.Title) + "\n\n" + b.spinnerC.View() + " Searching...")
	}
	return b.resultsC.View()
}

// withPlayer renders content above the now playing panel and the recent events.
func (b *statefulBubble) withPlayer(content string) string {
	sections := []string{
		listExtraPaddingStyle.Render(content),
		b.viewNowPlaying(),
		b.viewEvents(logLines),
		b.helpC.View(b.keymap),
	}

	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(sections, "\n"))
}

func stateIcon(s playback.State) string {
	switch s {
	case playback.Playing:
		return icon.Get(icon.Playing)
	case playback.Paused:
		return icon.Get(icon.Paused)
	case playback.Loading:
		return icon.Get(icon.Progress)
	default:
		return icon.Get(icon.Stopped)
	}
}

func modeIcon(m playback.Mode) string {
	switch m {
	case playback.SingleLoop:
		return icon.Get(icon.SingleLoop)
	case playback.Sequential:
		return icon.Get(icon.Sequential)
	default:
		return icon.Get(icon.ListLoop)
	}
}

func (b *statefulBubble) viewNowPlaying() string {
	session := b.machine.Snapshot()

	title := style.Faint("nothing playing")
	if t, ok := session.Track.Get(); ok {
		title = style.Fg(color.Purple)(t.Label())
		if session.Position >= 0 {
			title += style.Faint(fmt.Sprintf("  [%d/%d]", session.Position+1, b.favorites.Len()))
		}
	}

	var status string
	switch {
	case session.State == playback.Loading && session.Resolving:
		status = b.spinnerC.View() + " resolving"
	case session.State == playback.Loading:
		status = b.spinnerC.View() + " loading"
	default:
		ratio := 0.0
		total, known := session.Total.Get()
		if known && total > 0 {
			ratio = float64(session.Elapsed) / float64(total)
		}

		clock := track.Clock(session.Elapsed) + " / --:--"
		if known {
			clock = track.Clock(session.Elapsed) + " / " + track.Clock(total)
		}
		status = b.progressC.ViewAs(ratio) + " " + clock
	}

	info := style.Faint(fmt.Sprintf(
		"%s %s   %s %d%%   %s %s",
		modeIcon(session.Mode), session.Mode.Title(),
		icon.Get(icon.Volume), b.volume,
		icon.Get(icon.Search), b.source.Name(),
	))

	return strings.Join([]string{
		style.Truncate(b.width)(stateIcon(session.State) + " " + title),
		status,
		info,
		"",
	}, "\n")
}

func entryStyle(e ui.Entry) func(string) string {
	switch e.Level {
	case ui.LevelError:
		return style.Fg(style.ErrorColor)
	case ui.LevelWarn:
		return style.Fg(style.WarningColor)
	default:
		return style.Faint
	}
}

func (b *statefulBubble) viewEvents(n int) string {
	entries := b.events.Last(n)

	lines := make([]string, n)
	offset := n - len(entries)
	for i, e := range entries {
		lines[offset+i] = entryStyle(e)(truncate.StringWithTail(e.String(), uint(max(b.width, 20)), "…"))
	}

	return strings.Join(lines, "\n")
}

func (b *statefulBubble) viewLog() string {
	lines := []string{style.Title("Event log"), ""}
	for _, e := range b.events.Entries() {
		lines = append(lines, entryStyle(e)(wrap.String(e.String(), max(b.width, 20))))
	}
	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	var message string
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " The player could not be started:",
			"",
			wrap.String(errorStyle.Render(message), max(b.width, 20)),
			"",
			style.Faint("Check that mpv is installed (maboroshi check) and press r to retry."),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
