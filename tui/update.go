package tui

import (
	"fmt"
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/open"
	"github.com/maboroshi-cli/maboroshi/query"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, tea.Batch(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case playerStartedMsg:
		return b, tea.Batch(append(cmds, b.onPlayerStarted(msg)...)...)
	case playerEventMsg:
		cmds = append(cmds, b.onPlayerEvent(msg.event)...)
		return b, tea.Batch(append(cmds, b.waitForPlayerEvent())...)
	case resolvedMsg:
		return b, tea.Batch(append(cmds, b.onResolved(msg)...)...)
	case searchResultMsg:
		b.onSearchResult(msg)
		return b, tea.Batch(cmds...)
	case tickMsg:
		cmds = append(cmds, b.onTick()...)
		return b, tea.Batch(append(cmds, b.tick())...)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case loadingState:
		cmd = b.updateLoading(msg)
	case favoritesState:
		cmd = b.updateFavorites(msg)
	case searchState:
		cmd = b.updateSearch(msg)
	case resultsState:
		cmd = b.updateResults(msg)
	case logState:
		cmd = b.updateLog(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateLoading(tea.Msg) tea.Cmd {
	return nil
}

// updatePlayback handles the keys that work on every list screen.
func (b *statefulBubble) updatePlayback(msg tea.KeyMsg) (tea.Cmd, bool) {
	session := b.machine.Snapshot()

	switch {
	case bubblesKey.Matches(msg, b.keymap.quit):
		return tea.Quit, true
	case bubblesKey.Matches(msg, b.keymap.playPause):
		return tea.Batch(b.apply(b.machine.TogglePause())...), true
	case bubblesKey.Matches(msg, b.keymap.stop):
		cmds := b.apply(b.machine.Stop())
		return tea.Batch(append(cmds, ui.Notify("stopped"))...), true
	case bubblesKey.Matches(msg, b.keymap.next):
		return tea.Batch(b.apply(b.machine.Next())...), true
	case bubblesKey.Matches(msg, b.keymap.cycleMode):
		mode := b.machine.CycleMode()
		b.events.Info("mode: %s", mode.Title())
		return ui.Notify("mode: " + mode.Title()), true
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		b.changeVolume(b.options.VolumeStep)
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		b.changeVolume(-b.options.VolumeStep)
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.seekForward):
		if session.Active() {
			b.report("seek", b.player.Seek(b.options.SeekStep))
		}
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.seekBackward):
		if session.Active() {
			b.report("seek", b.player.Seek(-b.options.SeekStep))
		}
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.search):
		b.inputC.SetValue("")
		b.searchSuggestion = query.Suggest("")
		b.inputC.Focus()
		b.newState(searchState)
		return nil, true
	case bubblesKey.Matches(msg, b.keymap.showLog):
		b.newState(logState)
		return nil, true
	}

	return nil, false
}

func (b *statefulBubble) openPage(t track.Track) tea.Cmd {
	if t.URL == "" {
		return ui.Notify("no page for " + t.Title)
	}

	if err := open.Start(t.URL); err != nil {
		log.Warnf("open %s: %v", t.URL, err)
		b.events.Warn("open %s: %v", t.URL, err)
		return nil
	}

	return ui.Notify("opened " + t.URL)
}

func (b *statefulBubble) updateFavorites(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := b.updatePlayback(msg); handled {
			return cmd
		}

		selected, hasSelection := selectedTrack(&b.favoritesC)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if hasSelection {
				return tea.Batch(b.apply(b.machine.PlayQueue(b.favoritesC.Index()))...)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.playQueue):
			return tea.Batch(b.apply(b.machine.PlayQueue(0))...)
		case bubblesKey.Matches(msg, b.keymap.remove), bubblesKey.Matches(msg, b.keymap.favorite):
			if hasSelection {
				return b.removeFavorite(selected)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if hasSelection {
				return b.openPage(selected)
			}
			return nil
		}
	}

	var cmd tea.Cmd
	b.favoritesC, cmd = b.favoritesC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.Blur()
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion):
			if suggestion, ok := b.searchSuggestion.Get(); ok {
				b.inputC.SetValue(suggestion)
				b.inputC.CursorEnd()
				b.searchSuggestion = query.Suggest(suggestion)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.changeSource):
			sources := track.Sources()
			_, i, _ := lo.FindIndexOf(sources, func(s track.Source) bool { return s == b.source })
			b.source = sources[(i+1)%len(sources)]
			b.updateSearchPlaceholder()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			q := strings.TrimSpace(b.inputC.Value())
			if q == "" {
				return nil
			}

			if err := query.Remember(q, 1); err != nil {
				log.Warnf("remember query: %v", err)
			}

			b.inputC.Blur()
			b.query, b.page = q, 0
			b.resultsC.ResetSelected()
			b.newState(resultsState)
			return b.runSearch()
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	b.searchSuggestion = query.Suggest(b.inputC.Value())
	return cmd
}

func (b *statefulBubble) runSearch() tea.Cmd {
	b.searching = true
	b.resultsC.Title = fmt.Sprintf("%s · %s · page %d", b.query, b.source.Name(), b.page+1)
	return tea.Batch(b.spinnerC.Tick, b.searchTracks(b.source, b.query, b.page))
}

func (b *statefulBubble) onSearchResult(msg searchResultMsg) {
	if msg.query != b.query || msg.page != b.page || msg.source != b.source {
		return
	}

	b.searching = false

	if msg.err != nil {
		log.Errorf("search %q: %v", msg.query, msg.err)
		b.events.Error("search %q failed: %v", msg.query, msg.err)
		b.resultsC.SetItems(nil)
		return
	}

	current := b.currentID()
	items := lo.Map(msg.tracks, func(t track.Track, _ int) list.Item {
		return &listItem{track: t, favorite: b.favorites.Contains(t.ID), playing: t.ID == current}
	})
	b.resultsC.SetItems(items)
	b.resultsC.ResetSelected()

	if len(items) == 0 {
		b.events.Info("no results for %q on page %d", msg.query, msg.page+1)
	}
}

func (b *statefulBubble) updateResults(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		selected, hasSelection := selectedTrack(&b.resultsC)

		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if hasSelection {
				return tea.Batch(b.apply(b.machine.Select(selected))...)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.favorite):
			if hasSelection {
				return b.toggleFavorite(selected)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.nextPage):
			if b.searching || len(b.resultsC.Items()) == 0 {
				return nil
			}
			b.page++
			return b.runSearch()
		case bubblesKey.Matches(msg, b.keymap.prevPage):
			if b.searching || b.page == 0 {
				return nil
			}
			b.page--
			return b.runSearch()
		case bubblesKey.Matches(msg, b.keymap.openURL):
			if hasSelection {
				return b.openPage(selected)
			}
			return nil
		}

		if cmd, handled := b.updatePlayback(msg); handled {
			return cmd
		}
	}

	var cmd tea.Cmd
	b.resultsC, cmd = b.resultsC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateLog(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if bubblesKey.Matches(msg, b.keymap.back) {
			b.previousState()
			return nil
		}
		cmd, _ := b.updatePlayback(msg)
		return cmd
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.retry):
			b.lastError = nil
			b.restarting = true
			b.progressStatus = "Restarting player"
			b.setState(loadingState)
			return tea.Batch(b.spinnerC.Tick, b.startPlayer())
		}
	}
	return nil
}
