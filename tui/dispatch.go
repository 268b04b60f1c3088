package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
)

// apply carries out effects in order. Work that may block is returned as
// commands; everything else happens here.
func (b *statefulBubble) apply(effects []playback.Effect) []tea.Cmd {
	var cmds []tea.Cmd

	for _, effect := range effects {
		switch e := effect.(type) {
		case playback.Resolve:
			if stream, ok := b.streams.Get(e.Track.ID); ok {
				log.Debugf("cache hit for %s", e.Track.ID)
				cmds = append(cmds, b.apply(b.machine.Resolved(e.Seq, e.Track.ID, stream.URL))...)
				continue
			}

			log.Debugf("cache miss for %s", e.Track.ID)
			cmds = append(cmds, b.resolve(e))
		case playback.Load:
			if err := b.player.Load(e.URL, e.Seq); err != nil {
				// a URL the player refuses will not get better on retry
				b.streams.Remove(e.Track.ID)
				cmds = append(cmds, b.apply(b.machine.LoadRejected(e.Seq, err))...)
			}
		case playback.Pause:
			b.report("pause", b.player.Pause())
		case playback.Resume:
			b.report("resume", b.player.Resume())
		case playback.Stop:
			if err := b.player.Stop(); err != nil && !errors.Is(err, player.ErrNotRunning) {
				b.report("stop", err)
			}
		case playback.Notice:
			b.events.Add(levelOf(e.Severity), e.Text)
		}
	}

	b.refreshFavorites()
	return cmds
}

func levelOf(s playback.Severity) ui.Level {
	switch s {
	case playback.Warn:
		return ui.LevelWarn
	case playback.Error:
		return ui.LevelError
	default:
		return ui.LevelInfo
	}
}

func (b *statefulBubble) report(what string, err error) {
	if err == nil {
		return
	}
	log.Warnf("%s: %v", what, err)
	b.events.Warn("%s: %v", what, err)
}

// onResolved feeds a resolver completion into the machine. Successful
// resolutions are cached even when the machine has moved on.
func (b *statefulBubble) onResolved(msg resolvedMsg) []tea.Cmd {
	if msg.err != nil {
		return b.apply(b.machine.ResolveFailed(msg.seq, msg.track.ID, msg.err))
	}

	stream := msg.stream
	stream.TrackID = msg.track.ID
	b.streams.Put(msg.track.ID, stream)

	return b.apply(b.machine.Resolved(msg.seq, msg.track.ID, stream.URL))
}

// onPlayerEvent feeds a player event into the machine and restarts the
// player when it went away.
func (b *statefulBubble) onPlayerEvent(event player.Event) []tea.Cmd {
	switch ev := event.(type) {
	case player.PositionUpdate:
		b.machine.Progress(ev.Elapsed, ev.Total)
		return nil
	case player.FileLoaded:
		cmds := b.apply(b.machine.FileLoaded(ev.Tag))
		if t, ok := b.machine.Snapshot().Track.Get(); ok && b.machine.Snapshot().State == playback.Playing {
			b.events.Info("playing %s", t.Label())
		}
		return cmds
	case player.EndOfTrack:
		return b.apply(b.machine.EndOfTrack(ev.Tag))
	case player.LoadFailed:
		return b.apply(b.machine.LoadFailed(ev.Tag, ev.Reason))
	case player.PauseChanged:
		log.Tracef("player reports pause=%t", ev.Paused)
		return nil
	case player.ProcessExited, player.TransportError:
		log.Warnf("player went away: %s", ev)
		cmds := b.apply(b.machine.PlayerExited(ev.String()))
		return append(cmds, b.restartPlayer())
	}

	return nil
}

func (b *statefulBubble) restartPlayer() tea.Cmd {
	if b.restarting {
		return nil
	}

	b.restarting = true
	b.events.Info("restarting player")
	return b.startPlayer()
}

func (b *statefulBubble) onPlayerStarted(msg playerStartedMsg) []tea.Cmd {
	b.restarting = false

	if msg.err != nil {
		log.Errorf("player startup: %v", msg.err)
		b.raiseError(fmt.Errorf("could not start the player: %w", msg.err))
		return nil
	}

	b.report("volume", b.player.SetVolume(b.volume))
	if b.state == loadingState {
		b.setState(favoritesState)
	}

	return nil
}

// onTick checks the player is still reachable.
func (b *statefulBubble) onTick() []tea.Cmd {
	if b.restarting || b.state == loadingState || b.state == errorState {
		return nil
	}

	if !b.player.Running() {
		log.Warn("player is not running, restarting")
		cmds := b.apply(b.machine.PlayerExited("player is not running"))
		return append(cmds, b.restartPlayer())
	}

	return nil
}

func (b *statefulBubble) changeVolume(delta int) {
	b.volume = lo.Clamp(b.volume+delta, 0, 100)
	b.report("volume", b.player.SetVolume(b.volume))
}

func (b *statefulBubble) toggleFavorite(t track.Track) tea.Cmd {
	added, removedAt, err := b.favorites.Toggle(t)
	b.machine.QueueChanged(removedAt)
	b.refreshFavorites()

	if err != nil {
		b.events.Error("%v", err)
	}

	if added {
		return ui.Notify("added " + t.Title)
	}
	return ui.Notify("removed " + t.Title)
}

func (b *statefulBubble) removeFavorite(t track.Track) tea.Cmd {
	removedAt, err := b.favorites.Remove(t.ID)
	if removedAt < 0 {
		return nil
	}

	b.machine.QueueChanged(removedAt)
	b.refreshFavorites()

	if err != nil {
		b.events.Error("%v", err)
	}
	return ui.Notify("removed " + t.Title)
}
