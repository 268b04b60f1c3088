package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/track"
)

type (
	playerStartedMsg struct{ err error }
	playerEventMsg   struct{ event player.Event }
	tickMsg          time.Time

	resolvedMsg struct {
		seq    uint64
		track  track.Track
		stream cache.ResolvedStream
		err    error
	}

	searchResultMsg struct {
		query  string
		source track.Source
		page   int
		tracks []track.Track
		err    error
	}
)

func (b *statefulBubble) startPlayer() tea.Cmd {
	p := b.player
	return func() tea.Msg {
		return playerStartedMsg{err: p.Start(context.Background())}
	}
}

// waitForPlayerEvent delivers the next player event. It is re-armed after every event.
func (b *statefulBubble) waitForPlayerEvent() tea.Cmd {
	events := b.player.Events()
	return func() tea.Msg {
		return playerEventMsg{event: <-events}
	}
}

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.options.Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// resolve runs the resolver off the event loop with a hard timeout.
func (b *statefulBubble) resolve(r playback.Resolve) tea.Cmd {
	var (
		res     = b.resolver
		timeout = b.options.ResolveTimeout
	)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		started := time.Now()
		stream, err := res.Resolve(ctx, r.Track)
		if err == nil && stream.URL == "" {
			err = resolver.ErrNotFound
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && err != nil && !errors.Is(err, resolver.ErrTimeout) {
			err = errors.Join(resolver.ErrTimeout, err)
		}

		log.Debugf("resolution of %s finished in %s", r.Track.ID, time.Since(started))
		return resolvedMsg{seq: r.Seq, track: r.Track, stream: stream, err: err}
	}
}

func (b *statefulBubble) searchTracks(source track.Source, query string, page int) tea.Cmd {
	s := b.searcher
	return func() tea.Msg {
		if s == nil {
			return searchResultMsg{query: query, source: source, page: page, err: errors.New("search is not available")}
		}

		tracks, err := s.Search(context.Background(), source, query, page)
		return searchResultMsg{query: query, source: source, page: page, tracks: tracks, err: err}
	}
}
