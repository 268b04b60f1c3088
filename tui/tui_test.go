package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/maboroshi-cli/maboroshi/favorites"
	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakePlayer struct {
	running  bool
	starts   int
	startErr error
	loads    []string
	tag      uint64
	stops    int
	paused   bool
	volume   int
	events   chan player.Event
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{events: make(chan player.Event, 16)}
}

func (p *fakePlayer) Start(context.Context) error {
	p.starts++
	if p.startErr != nil {
		return p.startErr
	}
	p.running = true
	return nil
}

func (p *fakePlayer) Running() bool { return p.running }

func (p *fakePlayer) do(f func()) error {
	if !p.running {
		return player.ErrNotRunning
	}
	f()
	return nil
}

func (p *fakePlayer) Load(url string, tag uint64) error {
	return p.do(func() {
		p.loads = append(p.loads, url)
		p.tag = tag
	})
}

func (p *fakePlayer) Pause() error             { return p.do(func() { p.paused = true }) }
func (p *fakePlayer) Resume() error            { return p.do(func() { p.paused = false }) }
func (p *fakePlayer) Stop() error              { return p.do(func() { p.stops++ }) }
func (p *fakePlayer) SetVolume(v int) error    { return p.do(func() { p.volume = v }) }
func (p *fakePlayer) Seek(time.Duration) error { return p.do(func() {}) }
func (p *fakePlayer) Events() <-chan player.Event {
	return p.events
}
func (p *fakePlayer) Shutdown(context.Context) error {
	p.running = false
	return nil
}

// countingResolver resolves every track to a URL derived from its id, except broken ones.
type countingResolver struct {
	mu     sync.Mutex
	calls  map[string]int
	broken map[string]bool
}

func (r *countingResolver) Resolve(_ context.Context, t track.Track) (cache.ResolvedStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[t.ID]++
	if r.broken[t.ID] {
		return cache.ResolvedStream{}, resolver.ErrExtractor
	}
	return cache.ResolvedStream{TrackID: t.ID, URL: "https://cdn.example/" + t.ID, ResolvedAt: time.Now()}, nil
}

func (r *countingResolver) total() int {
	return lo.Sum(lo.Values(r.calls))
}

type failingStore struct{}

func (failingStore) Load() ([]track.Track, error) { return nil, nil }
func (failingStore) Save([]track.Track) error     { return errors.New("read-only filesystem") }

func song(title string) track.Track {
	return track.New(track.YouTube, title, title, "", mo.None[time.Duration](), "https://example.com/"+title)
}

type harness struct {
	bubble   *statefulBubble
	player   *fakePlayer
	resolver *countingResolver
}

func newHarness(mode playback.Mode, tracks ...track.Track) *harness {
	h := &harness{
		player:   newFakePlayer(),
		resolver: &countingResolver{calls: map[string]int{}, broken: map[string]bool{}},
	}

	h.bubble = newBubble(&Options{
		Player:    h.player,
		Resolver:  h.resolver,
		Favorites: favorites.New(tracks...),
		Mode:      mode,
		Volume:    80,
	})

	h.bubble.onPlayerStarted(playerStartedMsg{err: h.player.Start(context.Background())})
	return h
}

// settle runs resolution commands synchronously and feeds their results back.
func (h *harness) settle(cmds []tea.Cmd) {
	for len(cmds) > 0 {
		cmd := cmds[0]
		cmds = cmds[1:]
		if cmd == nil {
			continue
		}

		switch msg := cmd().(type) {
		case resolvedMsg:
			cmds = append(cmds, h.bubble.onResolved(msg)...)
		case playerStartedMsg:
			cmds = append(cmds, h.bubble.onPlayerStarted(msg)...)
		}
	}
}

// loaded confirms the current load the way mpv would.
func (h *harness) loaded() {
	h.settle(h.bubble.onPlayerEvent(player.FileLoaded{Tag: h.player.tag}))
}

func (h *harness) entries(level ui.Level) []ui.Entry {
	return lo.Filter(h.bubble.events.Entries(), func(e ui.Entry, _ int) bool { return e.Level == level })
}

func TestOrchestrator(t *testing.T) {
	Convey("Given a session with three favorites", t, func() {
		h := newHarness(playback.ListLoop, song("a"), song("b"), song("c"))
		b := h.bubble

		So(b.state, ShouldEqual, favoritesState)
		So(h.player.volume, ShouldEqual, 80)

		Convey("A cache miss resolves, fills the cache and loads", func() {
			h.settle(b.apply(b.machine.PlayQueue(0)))

			So(h.resolver.calls["yt:a"], ShouldEqual, 1)
			So(h.player.loads, ShouldResemble, []string{"https://cdn.example/yt:a"})

			stream, ok := b.streams.Get("yt:a")
			So(ok, ShouldBeTrue)
			So(stream.URL, ShouldEqual, "https://cdn.example/yt:a")

			h.loaded()
			So(b.machine.Snapshot().State, ShouldEqual, playback.Playing)
		})

		Convey("A cached track is loaded without resolving", func() {
			b.streams.Put("yt:b", cache.ResolvedStream{TrackID: "yt:b", URL: "https://cdn.example/cached-b"})

			h.settle(b.apply(b.machine.PlayQueue(1)))
			So(h.resolver.total(), ShouldEqual, 0)
			So(h.player.loads, ShouldResemble, []string{"https://cdn.example/cached-b"})
		})

		Convey("SingleLoop consults the cache again at the end of the track", func() {
			b.machine.SetMode(playback.SingleLoop)
			h.settle(b.apply(b.machine.PlayQueue(2)))
			h.loaded()

			h.settle(b.onPlayerEvent(player.EndOfTrack{}))

			So(h.resolver.calls["yt:c"], ShouldEqual, 1)
			So(h.player.loads, ShouldHaveLength, 2)
			So(h.player.loads[1], ShouldEqual, h.player.loads[0])
		})

		Convey("ListLoop moves to the next favorite at the end of the track", func() {
			h.settle(b.apply(b.machine.PlayQueue(2)))
			h.loaded()

			h.settle(b.onPlayerEvent(player.EndOfTrack{}))
			So(h.player.loads[1], ShouldEqual, "https://cdn.example/yt:a")
		})

		Convey("A superseded resolution is discarded but still cached", func() {
			first := b.apply(b.machine.Select(song("a")))
			second := b.apply(b.machine.Select(song("b")))

			h.settle(second)
			h.settle(first)

			So(h.player.loads, ShouldResemble, []string{"https://cdn.example/yt:b"})
			So(b.machine.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:b")

			_, cached := b.streams.Get("yt:a")
			So(cached, ShouldBeTrue)
		})

		Convey("Broken favorites are skipped with a log entry each", func() {
			h.resolver.broken["yt:a"] = true
			h.resolver.broken["yt:b"] = true

			h.settle(b.apply(b.machine.Next()))
			h.loaded()

			So(b.machine.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:c")
			So(h.entries(ui.LevelWarn), ShouldHaveLength, 2)
			So(h.entries(ui.LevelError), ShouldBeEmpty)
			So(b.state, ShouldEqual, favoritesState)
		})

		Convey("When every favorite is broken there is one aggregated error", func() {
			for _, id := range []string{"yt:a", "yt:b", "yt:c"} {
				h.resolver.broken[id] = true
			}

			h.settle(b.apply(b.machine.Next()))

			So(h.resolver.total(), ShouldEqual, 3)
			So(h.entries(ui.LevelError), ShouldHaveLength, 1)
			So(b.machine.Snapshot().State, ShouldEqual, playback.Idle)
			So(b.state, ShouldEqual, favoritesState)
		})

		Convey("A load the player rejects drops the cached URL and skips", func() {
			h.player.running = false

			h.settle(b.apply(b.machine.PlayQueue(0)))

			_, cached := b.streams.Get("yt:a")
			So(cached, ShouldBeFalse)
			So(len(h.entries(ui.LevelWarn)), ShouldBeGreaterThan, 0)
		})

		Convey("The player exiting goes Idle and restarts it", func() {
			h.settle(b.apply(b.machine.PlayQueue(0)))
			h.loaded()
			h.player.running = false

			h.settle(b.onPlayerEvent(player.ProcessExited{Code: 1}))

			So(h.player.starts, ShouldEqual, 2)
			So(h.player.running, ShouldBeTrue)
			So(b.restarting, ShouldBeFalse)
			So(b.machine.Snapshot().State, ShouldEqual, playback.Idle)
			So(h.entries(ui.LevelError), ShouldHaveLength, 1)
		})

		Convey("A failed restart shows the startup failure screen", func() {
			h.player.running = false
			h.player.startErr = player.ErrStartup

			h.settle(b.onPlayerEvent(player.TransportError{Reason: "control connection closed"}))

			So(b.state, ShouldEqual, errorState)
			So(errors.Is(b.lastError, player.ErrStartup), ShouldBeTrue)
		})

		Convey("The tick notices a player that went away silently", func() {
			h.player.running = false
			h.settle(b.onTick())
			So(h.player.starts, ShouldEqual, 2)
		})

		Convey("Pause and stop reach the player", func() {
			h.settle(b.apply(b.machine.PlayQueue(0)))
			h.loaded()

			h.settle(b.apply(b.machine.TogglePause()))
			So(h.player.paused, ShouldBeTrue)

			h.settle(b.apply(b.machine.Stop()))
			So(h.player.stops, ShouldEqual, 1)
			So(b.machine.Snapshot().State, ShouldEqual, playback.Idle)
		})

		Convey("A late confirmation of a superseded load is ignored", func() {
			h.settle(b.apply(b.machine.PlayQueue(0)))
			stale := h.player.tag
			h.settle(b.apply(b.machine.PlayQueue(1)))

			h.settle(b.onPlayerEvent(player.FileLoaded{Tag: stale}))
			So(b.machine.Snapshot().State, ShouldNotEqual, playback.Playing)

			h.loaded()
			So(b.machine.Snapshot().State, ShouldEqual, playback.Playing)
			So(b.machine.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:b")
		})

		Convey("Skipping past the end in sequential mode silences the player", func() {
			b.machine.SetMode(playback.Sequential)
			h.settle(b.apply(b.machine.PlayQueue(2)))
			h.loaded()

			h.settle(b.apply(b.machine.Next()))
			So(h.player.stops, ShouldEqual, 1)
			So(b.machine.Snapshot().State, ShouldEqual, playback.Idle)
		})

		Convey("Volume is clamped", func() {
			b.changeVolume(50)
			So(h.player.volume, ShouldEqual, 100)
			b.changeVolume(-500)
			So(h.player.volume, ShouldEqual, 0)
		})

		Convey("Removing the playing favorite keeps the queue order for the next advancement", func() {
			h.settle(b.apply(b.machine.PlayQueue(1)))
			h.loaded()

			b.removeFavorite(song("b"))
			So(b.favorites.Len(), ShouldEqual, 2)

			h.settle(b.onPlayerEvent(player.EndOfTrack{}))
			So(h.player.loads[len(h.player.loads)-1], ShouldEqual, "https://cdn.example/yt:c")
		})
	})

	Convey("Given favorites that cannot be saved", t, func() {
		queue, _ := favorites.Open(failingStore{})
		b := newBubble(&Options{Player: newFakePlayer(), Resolver: resolver.Func(nil), Favorites: queue})

		Convey("Toggling keeps the in-memory queue and logs the failure", func() {
			b.toggleFavorite(song("a"))
			So(queue.Len(), ShouldEqual, 1)
			So(b.events.Last(1)[0].Level, ShouldEqual, ui.LevelError)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a session waiting for search results", t, func() {
		h := newHarness(playback.ListLoop)
		b := h.bubble
		b.query, b.page, b.searching = "lofi", 0, true
		b.setState(resultsState)

		Convey("Results for the current query are listed with favorite marks", func() {
			_, _ = b.favorites.Add(song("x"))
			b.onSearchResult(searchResultMsg{query: "lofi", page: 0, source: b.source, tracks: []track.Track{song("x"), song("y")}})

			So(b.searching, ShouldBeFalse)
			So(b.resultsC.Items(), ShouldHaveLength, 2)
			So(b.resultsC.Items()[0].(*listItem).favorite, ShouldBeTrue)
		})

		Convey("Results for an older query are dropped", func() {
			b.onSearchResult(searchResultMsg{query: "old", page: 0, source: b.source, tracks: []track.Track{song("x")}})
			So(b.searching, ShouldBeTrue)
			So(b.resultsC.Items(), ShouldBeEmpty)
		})

		Convey("A failed search is logged", func() {
			b.onSearchResult(searchResultMsg{query: "lofi", page: 0, source: b.source, err: resolver.ErrTimeout})
			So(h.entries(ui.LevelError), ShouldHaveLength, 1)
		})

		Convey("A selected result plays without joining the queue", func() {
			h.settle(b.apply(b.machine.Select(song("y"))))
			h.loaded()

			So(b.machine.Snapshot().Position, ShouldEqual, -1)
			So(b.favorites.Len(), ShouldEqual, 0)
		})
	})
}
