package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type sliceQueue []track.Track

func (q sliceQueue) Len() int                 { return len(q) }
func (q sliceQueue) At(index int) track.Track { return q[index] }
func (q sliceQueue) IndexOf(id string) int {
	return lo.IndexOf(lo.Map(q, func(t track.Track, _ int) string { return t.ID }), id)
}

func makeQueue(titles ...string) sliceQueue {
	return lo.Map(titles, func(title string, _ int) track.Track {
		return track.New(track.YouTube, title, title, "", mo.None[time.Duration](), "https://example.com/"+title)
	})
}

var errBroken = errors.New("extractor failure")

func resolves(effects []Effect) []Resolve {
	return lo.FilterMap(effects, func(e Effect, _ int) (Resolve, bool) {
		r, ok := e.(Resolve)
		return r, ok
	})
}

func stops(effects []Effect) int {
	return lo.CountBy(effects, func(e Effect) bool {
		_, ok := e.(Stop)
		return ok
	})
}

func notices(effects []Effect, severity Severity) []Notice {
	return lo.Filter(lo.FilterMap(effects, func(e Effect, _ int) (Notice, bool) {
		n, ok := e.(Notice)
		return n, ok
	}), func(n Notice, _ int) bool { return n.Severity == severity })
}

// play drives a resolve effect through to a loaded file.
func play(m *Machine, r Resolve) []Effect {
	effects := m.Resolved(r.Seq, r.Track.ID, "https://cdn.example/"+r.Track.ID)
	So(effects, ShouldHaveLength, 1)
	So(effects[0].(Load).URL, ShouldEqual, "https://cdn.example/"+r.Track.ID)
	return m.FileLoaded(r.Seq)
}

// drive answers every Resolve with a failure for broken ids and success otherwise,
// collecting all effects until the machine settles.
func drive(m *Machine, effects []Effect, broken ...string) []Effect {
	all := effects
	for {
		rs := resolves(effects)
		if len(rs) == 0 {
			return all
		}

		r := rs[0]
		if lo.Contains(broken, r.Track.ID) {
			effects = m.ResolveFailed(r.Seq, r.Track.ID, errBroken)
		} else {
			effects = play(m, r)
		}
		all = append(all, effects...)
	}
}

func TestModes(t *testing.T) {
	Convey("ParseMode", t, func() {
		for alias, want := range map[string]Mode{
			"single":      SingleLoop,
			"single-loop": SingleLoop,
			"LIST_LOOP":   ListLoop,
			" loop ":      ListLoop,
			"seq":         Sequential,
			"sequential":  Sequential,
		} {
			got, err := ParseMode(alias)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		_, err := ParseMode("shufle")
		So(errors.Is(err, ErrUnknownMode), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "did you mean")
	})

	Convey("Modes cycle in a closed loop", t, func() {
		So(SingleLoop.Next(), ShouldEqual, ListLoop)
		So(ListLoop.Next(), ShouldEqual, Sequential)
		So(Sequential.Next(), ShouldEqual, SingleLoop)
	})

	Convey("Modes round-trip through text", t, func() {
		var m Mode
		So(m.UnmarshalText([]byte("list")), ShouldBeNil)
		So(m, ShouldEqual, ListLoop)

		text, err := Sequential.MarshalText()
		So(err, ShouldBeNil)
		So(string(text), ShouldEqual, "sequential")
	})
}

func TestMachine(t *testing.T) {
	Convey("Given a machine over a three track queue", t, func() {
		queue := makeQueue("a", "b", "c")
		m := New(ListLoop, queue)

		So(m.Snapshot().State, ShouldEqual, Idle)

		Convey("Playing a queue entry goes through Loading to Playing", func() {
			effects := m.PlayQueue(1)
			rs := resolves(effects)
			So(rs, ShouldHaveLength, 1)
			So(rs[0].Track.ID, ShouldEqual, "yt:b")

			s := m.Snapshot()
			So(s.State, ShouldEqual, Loading)
			So(s.Resolving, ShouldBeTrue)
			So(s.Position, ShouldEqual, 1)

			play(m, rs[0])
			So(m.Snapshot().State, ShouldEqual, Playing)

			Convey("Pause toggles both ways", func() {
				So(m.TogglePause(), ShouldResemble, []Effect{Pause{}})
				So(m.Snapshot().State, ShouldEqual, Paused)
				So(m.TogglePause(), ShouldResemble, []Effect{Resume{}})
				So(m.Snapshot().State, ShouldEqual, Playing)
			})

			Convey("Progress is recorded", func() {
				m.Progress(42*time.Second, mo.Some(3*time.Minute))
				s := m.Snapshot()
				So(s.Elapsed, ShouldEqual, 42*time.Second)
				So(s.Total.MustGet(), ShouldEqual, 3*time.Minute)
			})

			Convey("Stop goes Idle and stops the player", func() {
				So(m.Stop(), ShouldResemble, []Effect{Stop{}})
				So(m.Snapshot().State, ShouldEqual, Idle)
				So(m.Snapshot().Track.IsAbsent(), ShouldBeTrue)
				So(m.Stop(), ShouldBeEmpty)
			})

			Convey("Changing mode does not interrupt the track", func() {
				So(m.CycleMode(), ShouldEqual, Sequential)
				So(m.Snapshot().State, ShouldEqual, Playing)
				So(m.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:b")
			})
		})

		Convey("At the last index, ListLoop wraps to the head", func() {
			play(m, resolves(m.PlayQueue(2))[0])

			rs := resolves(m.EndOfTrack(m.seq))
			So(rs, ShouldHaveLength, 1)
			So(rs[0].Track.ID, ShouldEqual, "yt:a")
			So(m.Snapshot().Position, ShouldEqual, 0)
		})

		Convey("At the last index, Sequential goes Idle", func() {
			m.SetMode(Sequential)
			play(m, resolves(m.PlayQueue(2))[0])

			So(resolves(m.EndOfTrack(m.seq)), ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("SingleLoop reloads the same track", func() {
			m.SetMode(SingleLoop)
			first := resolves(m.PlayQueue(1))[0]
			play(m, first)

			rs := resolves(m.EndOfTrack(m.seq))
			So(rs, ShouldHaveLength, 1)
			So(rs[0].Track.ID, ShouldEqual, first.Track.ID)
			So(rs[0].Seq, ShouldBeGreaterThan, first.Seq)
			So(m.Snapshot().State, ShouldEqual, Loading)
		})

		Convey("A failed SingleLoop reload goes Idle with one failure", func() {
			m.SetMode(SingleLoop)
			play(m, resolves(m.PlayQueue(0))[0])

			all := drive(m, m.EndOfTrack(m.seq), "yt:a")
			So(notices(all, Error), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("Broken entries are skipped from startup", func() {
			for _, mode := range []Mode{ListLoop, Sequential} {
				m := New(mode, queue)

				all := drive(m, m.Next(), "yt:a", "yt:b")

				s := m.Snapshot()
				So(s.State, ShouldEqual, Playing)
				So(s.Position, ShouldEqual, 2)
				So(s.Track.MustGet().ID, ShouldEqual, "yt:c")
				So(notices(all, Warn), ShouldHaveLength, 2)
				So(notices(all, Error), ShouldBeEmpty)
			}
		})

		Convey("When every entry is broken, one pass ends Idle with one aggregated failure", func() {
			for _, mode := range []Mode{ListLoop, Sequential} {
				m := New(mode, queue)

				all := drive(m, m.Next(), "yt:a", "yt:b", "yt:c")

				So(resolves(all), ShouldHaveLength, 3)
				So(m.Snapshot().State, ShouldEqual, Idle)
				So(notices(all, Warn), ShouldHaveLength, 3)
				So(notices(all, Error), ShouldHaveLength, 1)
			}
		})

		Convey("A ListLoop pass that wraps still stops after one pass", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			all := drive(m, m.EndOfTrack(m.seq), "yt:a", "yt:b", "yt:c")
			So(notices(all, Warn), ShouldHaveLength, 3)
			So(notices(all, Error), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("Player load failures skip like resolution failures", func() {
			r := resolves(m.PlayQueue(0))[0]
			m.Resolved(r.Seq, r.Track.ID, "https://cdn.example/a")

			effects := m.LoadFailed(r.Seq, "unrecognized file format")
			So(notices(effects, Warn), ShouldHaveLength, 1)
			So(resolves(effects)[0].Track.ID, ShouldEqual, "yt:b")
		})

		Convey("A superseded resolution is discarded", func() {
			a := resolves(m.PlayQueue(0))[0]
			b := resolves(m.Select(queue[1]))[0]

			So(m.Resolved(a.Seq, a.Track.ID, "https://cdn.example/a"), ShouldBeEmpty)
			So(m.ResolveFailed(a.Seq, a.Track.ID, errBroken), ShouldBeEmpty)

			s := m.Snapshot()
			So(s.State, ShouldEqual, Loading)
			So(s.Track.MustGet().ID, ShouldEqual, "yt:b")

			effects := m.Resolved(b.Seq, b.Track.ID, "https://cdn.example/b")
			So(effects, ShouldHaveLength, 1)
			So(effects[0].(Load).Track.ID, ShouldEqual, "yt:b")
		})

		Convey("A resolution arriving after stop is discarded", func() {
			r := resolves(m.PlayQueue(0))[0]
			m.Stop()
			So(m.Resolved(r.Seq, r.Track.ID, "https://cdn.example/a"), ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("A search result outside the queue", func() {
			outsider := makeQueue("z")[0]
			effects := drive(m, m.Select(outsider))
			So(resolves(effects), ShouldHaveLength, 1)
			So(m.Snapshot().Position, ShouldEqual, -1)

			Convey("Does not advance into the queue", func() {
				So(m.EndOfTrack(m.seq), ShouldBeEmpty)
				So(m.Snapshot().State, ShouldEqual, Idle)
			})

			Convey("Fails without skipping", func() {
				m := New(ListLoop, queue)
				all := drive(m, m.Select(outsider), "yt:z")
				So(resolves(all), ShouldHaveLength, 1)
				So(notices(all, Error), ShouldHaveLength, 1)
				So(m.Snapshot().State, ShouldEqual, Idle)
			})
		})

		Convey("Skipping past the end in Sequential silences the last track", func() {
			m.SetMode(Sequential)
			play(m, resolves(m.PlayQueue(2))[0])

			effects := m.Next()
			So(stops(effects), ShouldEqual, 1)
			So(notices(effects, Info), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
			So(m.Stop(), ShouldBeEmpty)
		})

		Convey("A skip run that finds nothing stops the track it was started from", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			all := drive(m, m.Next(), "yt:b", "yt:c", "yt:a")
			So(stops(all), ShouldEqual, 1)
			So(notices(all, Error), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("A selection that cannot be resolved stops the track still playing", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			all := drive(m, m.Select(makeQueue("z")[0]), "yt:z")
			So(stops(all), ShouldEqual, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("A skip run after a natural end has nothing to stop", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			all := drive(m, m.EndOfTrack(m.seq), "yt:a", "yt:b", "yt:c")
			So(stops(all), ShouldBeZeroValue)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})

		Convey("A rejected load while another track sounds stops it", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			b := resolves(m.Select(makeQueue("z")[0]))[0]
			m.Resolved(b.Seq, b.Track.ID, "https://cdn.example/z")
			effects := m.LoadRejected(b.Seq, errBroken)
			So(stops(effects), ShouldEqual, 1)
		})

		Convey("Player events of a superseded load are ignored", func() {
			a := resolves(m.PlayQueue(0))[0]
			m.Resolved(a.Seq, a.Track.ID, "https://cdn.example/a")
			b := resolves(m.Select(queue[1]))[0]
			m.Resolved(b.Seq, b.Track.ID, "https://cdn.example/b")

			So(m.FileLoaded(a.Seq), ShouldBeEmpty)
			So(m.LoadFailed(a.Seq, "late failure"), ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Loading)
			So(m.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:b")

			m.FileLoaded(b.Seq)
			So(m.Snapshot().State, ShouldEqual, Playing)
			So(m.EndOfTrack(a.Seq), ShouldBeEmpty)
			So(m.Snapshot().Track.MustGet().ID, ShouldEqual, "yt:b")

			Convey("Untagged events are still accepted", func() {
				rs := resolves(m.EndOfTrack(0))
				So(rs[0].Track.ID, ShouldEqual, "yt:c")
			})
		})

		Convey("The player exiting drops the session", func() {
			play(m, resolves(m.PlayQueue(0))[0])

			effects := m.PlayerExited("process exited with code 1")
			So(notices(effects, Error), ShouldHaveLength, 1)
			So(m.Snapshot().State, ShouldEqual, Idle)
			So(m.EndOfTrack(m.seq), ShouldBeEmpty)
		})

		Convey("Events out of place are ignored", func() {
			So(m.FileLoaded(0), ShouldBeEmpty)
			So(m.LoadFailed(0, "x"), ShouldBeEmpty)
			So(m.EndOfTrack(m.seq), ShouldBeEmpty)
			So(m.TogglePause(), ShouldBeEmpty)
			So(m.Snapshot().State, ShouldEqual, Idle)
		})
	})
}

func TestQueueChanged(t *testing.T) {
	Convey("Given a machine playing the second of four tracks", t, func() {
		queue := makeQueue("a", "b", "c", "d")
		m := New(ListLoop, &queue)

		play(m, resolves(m.PlayQueue(1))[0])

		Convey("Removing an earlier entry keeps the track anchored by id", func() {
			queue = append(queue[:0:0], queue[1:]...)
			m.QueueChanged(0)
			So(m.Snapshot().Position, ShouldEqual, 0)
		})

		Convey("Removing the current entry plays the one that slid into place next", func() {
			queue = lo.Reject([]track.Track(queue), func(t track.Track, _ int) bool { return t.ID == "yt:b" })
			m.QueueChanged(1)

			rs := resolves(m.EndOfTrack(m.seq))
			So(rs[0].Track.ID, ShouldEqual, "yt:c")
		})

		Convey("Adding a search result that is playing anchors it", func() {
			outsider := makeQueue("z")[0]
			drive(m, m.Select(outsider))
			So(m.Snapshot().Position, ShouldEqual, -1)

			queue = append(queue, outsider)
			m.QueueChanged(-1)
			So(m.Snapshot().Position, ShouldEqual, 4)
		})
	})
}
