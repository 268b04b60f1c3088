// Package playback holds the playback state machine.
//
// The Machine never performs I/O. Every transition returns the effects the
// caller must carry out (resolve a URL, load it, pause, ...) and the caller
// feeds the outcomes back in. It is owned by a single goroutine and is not
// safe for concurrent use.
package playback

import (
	"time"

	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/mo"
)

type phase int

const (
	resolving phase = iota
	starting
)

// skipRun tracks one pass of queue traversal that keeps skipping broken tracks.
type skipRun struct {
	budget int
	failed []string
}

type Machine struct {
	mode  Mode
	queue Queue

	state     State
	phase     phase
	current   mo.Option[track.Track]
	position  int
	fromQueue bool
	seq       uint64

	elapsed time.Duration
	total   mo.Option[time.Duration]

	// audible is set while the player holds a loaded file, which may belong
	// to a track the session has already moved past.
	audible bool

	run *skipRun
}

func New(mode Mode, queue Queue) *Machine {
	return &Machine{
		mode:     mode,
		queue:    queue,
		position: -1,
	}
}

// Snapshot returns a copy of the session for rendering.
func (m *Machine) Snapshot() Session {
	position := -1
	if m.fromQueue {
		position = m.position
	}

	return Session{
		State:     m.state,
		Mode:      m.mode,
		Track:     m.current,
		Position:  position,
		Resolving: m.state == Loading && m.phase == resolving,
		Elapsed:   m.elapsed,
		Total:     m.total,
	}
}

func (m *Machine) Mode() Mode { return m.mode }

// SetMode changes the mode. It only affects the next advancement decision.
func (m *Machine) SetMode(mode Mode) {
	if mode != m.mode {
		log.Infof("playback mode %s -> %s", m.mode, mode)
	}
	m.mode = mode
}

// CycleMode switches to the next mode and returns it.
func (m *Machine) CycleMode() Mode {
	m.SetMode(m.mode.Next())
	return m.mode
}

// Select plays a track picked outside the queue, such as a search result.
// If the track is a favorite it is anchored to its queue slot.
func (m *Machine) Select(t track.Track) []Effect {
	m.run = nil

	if i := m.queue.IndexOf(t.ID); i >= 0 {
		return m.load(t, i, true)
	}
	return m.load(t, -1, false)
}

// PlayQueue starts queue traversal at index.
func (m *Machine) PlayQueue(index int) []Effect {
	n := m.queue.Len()
	if n == 0 {
		return []Effect{notice(Warn, "favorites queue is empty")}
	}
	if index < 0 || index >= n {
		index = 0
	}

	return m.startRun(index)
}

// Next skips to the track after the current queue position, starting at the
// head when nothing from the queue is playing. Sequential mode stops at the end.
func (m *Machine) Next() []Effect {
	from := -1
	if m.fromQueue {
		from = m.position
	}

	index, ok := m.following(from, m.mode != Sequential)
	if !ok {
		return m.finish(notice(Info, "end of queue"))
	}
	return m.startRun(index)
}

// Resolved delivers a stream URL for request seq. Stale completions are ignored.
func (m *Machine) Resolved(seq uint64, trackID, url string) []Effect {
	if !m.awaiting(seq, trackID, resolving) {
		log.Debugf("discarding stale resolution of %s (seq %d, current %d)", trackID, seq, m.seq)
		return nil
	}

	m.phase = starting
	t := m.current.MustGet()
	log.Debugf("loading %s", t.ID)

	return []Effect{Load{Seq: seq, Track: t, URL: url}}
}

// ResolveFailed delivers a resolution error for request seq.
func (m *Machine) ResolveFailed(seq uint64, trackID string, err error) []Effect {
	if !m.awaiting(seq, trackID, resolving) {
		log.Debugf("discarding stale resolution failure of %s: %v", trackID, err)
		return nil
	}
	return m.fail("resolve", err.Error())
}

// LoadRejected reports that the player refused the load command outright.
func (m *Machine) LoadRejected(seq uint64, err error) []Effect {
	if m.state != Loading || m.phase != starting || seq != m.seq {
		return nil
	}
	return m.fail("load", err.Error())
}

// FileLoaded is the player confirming the load tagged seq.
// A zero seq is a player event that could not be matched to a load.
func (m *Machine) FileLoaded(seq uint64) []Effect {
	if m.state != Loading || m.phase != starting || !m.owns(seq) {
		return nil
	}

	t := m.current.MustGet()
	m.state = Playing
	m.audible = true
	m.elapsed = 0

	var effects []Effect
	if m.run != nil && len(m.run.failed) > 0 {
		effects = append(effects, notice(Info, "playing %s after skipping %d", t.Title, len(m.run.failed)))
	}
	m.run = nil

	log.Infof("playing %s", t)
	return effects
}

// LoadFailed is the player failing to open or keep decoding the file of load seq.
func (m *Machine) LoadFailed(seq uint64, reason string) []Effect {
	if !m.owns(seq) {
		return nil
	}

	switch {
	case m.state == Loading && m.phase == starting, m.state == Playing, m.state == Paused:
		m.audible = false
		return m.fail("load", reason)
	default:
		return nil
	}
}

// EndOfTrack applies the advancement policy of the current mode.
func (m *Machine) EndOfTrack(seq uint64) []Effect {
	if (m.state != Playing && m.state != Paused) || !m.owns(seq) {
		return nil
	}

	m.audible = false
	t := m.current.MustGet()

	switch m.mode {
	case SingleLoop:
		return m.load(t, m.position, m.fromQueue)
	case ListLoop, Sequential:
		if !m.fromQueue {
			return m.finish()
		}

		index, ok := m.following(m.position, m.mode == ListLoop)
		if !ok {
			return m.finish(notice(Info, "end of queue"))
		}
		return m.startRun(index)
	}

	return m.finish()
}

// Progress records the playback position reported by the player.
func (m *Machine) Progress(elapsed time.Duration, total mo.Option[time.Duration]) {
	if m.state != Playing && m.state != Paused {
		return
	}

	m.elapsed = elapsed
	if total.IsPresent() {
		m.total = total
	}
}

// TogglePause flips between Playing and Paused.
func (m *Machine) TogglePause() []Effect {
	switch m.state {
	case Playing:
		m.state = Paused
		return []Effect{Pause{}}
	case Paused:
		m.state = Playing
		return []Effect{Resume{}}
	default:
		return nil
	}
}

// Stop returns to Idle from any state and tells the player to stop.
func (m *Machine) Stop() []Effect {
	if m.state == Idle && !m.audible {
		return nil
	}

	m.audible = false
	m.reset()
	return []Effect{Stop{}}
}

// PlayerExited drops the session after the player process went away.
func (m *Machine) PlayerExited(reason string) []Effect {
	var effects []Effect
	if t, ok := m.current.Get(); ok && m.state != Idle {
		effects = append(effects, notice(Error, "player stopped while playing %s: %s", t.Title, reason))
	} else {
		effects = append(effects, notice(Warn, "player stopped: %s", reason))
	}

	m.audible = false
	m.reset()
	return effects
}

// QueueChanged re-anchors the queue position after a favorites edit.
// removedAt is the index that was removed, or -1 if nothing was removed.
func (m *Machine) QueueChanged(removedAt int) {
	t, ok := m.current.Get()
	if !ok {
		return
	}

	if i := m.queue.IndexOf(t.ID); i >= 0 {
		m.position, m.fromQueue = i, true
		return
	}

	if !m.fromQueue {
		return
	}

	switch {
	case removedAt < 0:
	case removedAt <= m.position:
		// the next advancement plays whatever slid into the removed slot
		m.position = removedAt - 1
	}

	if m.position >= m.queue.Len() {
		m.position = m.queue.Len() - 1
	}
}

func (m *Machine) awaiting(seq uint64, trackID string, p phase) bool {
	if m.state != Loading || m.phase != p || seq != m.seq {
		return false
	}
	t, ok := m.current.Get()
	return ok && t.ID == trackID
}

// owns reports whether a player event tagged seq belongs to the current load.
func (m *Machine) owns(seq uint64) bool {
	return seq == 0 || seq == m.seq
}

func (m *Machine) following(from int, wrap bool) (int, bool) {
	n := m.queue.Len()
	if n == 0 {
		return -1, false
	}

	next := from + 1
	if next < 0 {
		next = 0
	}
	if next >= n {
		if !wrap {
			return -1, false
		}
		next = 0
	}

	return next, true
}

func (m *Machine) startRun(index int) []Effect {
	m.run = &skipRun{budget: m.queue.Len()}
	return m.load(m.queue.At(index), index, true)
}

func (m *Machine) load(t track.Track, position int, fromQueue bool) []Effect {
	m.seq++
	m.state = Loading
	m.phase = resolving
	m.current = mo.Some(t)
	m.position = position
	m.fromQueue = fromQueue
	m.elapsed = 0
	m.total = t.Duration

	log.Debugf("resolving %s (seq %d, position %d)", t.ID, m.seq, position)
	return []Effect{Resolve{Seq: m.seq, Track: t}}
}

// fail handles a resolution or load failure of the current track. Queue
// traversal skips to the following track until one plays or a full pass failed.
func (m *Machine) fail(stage, reason string) []Effect {
	t := m.current.MustGet()
	log.Warnf("%s failed for %s: %s", stage, t, reason)

	if m.run == nil || m.mode == SingleLoop || !m.fromQueue {
		return append(m.reset(), notice(Error, "could not play %s (%s, %s): %s", t.Title, t.ID, stage, reason))
	}

	m.run.failed = append(m.run.failed, t.ID)
	effects := []Effect{notice(Warn, "skipping %s (%s, %s): %s", t.Title, t.ID, stage, reason)}

	if len(m.run.failed) >= m.run.budget {
		return append(effects, m.abandon()...)
	}

	index, ok := m.following(m.position, m.mode == ListLoop)
	if !ok {
		return append(effects, m.abandon()...)
	}

	return append(effects, m.load(m.queue.At(index), index, true)...)
}

// abandon ends a skip run that found nothing playable, with one aggregated report.
func (m *Machine) abandon() []Effect {
	failed := len(m.run.failed)
	log.Errorf("no playable track after skipping %d", failed)
	return append(m.reset(), notice(Error, "no playable track in queue, %d failed", failed))
}

func (m *Machine) finish(effects ...Effect) []Effect {
	return append(m.reset(), effects...)
}

// reset moves to Idle. Bumping seq invalidates any outstanding resolution.
// A file still sounding from an earlier track is stopped.
func (m *Machine) reset() []Effect {
	var effects []Effect
	if m.audible {
		m.audible = false
		effects = append(effects, Stop{})
	}

	m.seq++
	m.state = Idle
	m.current = mo.None[track.Track]()
	m.fromQueue = false
	m.position = -1
	m.elapsed = 0
	m.total = mo.None[time.Duration]()
	m.run = nil

	return effects
}
