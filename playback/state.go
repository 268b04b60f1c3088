package playback

import (
	"time"

	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/mo"
)

// State is the coarse playback state.
type State int

const (
	Idle State = iota
	Loading
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Session is a read-only snapshot of the playback session.
type Session struct {
	State State
	Mode  Mode
	Track mo.Option[track.Track]

	// Position is the queue index of Track, or -1 when it did not come from the queue.
	Position int

	// Resolving is true while Loading waits for a stream URL rather than the player.
	Resolving bool

	Elapsed time.Duration
	Total   mo.Option[time.Duration]
}

// Active reports whether a track is Playing or Paused.
func (s Session) Active() bool {
	return s.State == Playing || s.State == Paused
}

// Queue is the ordered view of favorites the machine traverses.
type Queue interface {
	Len() int
	At(index int) track.Track
	IndexOf(id string) int
}
