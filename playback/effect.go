package playback

import (
	"fmt"

	"github.com/maboroshi-cli/maboroshi/track"
)

// Effect is an instruction the orchestrator carries out after a transition.
type Effect interface {
	effect()
}

// Resolve asks for a stream URL. Seq identifies the request; completions
// carrying another Seq are stale.
type Resolve struct {
	Seq   uint64
	Track track.Track
}

// Load hands a resolved URL to the player.
type Load struct {
	Seq   uint64
	Track track.Track
	URL   string
}

type (
	Pause  struct{}
	Resume struct{}
	Stop   struct{}
)

// Severity grades a Notice.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

// Notice is a line for the event log.
type Notice struct {
	Severity Severity
	Text     string
}

func notice(severity Severity, format string, args ...any) Notice {
	return Notice{Severity: severity, Text: fmt.Sprintf(format, args...)}
}

func (Resolve) effect() {}
func (Load) effect()    {}
func (Pause) effect()   {}
func (Resume) effect()  {}
func (Stop) effect()    {}
func (Notice) effect()  {}
