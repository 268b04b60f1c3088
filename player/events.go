package player

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Event is anything the player process reports.
type Event interface {
	fmt.Stringer
	event()
}

// PositionUpdate carries the playback position, at most once per whole second.
type PositionUpdate struct {
	Elapsed time.Duration
	Total   mo.Option[time.Duration]
}

// Load outcomes carry the tag passed to Load, or 0 when the event could not be
// matched to a request.

// EndOfTrack is reported when the current file played to its end.
type EndOfTrack struct {
	Tag uint64
}

// FileLoaded is reported once mpv has opened the file handed to Load.
type FileLoaded struct {
	Tag uint64
}

// LoadFailed is reported when mpv could not open or decode the file.
type LoadFailed struct {
	Tag    uint64
	Reason string
}

// PauseChanged mirrors mpv's pause property.
type PauseChanged struct {
	Paused bool
}

// ProcessExited is reported when the process ends without Shutdown being called.
type ProcessExited struct {
	Code int
}

// TransportError is reported when the control connection fails while the process lives.
// The process is killed and the manager is not ready afterwards.
type TransportError struct {
	Reason string
}

func (PositionUpdate) event() {}
func (EndOfTrack) event()     {}
func (FileLoaded) event()     {}
func (LoadFailed) event()     {}
func (PauseChanged) event()   {}
func (ProcessExited) event()  {}
func (TransportError) event() {}

func (e PositionUpdate) String() string {
	if total, ok := e.Total.Get(); ok {
		return fmt.Sprintf("position %s/%s", e.Elapsed, total)
	}
	return fmt.Sprintf("position %s", e.Elapsed)
}

func (EndOfTrack) String() string { return "end of track" }
func (FileLoaded) String() string { return "file loaded" }

func (e LoadFailed) String() string     { return "load failed: " + e.Reason }
func (e PauseChanged) String() string   { return fmt.Sprintf("pause=%t", e.Paused) }
func (e ProcessExited) String() string  { return fmt.Sprintf("process exited with code %d", e.Code) }
func (e TransportError) String() string { return "transport error: " + e.Reason }
