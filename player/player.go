// Package player owns the external mpv process and its JSON-IPC control channel.
//
// A Manager spawns mpv with --input-ipc-server, waits for the socket, and keeps a
// single connection open for the whole session. Commands are written to that
// connection; everything mpv reports comes back on the Events channel.
package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotRunning is returned by every command while no process is attached.
	ErrNotRunning = errors.New("player not running")
	// ErrStartup wraps every failure of the startup sequence.
	ErrStartup = errors.New("player startup failed")
)

// Player is the command surface the orchestrator drives.
type Player interface {
	// Start runs the startup sequence. It is a no-op while a process is attached.
	Start(ctx context.Context) error

	// Running reports whether commands can currently be delivered.
	Running() bool

	// Load replaces whatever is playing with url. The outcome events of this
	// file carry tag.
	Load(url string, tag uint64) error

	Pause() error
	Resume() error

	// Stop ends playback but keeps the process alive.
	Stop() error

	// SetVolume clamps volume to 0..100.
	SetVolume(volume int) error

	// Seek moves playback by offset relative to the current position.
	Seek(offset time.Duration) error

	// Events is subscribed to once and stays valid across restarts.
	Events() <-chan Event

	// Shutdown asks the process to quit, killing it after the grace period.
	Shutdown(ctx context.Context) error
}
