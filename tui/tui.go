// Package tui is the interactive front end and the orchestrator that drives
// playback: it routes keys, player events, resolver completions and ticks into
// the playback state machine and carries out the resulting effects.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/maboroshi-cli/maboroshi/favorites"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/internal/ui"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/track"
)

// Options wires the collaborators and settings of a session.
type Options struct {
	Player    player.Player
	Resolver  resolver.Resolver
	Searcher  resolver.Searcher
	Cache     *cache.Cache
	Favorites *favorites.Queue

	Mode   playback.Mode
	Source track.Source

	Volume     int
	VolumeStep int
	SeekStep   time.Duration

	ResolveTimeout time.Duration
	Tick           time.Duration
	LogLines       int

	// Warnings are shown in the event log on startup.
	Warnings []string
}

func (o *Options) normalize() {
	if o.VolumeStep <= 0 {
		o.VolumeStep = 5
	}
	if o.SeekStep <= 0 {
		o.SeekStep = 10 * time.Second
	}
	if o.ResolveTimeout <= 0 {
		o.ResolveTimeout = 10 * time.Second
	}
	if o.Tick <= 0 {
		o.Tick = 200 * time.Millisecond
	}
	if o.LogLines <= 0 {
		o.LogLines = ui.DefaultLogLines
	}
	if o.Favorites == nil {
		o.Favorites = favorites.New()
	}
	if o.Cache == nil {
		o.Cache = cache.New(cache.Options{})
	}
}

// Run starts the interface and blocks until the user quits. The player is
// shut down before Run returns.
func Run(options *Options) error {
	bubble := newBubble(options)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := options.Player.Shutdown(ctx); err != nil {
			log.Errorf("shutdown player: %v", err)
		}
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
