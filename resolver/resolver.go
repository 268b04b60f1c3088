// Package resolver turns tracks into playable stream URLs and finds tracks by query.
//
// Resolution and search are delegated to yt-dlp. Every error returned by this
// package wraps one of ErrNotFound, ErrExtractor or ErrTimeout.
package resolver

import (
	"context"
	"errors"

	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/track"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrExtractor = errors.New("extractor failure")
	ErrTimeout   = errors.New("timeout")
)

// Resolver produces a playable stream for a track within its own time budget.
type Resolver interface {
	Resolve(ctx context.Context, t track.Track) (cache.ResolvedStream, error)
}

// Searcher lists tracks matching a query, one page at a time.
type Searcher interface {
	Search(ctx context.Context, source track.Source, query string, page int) ([]track.Track, error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, t track.Track) (cache.ResolvedStream, error)

func (f Func) Resolve(ctx context.Context, t track.Track) (cache.ResolvedStream, error) {
	return f(ctx, t)
}
