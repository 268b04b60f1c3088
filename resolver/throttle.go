package resolver

import (
	"context"
	"fmt"

	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/track"
	"golang.org/x/time/rate"
)

// Throttled limits how often the wrapped resolver is invoked. An auto-skip pass
// over a queue of broken tracks would otherwise spawn yt-dlp back to back.
type Throttled struct {
	next    Resolver
	limiter *rate.Limiter
}

// Throttle wraps next with a limit of perSecond calls and a burst of one.
// A non-positive rate disables the limit.
func Throttle(next Resolver, perSecond float64) *Throttled {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}

	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (t *Throttled) Resolve(ctx context.Context, tr track.Track) (cache.ResolvedStream, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return cache.ResolvedStream{}, fmt.Errorf("%w: waiting for resolver slot: %v", ErrTimeout, err)
	}

	return t.next.Resolve(ctx, tr)
}
