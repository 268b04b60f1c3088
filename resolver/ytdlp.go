package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	searchFields = "%(id)s\t%(url)s\t%(title)s\t%(uploader)s\t%(duration)s"
	notAvailable = "NA"
)

type runFunc func(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error)

func runCommand(ctx context.Context, cmd *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
	return cmd.Run(ctx, args...)
}

// Options configure a YTDLP backend. Zero durations take defaults.
type Options struct {
	// Binary is an explicit yt-dlp path; empty resolves it from PATH.
	Binary         string
	CookiesBrowser string
	ResolveTimeout time.Duration
	SearchTimeout  time.Duration
	PageSize       int
}

// YTDLP resolves and searches through the yt-dlp executable.
type YTDLP struct {
	options Options
	run     runFunc
	now     func() time.Time
}

// NewYTDLP creates a yt-dlp backed resolver and searcher.
func NewYTDLP(options Options) *YTDLP {
	if options.ResolveTimeout <= 0 {
		options.ResolveTimeout = 10 * time.Second
	}
	if options.SearchTimeout <= 0 {
		options.SearchTimeout = 30 * time.Second
	}
	if options.PageSize <= 0 {
		options.PageSize = 15
	}

	return &YTDLP{options: options, run: runCommand, now: time.Now}
}

func (y *YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New().
		NoWarnings().
		IgnoreConfig()

	if y.options.Binary != "" {
		cmd.SetExecutable(y.options.Binary)
	}
	if y.options.CookiesBrowser != "" {
		cmd.CookiesFromBrowser(y.options.CookiesBrowser)
	}

	return cmd
}

// Resolve extracts the best audio stream URL for t.
func (y *YTDLP) Resolve(ctx context.Context, t track.Track) (cache.ResolvedStream, error) {
	ctx, cancel := context.WithTimeout(ctx, y.options.ResolveTimeout)
	defer cancel()

	started := y.now()
	cmd := y.command().
		Format("bestaudio/best").
		Print("%(url)s").
		NoPlaylist()

	res, err := y.run(ctx, cmd, t.Target())
	if err != nil {
		return cache.ResolvedStream{}, classify(ctx, res, err)
	}

	url, ok := firstLine(res.Stdout)
	if !ok {
		return cache.ResolvedStream{}, fmt.Errorf("%w: no stream for %s", ErrNotFound, t.Target())
	}

	log.Debugf("resolved %s in %s", t.ID, y.now().Sub(started))
	return cache.ResolvedStream{TrackID: t.ID, URL: url, ResolvedAt: y.now()}, nil
}

// Search returns page (zero-based) of results for query on source.
func (y *YTDLP) Search(ctx context.Context, source track.Source, query string, page int) ([]track.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	page = max(page, 0)

	ctx, cancel := context.WithTimeout(ctx, y.options.SearchTimeout)
	defer cancel()

	var (
		first = page*y.options.PageSize + 1
		last  = (page + 1) * y.options.PageSize
	)

	cmd := y.command().
		FlatPlaylist().
		Print(searchFields).
		PlaylistItems(fmt.Sprintf("%d-%d", first, last))

	res, err := y.run(ctx, cmd, fmt.Sprintf("%s%d:%s", source.SearchPrefix(), last, query))
	if err != nil {
		return nil, classify(ctx, res, err)
	}

	return parseSearch(source, res.Stdout), nil
}

func parseSearch(source track.Source, stdout string) []track.Track {
	lines := lo.Filter(strings.Split(strings.TrimSpace(stdout), "\n"), func(l string, _ int) bool {
		return strings.TrimSpace(l) != ""
	})

	tracks := make([]track.Track, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) < 5 || fields[0] == notAvailable || fields[0] == "" {
			log.Tracef("skipping malformed search line %q", line)
			continue
		}

		tracks = append(tracks, track.New(
			source,
			fields[0],
			orEmpty(fields[2]),
			orEmpty(fields[3]),
			parseDuration(fields[4]),
			orEmpty(fields[1]),
		))
	}

	return lo.UniqBy(tracks, func(t track.Track) string { return t.ID })
}

func parseDuration(s string) mo.Option[time.Duration] {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || seconds <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(seconds * float64(time.Second)))
}

func orEmpty(s string) string {
	if s == notAvailable {
		return ""
	}
	return strings.TrimSpace(s)
}

func firstLine(s string) (string, bool) {
	return lo.Find(strings.Split(s, "\n"), func(l string) bool {
		return strings.TrimSpace(l) != ""
	})
}

// classify maps a yt-dlp failure onto the package sentinels.
func classify(ctx context.Context, res *ytdlp.Result, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var stderr string
	if res != nil {
		stderr = strings.TrimSpace(res.Stderr)
	}

	detail := err.Error()
	if stderr != "" {
		lines := strings.Split(stderr, "\n")
		detail = strings.TrimSpace(lines[len(lines)-1])
	}

	lower := strings.ToLower(stderr)
	for _, marker := range []string{"video unavailable", "no video results", "not available", "does not exist", "404"} {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
	}

	return fmt.Errorf("%w: %s", ErrExtractor, detail)
}

// Install downloads a managed yt-dlp build when none is available.
func Install(ctx context.Context) (string, error) {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("install yt-dlp: %w", err)
	}
	return resolved.Executable, nil
}
