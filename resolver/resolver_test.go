package resolver

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func fakeRun(stdout, stderr string, err error, seen *[]string) runFunc {
	return func(_ context.Context, _ *ytdlp.Command, args ...string) (*ytdlp.Result, error) {
		if seen != nil {
			*seen = append(*seen, args...)
		}
		return &ytdlp.Result{Stdout: stdout, Stderr: stderr}, err
	}
}

func TestResolve(t *testing.T) {
	Convey("Given a yt-dlp resolver", t, func() {
		y := NewYTDLP(Options{})
		tr := track.New(track.YouTube, "abc", "Song", "Artist", mo.None[time.Duration](), "https://www.youtube.com/watch?v=abc")

		Convey("A printed URL becomes the resolved stream", func() {
			var args []string
			y.run = fakeRun("\nhttps://rr1.googlevideo.com/audio\n", "", nil, &args)

			stream, err := y.Resolve(context.Background(), tr)
			So(err, ShouldBeNil)
			So(stream.URL, ShouldEqual, "https://rr1.googlevideo.com/audio")
			So(stream.TrackID, ShouldEqual, "yt:abc")
			So(stream.ResolvedAt.IsZero(), ShouldBeFalse)
			So(args, ShouldResemble, []string{"https://www.youtube.com/watch?v=abc"})
		})

		Convey("Legacy tracks are resolved by a title search", func() {
			var args []string
			y.run = fakeRun("https://x/a\n", "", nil, &args)

			_, err := y.Resolve(context.Background(), track.Track{Source: track.SoundCloud, Title: "Old"}.Normalize())
			So(err, ShouldBeNil)
			So(args, ShouldResemble, []string{"scsearch1:Old"})
		})

		Convey("Empty output is not found", func() {
			y.run = fakeRun("  \n", "", nil, nil)
			_, err := y.Resolve(context.Background(), tr)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("Unavailable videos are not found", func() {
			y.run = fakeRun("", "WARNING: x\nERROR: [youtube] abc: Video unavailable", errors.New("exit status 1"), nil)
			_, err := y.Resolve(context.Background(), tr)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Video unavailable")
		})

		Convey("Other failures are extractor failures", func() {
			y.run = fakeRun("", "ERROR: Unable to extract player response", errors.New("exit status 1"), nil)
			_, err := y.Resolve(context.Background(), tr)
			So(errors.Is(err, ErrExtractor), ShouldBeTrue)
		})

		Convey("A missing result is tolerated", func() {
			y.run = func(context.Context, *ytdlp.Command, ...string) (*ytdlp.Result, error) {
				return nil, errors.New("executable not found")
			}
			_, err := y.Resolve(context.Background(), tr)
			So(errors.Is(err, ErrExtractor), ShouldBeTrue)
		})

		Convey("Exceeding the budget is a timeout", func() {
			y.options.ResolveTimeout = 10 * time.Millisecond
			y.run = func(ctx context.Context, _ *ytdlp.Command, _ ...string) (*ytdlp.Result, error) {
				<-ctx.Done()
				return &ytdlp.Result{}, ctx.Err()
			}
			_, err := y.Resolve(context.Background(), tr)
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a yt-dlp searcher with a page size of 2", t, func() {
		y := NewYTDLP(Options{PageSize: 2})

		Convey("The second page asks for items 3-4 of a 4 item search", func() {
			var args []string
			y.run = fakeRun("", "", nil, &args)

			_, err := y.Search(context.Background(), track.YouTube, " lofi ", 1)
			So(err, ShouldBeNil)
			So(args, ShouldResemble, []string{"ytsearch4:lofi"})
		})

		Convey("Tab separated lines become tracks", func() {
			out := strings.Join([]string{
				"id1\thttps://www.youtube.com/watch?v=id1\tFirst\tUploader\t185.0",
				"id2\tNA\tSecond\tNA\tNA",
				"broken line",
				"id1\thttps://www.youtube.com/watch?v=id1\tFirst\tUploader\t185.0",
			}, "\n")
			y.run = fakeRun(out, "", nil, nil)

			tracks, err := y.Search(context.Background(), track.YouTube, "q", 0)
			So(err, ShouldBeNil)
			So(len(tracks), ShouldEqual, 2)

			So(tracks[0].ID, ShouldEqual, "yt:id1")
			So(tracks[0].Artist, ShouldEqual, "Uploader")
			So(tracks[0].Duration.MustGet(), ShouldEqual, 185*time.Second)

			So(tracks[1].URL, ShouldBeEmpty)
			So(tracks[1].Artist, ShouldBeEmpty)
			So(tracks[1].Duration.IsPresent(), ShouldBeFalse)
		})

		Convey("A blank query searches nothing", func() {
			called := false
			y.run = func(context.Context, *ytdlp.Command, ...string) (*ytdlp.Result, error) {
				called = true
				return &ytdlp.Result{}, nil
			}
			tracks, err := y.Search(context.Background(), track.YouTube, "   ", 0)
			So(err, ShouldBeNil)
			So(tracks, ShouldBeEmpty)
			So(called, ShouldBeFalse)
		})
	})
}

func TestThrottle(t *testing.T) {
	Convey("Given a throttled resolver", t, func() {
		var calls int32
		next := Func(func(_ context.Context, tr track.Track) (cache.ResolvedStream, error) {
			atomic.AddInt32(&calls, 1)
			return cache.ResolvedStream{TrackID: tr.ID}, nil
		})

		Convey("Calls pass through", func() {
			th := Throttle(next, 0)
			for i := 0; i < 5; i++ {
				_, err := th.Resolve(context.Background(), track.Track{ID: "yt:a"})
				So(err, ShouldBeNil)
			}
			So(atomic.LoadInt32(&calls), ShouldEqual, 5)
		})

		Convey("A caller that cannot wait for a slot times out", func() {
			th := Throttle(next, 0.01)
			_, err := th.Resolve(context.Background(), track.Track{ID: "yt:a"})
			So(err, ShouldBeNil)

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err = th.Resolve(ctx, track.Track{ID: "yt:b"})
			So(errors.Is(err, ErrTimeout), ShouldBeTrue)
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
		})
	})
}
