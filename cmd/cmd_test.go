package cmd

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/maboroshi-cli/maboroshi/config"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterFavorites(t *testing.T) {
	Convey("Given a few favorites", t, func() {
		tracks := []track.Track{
			track.New(track.YouTube, "a", "Plastic Love", "Mariya Takeuchi", mo.Some(8*time.Minute), ""),
			track.New(track.YouTube, "b", "Stay With Me", "Miki Matsubara", mo.None[time.Duration](), ""),
			track.New(track.YouTube, "c", "Mayonaka no Door", "", mo.None[time.Duration](), ""),
		}

		Convey("An empty filter keeps everything in order", func() {
			matches := filterFavorites(tracks, "")
			So(matches, ShouldHaveLength, 3)
			So(matches[2].A, ShouldEqual, 2)
		})

		Convey("Matching is fuzzy and case insensitive", func() {
			matches := filterFavorites(tracks, "stywm")
			So(matches, ShouldHaveLength, 1)
			So(matches[0].A, ShouldEqual, 1)
			So(matches[0].B.ID, ShouldEqual, "yt:b")
		})

		Convey("Artists are matched too", func() {
			matches := filterFavorites(tracks, "takeuchi")
			So(matches, ShouldHaveLength, 1)
			So(matches[0].A, ShouldEqual, 0)
		})

		Convey("No match gives an empty list", func() {
			So(filterFavorites(tracks, "zzz"), ShouldBeEmpty)
		})
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("Typos suggest the closest key", t, func() {
		err := errUnknownKey("player.binray")
		So(err.Error(), ShouldContainSubstring, key.PlayerBinary)
	})

	Convey("Every suggestion is a registered key", t, func() {
		msg := errUnknownKey("cache").Error()
		found := false
		for k := range config.Default {
			if strings.Contains(msg, k) {
				found = true
			}
		}
		So(found, ShouldBeTrue)
	})
}

func TestTrackSchema(t *testing.T) {
	Convey("The schema of the JSON listings", t, func() {
		var out strings.Builder
		So(printTrackSchema(&out), ShouldBeNil)

		var schema struct {
			Type  string `json:"type"`
			Items struct {
				Ref string `json:"$ref"`
			} `json:"items"`
			Defs map[string]struct {
				Properties map[string]json.RawMessage `json:"properties"`
				Required   []string                   `json:"required"`
			} `json:"$defs"`
		}
		So(json.Unmarshal([]byte(out.String()), &schema), ShouldBeNil)

		Convey("Describes a list of tracks", func() {
			So(schema.Type, ShouldEqual, "array")
			So(schema.Items.Ref, ShouldEqual, "#/$defs/Track")
		})

		Convey("Names every serialized field", func() {
			props := schema.Defs["Track"].Properties
			for _, field := range []string{"id", "source", "title", "artist", "duration", "url"} {
				So(props, ShouldContainKey, field)
			}
			So(schema.Defs["Track"].Required, ShouldContain, "id")
			So(schema.Defs["Track"].Required, ShouldNotContain, "artist")
		})

		Convey("Lists the source ids", func() {
			So(string(schema.Defs["Track"].Properties["source"]), ShouldContainSubstring, `"nico"`)
		})
	})
}
