// Package track defines the immutable Track model shared by search, favorites and playback.
package track

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Track is a playable item. Tracks are values; two tracks are the same track
// when their IDs are equal.
type Track struct {
	// ID is "<source>:<external id>" and is stable across sessions.
	ID       string                   `json:"id" jsonschema:"description=Source prefix and external id joined by a colon."`
	Source   Source                   `json:"source" jsonschema:"description=Site the track is searched on and resolved from."`
	Title    string                   `json:"title" jsonschema:"description=Title of the track."`
	Artist   string                   `json:"artist,omitempty" jsonschema:"description=Uploader or artist. Omitted when unknown."`
	Duration mo.Option[time.Duration] `json:"duration" jsonschema:"description=Length in nanoseconds. Null when unknown."`
	// URL is the page the track was found on. Empty for legacy entries,
	// which are resolved by searching their title instead.
	URL string `json:"url,omitempty" jsonschema:"description=Page the track was found on."`
}

// New builds a Track from search metadata.
func New(source Source, externalID, title, artist string, duration mo.Option[time.Duration], url string) Track {
	return Track{
		ID:       MakeID(source, externalID),
		Source:   source,
		Title:    title,
		Artist:   artist,
		Duration: duration,
		URL:      url,
	}
}

// MakeID joins a source and an external id into a track id.
func MakeID(source Source, externalID string) string {
	return source.String() + ":" + externalID
}

// Equal reports whether both values describe the same track.
func (t Track) Equal(other Track) bool {
	return t.ID == other.ID
}

// Target returns what should be handed to the extractor: the page URL when
// known, otherwise a single-result search for the title.
func (t Track) Target() string {
	if t.URL != "" {
		return t.URL
	}
	return fmt.Sprintf("%s1:%s", t.Source.SearchPrefix(), t.Title)
}

// Label renders "title - artist" or just the title.
func (t Track) Label() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Title + " - " + t.Artist
}

// FormatDuration renders the duration as m:ss, or "--:--" when unknown.
func (t Track) FormatDuration() string {
	d, ok := t.Duration.Get()
	if !ok {
		return "--:--"
	}
	return Clock(d)
}

// Clock renders a duration as m:ss, or h:mm:ss past the hour.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Normalize fills in fields missing from older favorites files.
func (t Track) Normalize() Track {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == "" {
		t.ID = MakeID(t.Source, t.Title)
	}
	return t
}

func (t Track) String() string {
	return fmt.Sprintf("%s (%s)", t.Label(), t.ID)
}
