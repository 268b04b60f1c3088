package track

import (
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// ErrUnknownSource is returned when a source name matches none of the known sources.
var ErrUnknownSource = errors.New("unknown source")

// Source identifies the site a track is searched on and resolved from.
type Source int

const (
	YouTube Source = iota
	SoundCloud
	Bilibili
	NicoNico
)

type sourceDef struct {
	id      string
	name    string
	aliases []string
}

var sources = map[Source]sourceDef{
	YouTube:    {"yt", "YouTube", []string{"youtube"}},
	SoundCloud: {"sc", "SoundCloud", []string{"soundcloud"}},
	Bilibili:   {"bili", "Bilibili", []string{"bilibili"}},
	NicoNico:   {"nico", "NicoNico", []string{"niconico"}},
}

// Sources lists every known source in declaration order.
func Sources() []Source {
	return []Source{YouTube, SoundCloud, Bilibili, NicoNico}
}

// ParseSource maps a configured name or alias onto a Source.
func ParseSource(s string) (Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	// "ytsearch" style values from older configs carry the suffix already
	s = strings.TrimSuffix(s, "search")

	for _, src := range Sources() {
		def := sources[src]
		if s == def.id || lo.Contains(def.aliases, s) {
			return src, nil
		}
	}

	names := lo.Map(Sources(), func(src Source, _ int) string { return src.String() })
	closest := lo.MinBy(names, func(a, b string) bool {
		return levenshtein.Distance(s, a) < levenshtein.Distance(s, b)
	})

	return YouTube, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownSource, s, closest)
}

// String returns the short identifier used in config and track ids.
func (s Source) String() string {
	if def, ok := sources[s]; ok {
		return def.id
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// Name returns the human readable site name.
func (s Source) Name() string {
	if def, ok := sources[s]; ok {
		return def.name
	}
	return s.String()
}

// SearchPrefix returns the yt-dlp search key, e.g. "ytsearch".
func (s Source) SearchPrefix() string {
	return s.String() + "search"
}

func (s Source) MarshalText() ([]byte, error) {
	if _, ok := sources[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSource, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Source) UnmarshalText(text []byte) error {
	parsed, err := ParseSource(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
