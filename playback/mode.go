package playback

import (
	"errors"
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

// ErrUnknownMode is returned when a mode name matches none of the known modes.
var ErrUnknownMode = errors.New("unknown playback mode")

// Mode decides what plays after the current track ends.
type Mode int

const (
	// SingleLoop replays the current track.
	SingleLoop Mode = iota
	// ListLoop walks the favorites queue and wraps around.
	ListLoop
	// Sequential walks the favorites queue once.
	Sequential
)

var modeNames = map[Mode][]string{
	SingleLoop: {"single_loop", "single", "single-loop", "repeat_one"},
	ListLoop:   {"list_loop", "list-loop", "loop", "list"},
	Sequential: {"sequential", "sequence", "seq"},
}

// Modes lists every mode in cycling order.
func Modes() []Mode {
	return []Mode{SingleLoop, ListLoop, Sequential}
}

// ParseMode accepts the canonical name or any alias, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, mode := range Modes() {
		if lo.Contains(modeNames[mode], s) {
			return mode, nil
		}
	}

	closest := lo.MinBy(lo.Map(Modes(), func(m Mode, _ int) string { return m.String() }), func(a, b string) bool {
		return levenshtein.Distance(s, a) < levenshtein.Distance(s, b)
	})

	return ListLoop, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownMode, s, closest)
}

// String returns the canonical config name.
func (m Mode) String() string {
	if names, ok := modeNames[m]; ok {
		return names[0]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Title is the human readable name shown in the status bar.
func (m Mode) Title() string {
	switch m {
	case SingleLoop:
		return "Single loop"
	case ListLoop:
		return "List loop"
	case Sequential:
		return "Sequential"
	default:
		return m.String()
	}
}

// Next returns the following mode in cycling order.
func (m Mode) Next() Mode {
	modes := Modes()
	_, i, ok := lo.FindIndexOf(modes, func(x Mode) bool { return x == m })
	if !ok {
		return ListLoop
	}
	return modes[(i+1)%len(modes)]
}

func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
