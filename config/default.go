package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting with its default.
type Field struct {
	Key         string
	Value       any
	Description string
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Section is the table the key lives in, e.g. "player" for player.binary.
func (f *Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Maboroshi + "_" + EnvKeyReplacer.Replace(f.Key))
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Section     string `json:"section"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Env         string `json:"env"`
	}{
		Key:         f.Key,
		Section:     f.Section(),
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Env:         f.Env(),
	})
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

// Sections returns the distinct sections of the registered keys, sorted.
func Sections() []string {
	sections := lo.Uniq(lo.Map(lo.Values(Default), func(f Field, _ int) string { return f.Section() }))
	sort.Strings(sections)
	return sections
}

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.SearchSource, "yt", "Default search source.\nAvailable options are: yt, sc, bili, nico")
	register(key.SearchMaxResults, 15, "Number of search results per page")
	register(key.SearchTimeout, 30, "Seconds allowed for a single search")
	register(key.SearchCookiesBrowser, "", "Browser to borrow cookies from (passed to yt-dlp as --cookies-from-browser)")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.ResolverTimeout, 10, "Seconds allowed to resolve a stream URL for a track")
	register(key.ResolverRate, 4, "Maximum number of yt-dlp processes spawned per second")
	register(key.ResolverBinary, "", "Path to yt-dlp.\nLeave empty to look it up in PATH")
	register(key.CacheSize, 30, "Number of resolved stream URLs to keep")
	register(key.CacheTTL, 7200, "Seconds a resolved stream URL stays valid")
	register(key.CacheSliding, false, "Extend the lifetime of a cached stream URL every time it is used")
	register(key.PlaybackMode, "list_loop", "Playback mode on startup.\nAvailable options are: single_loop, list_loop, sequential")
	register(key.PlaybackSeekSeconds, 10, "Seconds to seek with the arrow keys")
	register(key.PlaybackVolume, 100, "Initial volume. From 0 to 100")
	register(key.PlaybackVolumeStep, 5, "Volume change per key press")
	register(key.PlayerBinary, "mpv", "Player executable")
	register(key.PlayerSocketPath, "", "Path of the mpv IPC socket.\nLeave empty to use a per-process path in the temp directory")
	register(key.PlayerConnectRetries, 30, "How many times to poll the IPC socket on startup")
	register(key.PlayerConnectInterval, 100, "Milliseconds between IPC socket polls")
	register(key.PlayerGracePeriod, 3000, "Milliseconds to wait for mpv to quit before killing it")
	register(key.PlayerExtraArgs, []string{}, "Extra arguments appended to the mpv command line")
	register(key.FavoritesPath, "", "Path of the favorites file.\nLeave empty to keep it in the config directory")
	register(key.TUILogLines, 50, "Number of entries kept in the event log")
	register(key.TUITick, 200, "Milliseconds between player liveness checks")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			if value == "" {
				return style.Faint("(empty)")
			}
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }} {{ faint (printf "[%s]" .Section) }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
