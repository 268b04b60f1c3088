// Package key defines the canonical set of configuration identifiers.
package key

// Search - prompt behaviour and the default search source.
const (
	SearchSource               = "search.source"
	SearchMaxResults           = "search.max_results"
	SearchTimeout              = "search.timeout"
	SearchCookiesBrowser       = "search.cookies_browser"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Resolver - stream URL extraction through yt-dlp.
const (
	ResolverTimeout = "resolver.timeout"
	ResolverRate    = "resolver.rate"
	ResolverBinary  = "resolver.binary"
)

// Stream cache.
const (
	CacheSize    = "cache.size"
	CacheTTL     = "cache.ttl"
	CacheSliding = "cache.sliding"
)

// Playback - mode and transport steps.
const (
	PlaybackMode        = "playback.mode"
	PlaybackSeekSeconds = "playback.seek_seconds"
	PlaybackVolume      = "playback.volume"
	PlaybackVolumeStep  = "playback.volume_step"
)

// Player process.
const (
	PlayerBinary          = "player.binary"
	PlayerSocketPath      = "player.socket_path"
	PlayerConnectRetries  = "player.connect_retries"
	PlayerConnectInterval = "player.connect_interval"
	PlayerGracePeriod     = "player.grace_period"
	PlayerExtraArgs       = "player.extra_args"
)

const (
	FavoritesPath = "favorites.path"
)

// Terminal User Interface (TUI).
const (
	TUILogLines = "tui.log_lines"
	TUITick     = "tui.tick"
)

const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
