package config

import (
	"fmt"

	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/spf13/viper"
)

// ValidationError names the offending key.
type ValidationError struct {
	Key string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %v", e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type bound struct {
	key      string
	min, max int
}

// -1 means unbounded
var bounds = []bound{
	{key.CacheSize, 1, -1},
	{key.CacheTTL, 1, -1},
	{key.ResolverTimeout, 1, -1},
	{key.ResolverRate, 1, -1},
	{key.SearchTimeout, 1, -1},
	{key.SearchMaxResults, 1, 100},
	{key.PlaybackVolume, 0, 100},
	{key.PlaybackVolumeStep, 1, 100},
	{key.PlaybackSeekSeconds, 1, -1},
	{key.PlayerConnectRetries, 1, -1},
	{key.PlayerConnectInterval, 1, -1},
	{key.PlayerGracePeriod, 0, -1},
	{key.TUILogLines, 1, -1},
	{key.TUITick, 10, -1},
}

// Validate checks the loaded configuration. It is called after Setup.
func Validate() error {
	if _, err := track.ParseSource(viper.GetString(key.SearchSource)); err != nil {
		return &ValidationError{Key: key.SearchSource, Err: err}
	}

	if _, err := playback.ParseMode(viper.GetString(key.PlaybackMode)); err != nil {
		return &ValidationError{Key: key.PlaybackMode, Err: err}
	}

	if variant := viper.GetString(key.IconsVariant); !icon.IsVariant(variant) {
		return &ValidationError{Key: key.IconsVariant, Err: fmt.Errorf("unknown variant %q", variant)}
	}

	for _, b := range bounds {
		v := viper.GetInt(b.key)
		switch {
		case v < b.min:
			return &ValidationError{Key: b.key, Err: fmt.Errorf("%d is less than %d", v, b.min)}
		case b.max >= 0 && v > b.max:
			return &ValidationError{Key: b.key, Err: fmt.Errorf("%d is greater than %d", v, b.max)}
		}
	}

	return nil
}
