// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "MABOROSHI_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the primary configuration directory.
// XDG_CONFIG_HOME is honoured on Linux, the platform profile directory elsewhere,
// and MABOROSHI_CONFIG_PATH wins over both.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Maboroshi))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Maboroshi))
}

// Logs resolves the directory used for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Favorites resolves the favorites file, honouring favorites.path when set.
func Favorites() string {
	if custom := viper.GetString(key.FavoritesPath); custom != "" {
		ensureDir(filepath.Dir(custom))
		return custom
	}

	return filepath.Join(Config(), "favorites.json")
}

// Queries resolves the remembered search queries file.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Socket resolves the mpv control socket path.
// The default is pid-suffixed so that concurrent sessions never share an endpoint.
func Socket() string {
	if custom := viper.GetString(key.PlayerSocketPath); custom != "" {
		return custom
	}

	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.sock", constant.Maboroshi, os.Getpid()))
}

// Temp resolves a volatile directory for transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Maboroshi))
}
