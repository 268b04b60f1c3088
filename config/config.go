// Package config registers every setting and loads them through viper.
package config

import (
	"errors"
	"strings"

	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps player.binary to PLAYER_BINARY.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, environment overrides and maboroshi.toml.
// A missing file is fine.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Maboroshi)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Maboroshi)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for k, field := range Default {
		viper.SetDefault(k, field.Value)
	}
	for _, k := range EnvExposed {
		if err := viper.BindEnv(k); err != nil {
			return err
		}
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}
