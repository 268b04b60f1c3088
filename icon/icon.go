// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// IsVariant reports whether name is a known variant.
func IsVariant(name string) bool {
	return lo.Contains(AvailableVariants(), name)
}

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) variant(name string) string {
	switch name {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return d.plain
	}
}

// Get renders i. Unknown variants fall back to plain.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return "?"
	}
	return def.variant(viper.GetString(key.IconsVariant))
}
