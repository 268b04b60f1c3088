package version

import (
	"fmt"

	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/spf13/viper"
)

// Notify prints a short notice when a newer release exists.
// Lookup failures are logged and otherwise ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(icon.Get(icon.Progress) + " Checking for a new release...")
	latest, err := Latest()
	erase()
	if err != nil {
		log.Debugf("version check: %v", err)
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf(
		"\n%s %s %s is out %s\n%s\n\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		constant.Maboroshi,
		style.Bold(latest),
		style.Faint("(installed "+constant.Version+")"),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
