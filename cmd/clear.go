package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a file or directory the clear command can remove.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	// confirm asks before removing data the user cannot get back
	confirm bool
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache, false},
	{"favorites", "favorites", mo.Some("f"), where.Favorites, true},
	{"queries history", "queries", mo.Some("q"), where.Queries, false},
	{"logs", "logs", mo.Some("l"), where.Logs, false},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func confirm(message string) bool {
	var ok bool
	handleErr(survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok))
	return ok
}

// clearCmd removes cached and persisted application data.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and persisted application data",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			anyCleared bool
			yes        = lo.Must(cmd.Flags().GetBool("yes"))
		)

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}
			anyCleared = true

			if target.confirm && !yes && !confirm(fmt.Sprintf("Remove all %s?", target.name)) {
				fmt.Printf("%s %s kept\n", icon.Get(icon.Info), util.Capitalize(target.name))
				continue
			}

			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := util.Delete(target.location())
			e()

			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
