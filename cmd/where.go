package cmd

import (
	"os"

	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type location struct {
	name string
	path func() string
	// listed by a bare "where"
	listed bool
}

var locations = []location{
	{"config", where.Config, true},
	{"favorites", where.Favorites, true},
	{"logs", where.Logs, true},
	{"cache", where.Cache, true},
	{"socket", where.Socket, false},
	{"temp", where.Temp, false},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where [location]",
	Short: "Print where files are kept",
	Long:  "Print where files are kept. With a location argument only that path is printed, which is handy in scripts.",
	Args:  cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: lo.Map(locations, func(l location, _ int) string {
		return l.name
	}),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			l, _ := lo.Find(locations, func(l location) bool { return l.name == args[0] })
			cmd.Println(l.path())
			return
		}

		name := style.New().Bold(true).Foreground(color.HiPurple).Width(10).Render
		for _, l := range lo.Filter(locations, func(l location, _ int) bool { return l.listed }) {
			cmd.Printf("%s %s\n", name(l.name), l.path())
		}
	},
}
