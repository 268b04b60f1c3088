package cmd

import (
	"os"
	"strings"

	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/config"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only list variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only list variables that are not set")
	envCmd.Flags().StringP("section", "t", "", "Only list variables of one config section (e.g. player)")
	lo.Must0(envCmd.RegisterFlagCompletionFunc("section", completionSections))

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

func completionSections(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return config.Sections(), cobra.ShellCompDirectiveNoFileComp
}

type envVar struct {
	name, key string
}

// envCmd lists the environment variables that override config keys.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List environment variables that override settings",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			section   = lo.Must(cmd.Flags().GetString("section"))
		)

		vars := []envVar{{name: where.EnvConfigPath}}
		for _, k := range config.EnvExposed {
			field := config.Default[k]
			if section != "" && field.Section() != section {
				continue
			}
			vars = append(vars, envVar{name: field.Env(), key: k})
		}
		if section != "" {
			vars = vars[1:]
		}

		slices.SortFunc(vars, func(a, b envVar) int { return strings.Compare(a.name, b.name) })

		for _, v := range vars {
			value, present := os.LookupEnv(v.name)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name), "=")
			if present {
				cmd.Print(style.Fg(color.Green)(value))
			} else {
				cmd.Print(style.Fg(color.Red)("unset"))
			}
			if v.key != "" {
				cmd.Print(style.Faint("  # " + v.key))
			}
			cmd.Println()
		}
	},
}
