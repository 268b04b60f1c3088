package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/query"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	searchCmd.Flags().Bool("schema", false, "Print the JSON Schema of the --json output and exit")
	searchCmd.Flags().IntP("limit", "l", 0, "Maximum number of results")
	searchCmd.Flags().StringP("source", "s", "", "Search source (yt, sc, bili, nico)")
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("source", completionSources))
}

// searchCmd prints search results without starting the player.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for tracks and print the results",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	ValidArgsFunction: func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(printTrackSchema(cmd.OutOrStdout()))
			return
		}

		var (
			asJson = lo.Must(cmd.Flags().GetBool("json"))
			limit  = lo.Must(cmd.Flags().GetInt("limit"))
			q      = strings.Join(args, " ")
		)

		source, err := track.ParseSource(lo.CoalesceOrEmpty(lo.Must(cmd.Flags().GetString("source")), viper.GetString(key.SearchSource)))
		handleErr(err)

		if err := query.Remember(q, 1); err != nil {
			log.Warnf("remember query: %v", err)
		}

		options := resolver.Options{
			Binary:         viper.GetString(key.ResolverBinary),
			CookiesBrowser: viper.GetString(key.SearchCookiesBrowser),
			SearchTimeout:  time.Duration(viper.GetInt(key.SearchTimeout)) * time.Second,
			PageSize:       lo.Ternary(limit > 0, limit, viper.GetInt(key.SearchMaxResults)),
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), options.SearchTimeout)
		defer cancel()

		tracks, err := resolver.NewYTDLP(options).Search(ctx, source, q, 0)
		handleErr(err)

		if asJson {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(tracks))
			return
		}

		if len(tracks) == 0 {
			fmt.Printf("%s no results for %q on %s\n", icon.Get(icon.Info), q, source.Name())
			return
		}

		for i, t := range tracks {
			cmd.Printf(
				"%s %s %s\n    %s\n",
				style.Faint(fmt.Sprintf("%2d.", i+1)),
				style.Bold(t.Label()),
				style.Faint(t.FormatDuration()),
				style.Fg(color.Blue)(t.URL),
			)
		}
	},
}
