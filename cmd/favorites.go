package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/favorites"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func openFavorites() *favorites.Queue {
	queue, err := favorites.Open(favorites.NewFileStore(where.Favorites()))
	if err != nil {
		fmt.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), err)
	}
	return queue
}

func completionFavorites(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	queue, _ := favorites.Open(favorites.NewFileStore(where.Favorites()))
	return lo.Map(queue.Tracks(), func(t track.Track, _ int) string {
		return t.ID + "\t" + t.Label()
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage the favorites queue",
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	favoritesListCmd.Flags().Bool("schema", false, "Print the JSON Schema of the --json output and exit")
	favoritesListCmd.Flags().StringP("filter", "f", "", "Only list favorites whose title fuzzily matches")
}

// filterFavorites keeps queue positions so the printed numbers match the queue.
func filterFavorites(tracks []track.Track, pattern string) []lo.Tuple2[int, track.Track] {
	indexed := lo.Map(tracks, func(t track.Track, i int) lo.Tuple2[int, track.Track] {
		return lo.T2(i, t)
	})
	if pattern == "" {
		return indexed
	}

	return lo.Filter(indexed, func(e lo.Tuple2[int, track.Track], _ int) bool {
		return fuzzy.MatchNormalizedFold(pattern, e.B.Label())
	})
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites in queue order",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(printTrackSchema(cmd.OutOrStdout()))
			return
		}

		queue := openFavorites()
		matches := filterFavorites(queue.Tracks(), lo.Must(cmd.Flags().GetString("filter")))

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(lo.Map(matches, func(e lo.Tuple2[int, track.Track], _ int) track.Track { return e.B })))
			return
		}

		if len(matches) == 0 {
			cmd.Println(style.Faint(lo.Ternary(queue.Len() == 0, "no favorites yet", "nothing matches")))
			return
		}

		for _, e := range matches {
			cmd.Printf(
				"%s %s %s %s\n",
				style.Faint(fmt.Sprintf("%3d.", e.A+1)),
				e.B.Label(),
				style.Faint(e.B.FormatDuration()),
				style.Fg(color.Purple)(e.B.ID),
			)
		}
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesAddCmd.Flags().StringP("source", "s", "", "Search source to look the track up on")
	lo.Must0(favoritesAddCmd.RegisterFlagCompletionFunc("source", completionSources))
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Search for a track and add the first result to favorites",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := track.ParseSource(lo.CoalesceOrEmpty(lo.Must(cmd.Flags().GetString("source")), viper.GetString(key.SearchSource)))
		handleErr(err)

		query := strings.Join(args, " ")

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(viper.GetInt(key.SearchTimeout))*time.Second)
		defer cancel()

		erase := util.PrintErasable(fmt.Sprintf("%s Searching %s for %q...", icon.Get(icon.Progress), source.Name(), query))
		tracks, err := newYTDLP().Search(ctx, source, query, 0)
		erase()
		handleErr(err)

		if len(tracks) == 0 {
			handleErr(fmt.Errorf("no results for %q on %s", query, source.Name()))
		}

		t := tracks[0]
		added, err := openFavorites().Add(t)
		handleErr(err)

		if !added {
			fmt.Printf("%s %s is already a favorite\n", icon.Get(icon.Info), t.Label())
			return
		}

		fmt.Printf("%s added %s %s\n", style.Fg(color.Green)(icon.Get(icon.Favorite)), t.Label(), style.Faint(t.ID))
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesRemoveCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var favoritesRemoveCmd = &cobra.Command{
	Use:               "remove <id>",
	Aliases:           []string{"rm"},
	Short:             "Remove a track from favorites",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionFavorites,
	Run: func(cmd *cobra.Command, args []string) {
		queue := openFavorites()

		i := queue.IndexOf(args[0])
		if i < 0 {
			handleErr(fmt.Errorf("no favorite with id %s", args[0]))
		}

		t := queue.At(i)
		if !lo.Must(cmd.Flags().GetBool("yes")) && !confirm(fmt.Sprintf("Remove %s from favorites?", t.Label())) {
			return
		}

		_, err := queue.Remove(t.ID)
		handleErr(err)

		fmt.Printf("%s removed %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), t.Label())
	},
}
