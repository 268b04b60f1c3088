// Package cmd implements the command-line interface for maboroshi.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/config"
	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/favorites"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/internal/cache"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/log"
	"github.com/maboroshi-cli/maboroshi/playback"
	"github.com/maboroshi-cli/maboroshi/player"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/track"
	"github.com/maboroshi-cli/maboroshi/tui"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/maboroshi-cli/maboroshi/version"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("source", "S", "", "Search source to start with (yt, sc, bili, nico)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("source", completionSources))
	lo.Must0(viper.BindPFlag(key.SearchSource, rootCmd.PersistentFlags().Lookup("source")))

	rootCmd.Flags().StringP("mode", "m", "", "Playback mode to start with (single_loop, list_loop, sequential)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(playback.Modes(), func(m playback.Mode, _ int) string { return m.String() }), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlaybackMode, rootCmd.Flags().Lookup("mode")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

func completionSources(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(track.Sources(), func(s track.Source, _ int) string { return s.String() }), cobra.ShellCompDirectiveNoFileComp
}

// rootCmd starts an interactive session.
var rootCmd = &cobra.Command{
	Use:   constant.Maboroshi,
	Short: "A terminal music player that streams through mpv and yt-dlp",
	Long: constant.Logo + "\n" +
		style.New().Italic(true).Foreground(color.HiPurple).Render("    - A terminal music player that streams through mpv and yt-dlp"),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		handleErr(config.Validate())
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options, err := sessionOptions()
		handleErr(err)
		handleErr(tui.Run(options))
	},
}

func seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

// newYTDLP builds the yt-dlp backend from configuration.
func newYTDLP() *resolver.YTDLP {
	return resolver.NewYTDLP(resolver.Options{
		Binary:         viper.GetString(key.ResolverBinary),
		CookiesBrowser: viper.GetString(key.SearchCookiesBrowser),
		ResolveTimeout: seconds(key.ResolverTimeout),
		SearchTimeout:  seconds(key.SearchTimeout),
		PageSize:       viper.GetInt(key.SearchMaxResults),
	})
}

// sessionOptions wires every collaborator of an interactive session from configuration.
func sessionOptions() (*tui.Options, error) {
	source, err := track.ParseSource(viper.GetString(key.SearchSource))
	if err != nil {
		return nil, err
	}

	mode, err := playback.ParseMode(viper.GetString(key.PlaybackMode))
	if err != nil {
		return nil, err
	}

	var warnings []string

	queue, err := favorites.Open(favorites.NewFileStore(where.Favorites()))
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	policy := cache.Fixed
	if viper.GetBool(key.CacheSliding) {
		policy = cache.Sliding
	}

	streams := cache.New(cache.Options{
		Capacity: viper.GetInt(key.CacheSize),
		TTL:      seconds(key.CacheTTL),
		Policy:   policy,
		OnEvict: func(id string) {
			log.Tracef("stream cache dropped %s", id)
		},
	})

	backend := newYTDLP()

	manager := player.NewManager(player.Options{
		Binary:          viper.GetString(key.PlayerBinary),
		ExtraArgs:       viper.GetStringSlice(key.PlayerExtraArgs),
		SocketPath:      where.Socket(),
		ConnectRetries:  viper.GetInt(key.PlayerConnectRetries),
		ConnectInterval: millis(key.PlayerConnectInterval),
		GracePeriod:     millis(key.PlayerGracePeriod),
	})

	return &tui.Options{
		Player:         manager,
		Resolver:       resolver.Throttle(backend, float64(viper.GetInt(key.ResolverRate))),
		Searcher:       backend,
		Cache:          streams,
		Favorites:      queue,
		Mode:           mode,
		Source:         source,
		Volume:         viper.GetInt(key.PlaybackVolume),
		VolumeStep:     viper.GetInt(key.PlaybackVolumeStep),
		SeekStep:       seconds(key.PlaybackSeekSeconds),
		ResolveTimeout: seconds(key.ResolverTimeout),
		Tick:           millis(key.TUITick),
		LogLines:       viper.GetInt(key.TUILogLines),
		Warnings:       warnings,
	}, nil
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
