package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/key"
	"github.com/maboroshi-cli/maboroshi/resolver"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type dependency struct {
	name    string
	binary  func() string
	install map[string]string
}

var dependencies = []dependency{
	{
		name:   "mpv",
		binary: func() string { return viper.GetString(key.PlayerBinary) },
		install: map[string]string{
			"darwin":  "brew install mpv",
			"linux":   "sudo apt install mpv",
			"windows": "scoop install mpv",
		},
	},
	{
		name: "yt-dlp",
		binary: func() string {
			return lo.Ternary(viper.GetString(key.ResolverBinary) != "", viper.GetString(key.ResolverBinary), "yt-dlp")
		},
		install: map[string]string{
			"darwin":  "maboroshi check --install",
			"linux":   "maboroshi check --install",
			"windows": "maboroshi check --install",
		},
	},
}

func (d dependency) lookup() (string, error) {
	return exec.LookPath(d.binary())
}

// CheckDependencies exits with an install hint when the player or the extractor is missing.
func CheckDependencies() {
	for _, dep := range dependencies {
		if _, err := dep.lookup(); err != nil {
			printMissingDependencyError(dep)
			os.Exit(1)
		}
	}
}

func printMissingDependencyError(dep dependency) {
	installCmd := dep.install[runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep.binary()))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("install", "i", false, "Download a managed yt-dlp build and use it")
}

// checkCmd reports whether the external programs are available.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv and yt-dlp are available",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("install")) {
			erase := util.PrintErasable(fmt.Sprintf("%s Installing yt-dlp...", icon.Get(icon.Progress)))

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			path, err := resolver.Install(ctx)
			erase()
			handleErr(err)

			viper.Set(key.ResolverBinary, path)
			writeConfig()

			fmt.Printf("%s installed yt-dlp to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
		}

		var missing int
		for _, dep := range dependencies {
			path, err := dep.lookup()
			if err != nil {
				missing++
				hint := dep.install[runtime.GOOS]
				fmt.Printf("%s %s not found %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), style.Bold(dep.name), style.Faint("("+hint+")"))
				continue
			}

			fmt.Printf("%s %s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(dep.name), style.Faint(path))
		}

		if missing > 0 {
			os.Exit(1)
		}
	},
}
