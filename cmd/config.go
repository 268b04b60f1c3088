package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/maboroshi-cli/maboroshi/color"
	"github.com/maboroshi-cli/maboroshi/config"
	"github.com/maboroshi-cli/maboroshi/constant"
	"github.com/maboroshi-cli/maboroshi/filesystem"
	"github.com/maboroshi-cli/maboroshi/icon"
	"github.com/maboroshi-cli/maboroshi/style"
	"github.com/maboroshi-cli/maboroshi/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func errUnknownKey(k string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(k),
		style.Fg(color.Yellow)(closest),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// keyArg picks the key from the first argument or the --key flag.
func keyArg(cmd *cobra.Command, args []string) string {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}

	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	if _, ok := config.Default[k]; !ok {
		handleErr(errUnknownKey(k))
	}

	return k
}

func success(format string, a ...any) {
	fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, a...))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	// config set must stay usable with a broken file
	PersistentPreRun: func(*cobra.Command, []string) {},
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Keys to describe")
	configInfoCmd.Flags().StringP("section", "t", "", "Describe every key of a section")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	configInfoCmd.MarkFlagsMutuallyExclusive("key", "section")
	_ = configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
	_ = configInfoCmd.RegisterFlagCompletionFunc("section", completionSections)

	configInfoCmd.SetOut(os.Stdout)
}

// configInfoCmd describes settings with their current and default values.
var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe settings",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			keys    = lo.Must(cmd.Flags().GetStringSlice("key"))
			section = lo.Must(cmd.Flags().GetString("section"))
			asJSON  = lo.Must(cmd.Flags().GetBool("json"))
			fields  = lo.Values(config.Default)
		)

		switch {
		case len(keys) > 0:
			fields = lo.Map(keys, func(k string, _ int) config.Field {
				field, ok := config.Default[k]
				if !ok {
					handleErr(errUnknownKey(k))
				}
				return field
			})
		case section != "":
			fields = lo.Filter(fields, func(f config.Field, _ int) bool { return f.Section() == section })
			if len(fields) == 0 {
				handleErr(fmt.Errorf("no such section %q, known sections: %v", section, config.Sections()))
			}
		}

		sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })

		if asJSON {
			lo.Must0(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		for i, field := range fields {
			if i > 0 {
				cmd.Print("\n\n")
			}
			cmd.Print(field.Pretty())
		}
		cmd.Println()
	},
}

func configFile() string {
	return filepath.Join(where.Config(), constant.Maboroshi+".toml")
}

func writeConfig() {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		err = viper.SafeWriteConfig()
	}
	handleErr(err)
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "Key to change")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "New value, repeat for list keys")
	_ = configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configSetCmd validates and persists a single key.
var configSetCmd = &cobra.Command{
	Use:               "set [key] [value...]",
	Short:             "Change a setting",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k := keyArg(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) > 1 {
			raw = args[1:]
		}
		if len(raw) == 0 {
			handleErr(errors.New("value is required as an argument or --value flag"))
		}

		v, err := config.Parse(k, raw)
		handleErr(err)

		previous := viper.Get(k)
		viper.Set(k, v)
		if err := config.Validate(); err != nil {
			viper.Set(k, previous)
			handleErr(err)
		}
		writeConfig()

		success("set %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(v)))
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "Key to read")
	_ = configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

// configGetCmd prints the effective value, noting when it differs from the default.
var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a setting",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		k := keyArg(cmd, args)

		value, def := viper.Get(k), config.Default[k].Value
		if reflect.DeepEqual(value, def) {
			fmt.Println(value)
			return
		}

		fmt.Println(value, style.Faint(fmt.Sprintf("(default %v)", def)))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the effective settings to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if exists, _ := filesystem.API().Exists(path); exists {
				handleErr(filesystem.API().Remove(path))
			}
		}

		handleErr(viper.SafeWriteConfig())
		success("wrote %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		success("deleted %s", configFile())
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "Key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	_ = configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys)
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore defaults",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			writeConfig()
			success("reset every key")
			return
		}

		k := keyArg(cmd, args)
		def := config.Default[k].Value
		viper.Set(k, def)
		writeConfig()

		success("reset %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(def)))
	},
}
