package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seven-it/Learn-Vue/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "learnvue",
		Short: "Explore fine-grained reactive dependency tracking",
		Long: `learnvue runs reactivity scenarios against an observer core modelled
on Vue 2: reactive objects and arrays, computed values and watchers.

A scenario describes some data, the computed values and watchers over it,
and a list of mutations. learnvue reports every watcher callback and every
warning, step by step.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to learnvue.json (default ./learnvue.json when present)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")
	pf.BoolVar(&flags.sync, "sync", false, "Run watchers synchronously")
	pf.BoolVar(&flags.silent, "silent", false, "Suppress warnings")
	pf.BoolVar(&flags.trace, "trace", false, "Record watcher spans on the global OpenTelemetry provider")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		runCmd(&flags),
		serveCmd(&flags),
		versionCmd(),
	)
	return rootCmd
}
