package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/infrastructure/system"
)

var (
	cfgFile     string
	projectFile string
	buildDir    string
	verbose     bool
	noColor     bool
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "mobilesync",
	Short: "Keep a mobile build project in sync with its manifest",
	Long: `mobilesync maintains a generated mobile build project next to your
application sources. The project manifest (mobilesync.yaml) declares the
target platforms and plugins; mobilesync creates the build project on first
use and adds, removes or reinstalls platforms and plugins through the
toolchain until the build project matches the manifest.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+system.DefaultConfigName+")")
	rootCmd.PersistentFlags().StringVarP(&projectFile, "project", "p", "", "project manifest (default is ./mobilesync.yaml)")
	rootCmd.PersistentFlags().StringVar(&buildDir, "build-dir", "", "build project directory, overriding the manifest")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output, including toolchain diagnostics")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// initConfig selects the tool config file. Reading it is left to the
// container so defaults and environment overrides apply in one place.
func initConfig() {
	if cfgFile == "" {
		cfgFile = system.DefaultConfigPath()
	}
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	// Using TextHandler for CLI friendliness
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
