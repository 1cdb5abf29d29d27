package main

import (
	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

var (
	syncOpts   = DefaultCommonOptions()
	statusOpts = DefaultCommonOptions()
	dryRun     bool
)

// syncCmd reconciles the build project with the manifest.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize platforms and plugins with the manifest",
	Long: `Create the build project if needed, then add and remove platforms and
plugins until the build project matches the manifest. When any registry or
git plugin changes, all non-local plugins are reinstalled so their
dependencies stay consistent.`,
	Example: `  mobilesync sync
  mobilesync sync --dry-run --format json`,
	Args: cobra.NoArgs,
	RunE: withContainer(withTimeout(&syncOpts, func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
		if dryRun {
			return printPlan(ctx, syncOpts.Format)
		}
		if err := synchronize(ctx); err != nil {
			return err
		}
		ctx.Container.Console().Success("Build project is in sync.")
		return nil
	})),
}

// statusCmd shows what sync would change.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the changes sync would make",
	Args:  cobra.NoArgs,
	RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
		if err := statusOpts.ValidateFlags(); err != nil {
			return err
		}
		return printPlan(ctx, statusOpts.Format)
	}),
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)

	syncOpts.RegisterFlags(syncCmd)
	syncOpts.RegisterFormatFlag(syncCmd)
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without running the toolchain")

	statusOpts.RegisterFormatFlag(statusCmd)
}

// printPlan renders the sync plan. Planning only reads the build project.
func printPlan(ctx *CommandContext, format string) error {
	platforms, err := ctx.Container.DesiredPlatforms()
	if err != nil {
		return err
	}
	plugins, err := ctx.Container.DesiredPlugins()
	if err != nil {
		return err
	}

	plan, err := ctx.Container.Project().Plan(ctx.Context, platforms, plugins)
	if err != nil {
		return err
	}

	formatter, err := ctx.Container.Formatter(format, ports.FormatterOptions{Indent: true, NoColor: noColor})
	if err != nil {
		return err
	}
	return formatter.FormatPlan(plan)
}
