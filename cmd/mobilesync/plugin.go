package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

var pluginListOpts = DefaultCommonOptions()

// pluginCmd groups plugin inspection commands.
var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Inspect build project plugins",
}

func init() {
	rootCmd.AddCommand(pluginCmd)
	pluginCmd.AddCommand(newPluginListCmd())
}

func newPluginListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed and declared plugins",
		Long: `List the plugins installed in the build project next to the versions the
manifest declares. Versions are shown in comparison form: the registry
version, url#ref for git plugins and the build-relative path for local ones.`,
		Example: `  mobilesync plugin list
  mobilesync plugin list --format json`,
		Args: cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
			if err := pluginListOpts.ValidateFlags(); err != nil {
				return err
			}
			desired, err := ctx.Container.DesiredPlugins()
			if err != nil {
				return err
			}

			rows, err := ctx.Container.Project().ListPlugins(ctx.Context, desired)
			if err != nil {
				return fmt.Errorf("failed to list plugins: %w", err)
			}

			formatter, err := ctx.Container.Formatter(pluginListOpts.Format, ports.FormatterOptions{Indent: true, NoColor: noColor})
			if err != nil {
				return err
			}
			return formatter.FormatPlugins(rows)
		}),
	}
	pluginListOpts.RegisterFormatFlag(cmd)
	return cmd
}
