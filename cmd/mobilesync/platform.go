package main

import (
	"github.com/spf13/cobra"
)

// platformCmd groups platform maintenance commands.
var platformCmd = &cobra.Command{
	Use:   "platform",
	Short: "Inspect and update build project platforms",
}

func init() {
	rootCmd.AddCommand(platformCmd)
	platformCmd.AddCommand(newPlatformListCmd())
	platformCmd.AddCommand(newPlatformUpdateCmd())
}

func newPlatformListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed platforms",
		Args:  cobra.NoArgs,
		RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
			installed, err := ctx.Container.Project().InstalledPlatforms(ctx.Context)
			if err != nil {
				return err
			}
			desired, err := ctx.Container.DesiredPlatforms()
			if err != nil {
				return err
			}

			console := ctx.Container.Console()
			if installed.Len() == 0 && desired.Len() == 0 {
				console.Info("No platforms installed.")
				return nil
			}
			for _, name := range installed.Sorted() {
				if desired.Has(name) {
					console.Success("%s", name)
				} else {
					console.Warn("%s (not in manifest)", name)
				}
			}
			for _, name := range desired.Sorted() {
				if !installed.Has(name) {
					console.Warn("%s (not installed, run sync)", name)
				}
			}
			return nil
		}),
	}
}

func newPlatformUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [platform...]",
		Short: "Update platforms to the toolchain's (or the pinned) version",
		Long: `Update installed platforms. Without arguments every installed platform
declared in the manifest is updated. Versions pinned in platform_versions
are applied.`,
		RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				installed, err := ctx.Container.Project().InstalledPlatforms(ctx.Context)
				if err != nil {
					return err
				}
				desired, err := ctx.Container.DesiredPlatforms()
				if err != nil {
					return err
				}
				for _, name := range installed.Sorted() {
					if desired.Has(name) {
						names = append(names, name)
					}
				}
			}
			if len(names) == 0 {
				ctx.Container.Console().Info("No platforms to update.")
				return nil
			}
			return ctx.Container.Project().UpdatePlatforms(ctx.Context, names)
		}),
	}
}
