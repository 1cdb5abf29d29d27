package main

import (
	"github.com/spf13/cobra"

	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
)

// requirementsCmd checks the build prerequisites of one platform.
var requirementsCmd = &cobra.Command{
	Use:   "requirements <platform>",
	Short: "Check whether this system can build for a platform",
	Long: `Synchronize the build project, then ask the toolchain whether the SDKs
and tools needed for the platform are installed. Exits with status 1 when
a requirement is missing.`,
	Args: cobra.ExactArgs(1),
	RunE: withContainer(func(ctx *CommandContext, _ *cobra.Command, args []string) error {
		platform := args[0]
		if err := requireDeclaredPlatform(ctx, platform); err != nil {
			return err
		}
		if err := synchronize(ctx); err != nil {
			return err
		}
		return checkRequirements(ctx, platform)
	}),
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
}

// checkRequirements turns unsatisfied requirements into exit status 1. The
// details have already been printed.
func checkRequirements(ctx *CommandContext, platform string) error {
	ok, err := ctx.Container.Project().CheckPlatformRequirements(ctx.Context, platform)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewExitError(1, nil)
	}
	ctx.Container.Console().Success("All requirements for %s are installed.", platform)
	return nil
}
