package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

var (
	buildOpts = DefaultCommonOptions()
	buildArgs dto.BuildOptions
)

// prepareCmd copies the application into the platform project.
var prepareCmd = &cobra.Command{
	Use:   "prepare <platform>",
	Short: "Synchronize and prepare the platform project",
	Args:  cobra.ExactArgs(1),
	RunE: withContainer(withTimeout(&buildOpts, func(ctx *CommandContext, _ *cobra.Command, args []string) error {
		platform := args[0]
		if err := startBuild(ctx, platform, false); err != nil {
			return err
		}
		return ctx.Container.Project().Prepare(ctx.Context, platform)
	})),
}

// buildCmd compiles the platform project.
var buildCmd = &cobra.Command{
	Use:   "build <platform> [-- platform build args]",
	Short: "Synchronize and build the app for a platform",
	Long: `Synchronize the build project, verify the platform's build requirements
and build the app. Arguments after -- are passed to the platform build.`,
	Example: `  mobilesync build android --release -- --gradleArg=--offline`,
	Args:    cobra.MinimumNArgs(1),
	RunE: withContainer(withTimeout(&buildOpts, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		platform, opts, err := buildRequest(cmd, args)
		if err != nil {
			return err
		}
		if err := startBuild(ctx, platform, true); err != nil {
			return err
		}
		return ctx.Container.Project().Build(ctx.Context, platform, opts)
	})),
}

// runCmd builds and launches the app.
var runCmd = &cobra.Command{
	Use:   "run <platform> [-- platform build args]",
	Short: "Synchronize, build and launch the app on a device or emulator",
	Example: `  mobilesync run ios --emulator
  mobilesync run android --device --target=emulator-5554`,
	Args: cobra.MinimumNArgs(1),
	RunE: withContainer(withTimeout(&buildOpts, func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		platform, opts, err := buildRequest(cmd, args)
		if err != nil {
			return err
		}
		if err := startBuild(ctx, platform, true); err != nil {
			return err
		}
		return ctx.Container.Project().Run(ctx.Context, platform, opts)
	})),
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)

	for _, cmd := range []*cobra.Command{prepareCmd, buildCmd, runCmd} {
		buildOpts.RegisterFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{buildCmd, runCmd} {
		cmd.Flags().BoolVar(&buildArgs.Release, "release", false, "Build a release package")
		cmd.Flags().BoolVar(&buildArgs.Device, "device", false, "Target a connected device")
		cmd.Flags().BoolVar(&buildArgs.Emulator, "emulator", false, "Target an emulator")
		cmd.Flags().StringVar(&buildArgs.Target, "target", "", "Device or emulator id")
		cmd.Flags().StringVar(&buildArgs.BuildConfig, "build-config", "", "Platform build configuration file")
		cmd.MarkFlagsMutuallyExclusive("device", "emulator")
	}
}

// buildRequest splits the platform from the pass-through arguments.
func buildRequest(cmd *cobra.Command, args []string) (string, dto.BuildOptions, error) {
	opts := buildArgs
	dash := cmd.ArgsLenAtDash()
	if dash == 0 {
		return "", opts, fmt.Errorf("missing platform before --")
	}
	if dash > 0 {
		opts.Extra = append([]string(nil), args[dash:]...)
		args = args[:dash]
	}
	if len(args) != 1 {
		return "", opts, cobra.ExactArgs(1)(cmd, args)
	}
	return args[0], opts, nil
}

// startBuild synchronizes the build project and, for builds, gates on the
// platform's requirements.
func startBuild(ctx *CommandContext, platform string, checkRequirementsFirst bool) error {
	if err := requireDeclaredPlatform(ctx, platform); err != nil {
		return err
	}
	if err := synchronize(ctx); err != nil {
		return err
	}
	if !checkRequirementsFirst {
		return nil
	}
	return checkRequirements(ctx, platform)
}
