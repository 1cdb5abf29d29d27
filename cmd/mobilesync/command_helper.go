package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reglet-dev/mobilesync/internal/infrastructure/container"
)

// CommandContext provides common command dependencies.
type CommandContext struct {
	Container *container.Container
	Logger    *slog.Logger
	Context   context.Context
}

// CommandHandler is a function that executes with initialized dependencies.
type CommandHandler func(*CommandContext, *cobra.Command, []string) error

// withContainer wraps a command handler with container initialization:
// tool config, project manifest and adapters.
func withContainer(handler CommandHandler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		c, err := container.New(container.Options{
			Logger:       logger,
			Viper:        viper.GetViper(),
			Stdout:       cmd.OutOrStdout(),
			Stderr:       cmd.ErrOrStderr(),
			ConfigPath:   cfgFile,
			ManifestPath: projectFile,
			BuildDir:     buildDir,
			Verbose:      verbose,
			NoColor:      noColor,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx := &CommandContext{
			Container: c,
			Logger:    logger,
			Context:   cmd.Context(),
		}
		return handler(ctx, cmd, args)
	}
}

// withTimeout validates opts and bounds the handler by opts.Timeout.
func withTimeout(opts *CommonOptions, handler CommandHandler) CommandHandler {
	return func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
		if err := opts.ValidateFlags(); err != nil {
			return err
		}
		var cancel context.CancelFunc
		ctx.Context, cancel = opts.ApplyToContext(ctx.Context)
		defer cancel()
		return handler(ctx, cmd, args)
	}
}

// synchronize brings the build project in line with the manifest: checks
// the toolchain version, creates the project if needed and reconciles
// platforms and plugins.
func synchronize(ctx *CommandContext) error {
	project := ctx.Container.Project()

	version, err := project.CheckToolchainVersion(ctx.Context)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("toolchain version", "version", version)

	if err := project.CreateIfNeeded(ctx.Context); err != nil {
		return err
	}

	platforms, err := ctx.Container.DesiredPlatforms()
	if err != nil {
		return err
	}
	plugins, err := ctx.Container.DesiredPlugins()
	if err != nil {
		return err
	}
	return project.Synchronize(ctx.Context, platforms, plugins)
}

// requireDeclaredPlatform rejects platforms the manifest does not list.
func requireDeclaredPlatform(ctx *CommandContext, platform string) error {
	platforms, err := ctx.Container.DesiredPlatforms()
	if err != nil {
		return err
	}
	if !platforms.Has(platform) {
		return fmt.Errorf("platform %s is not declared in the manifest (declared: %v)", platform, platforms.Sorted())
	}
	return nil
}
