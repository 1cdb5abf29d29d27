package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/reglet-dev/mobilesync/internal/infrastructure/config"
)

var initPlatforms []string

// initManifest is the manifest written by init.
type initManifest struct {
	Plugins   map[string]string `yaml:"plugins"`
	Name      string            `yaml:"name"`
	Platforms []string          `yaml:"platforms"`
}

// initCmd writes a manifest and creates the build project.
var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a project manifest and the build project",
	Long: `Write a mobilesync.yaml manifest for the application in the current
directory, then create and synchronize the build project. The application
name defaults to the directory name. An existing manifest is kept.`,
	Example: `  mobilesync init "Field Notes" --platforms ios,android`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := projectFile
		if path == "" {
			path = config.DefaultManifestFile
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		created, err := writeManifest(path, name, initPlatforms)
		if err != nil {
			return err
		}

		return withContainer(func(ctx *CommandContext, _ *cobra.Command, _ []string) error {
			if created {
				ctx.Container.Console().Success("Created %s", path)
			} else {
				ctx.Container.Console().Info("Using existing %s", path)
			}
			if err := synchronize(ctx); err != nil {
				return err
			}
			ctx.Container.Console().Success("Build project ready at %s", ctx.Container.Project().Context().BuildRoot)
			return nil
		})(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringSliceVar(&initPlatforms, "platforms", nil, "Platforms to declare (comma-separated)")
}

// writeManifest creates the manifest unless it exists. Reports whether a
// file was written.
func writeManifest(path, name string, platforms []string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking manifest: %w", err)
	}

	if name == "" {
		abs, err := filepath.Abs(filepath.Dir(path))
		if err != nil {
			return false, fmt.Errorf("resolving application name: %w", err)
		}
		name = filepath.Base(abs)
	}
	if platforms == nil {
		platforms = []string{}
	}

	data, err := yaml.Marshal(initManifest{
		Name:      name,
		Platforms: platforms,
		Plugins:   map[string]string{},
	})
	if err != nil {
		return false, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: manifest is meant to be committed
		return false, fmt.Errorf("writing manifest: %w", err)
	}
	return true, nil
}
