// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/application/services"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
	"github.com/reglet-dev/mobilesync/internal/infrastructure/config"
	"github.com/reglet-dev/mobilesync/internal/infrastructure/output"
	"github.com/reglet-dev/mobilesync/internal/infrastructure/persistence/fetchmeta"
	"github.com/reglet-dev/mobilesync/internal/infrastructure/system"
	"github.com/reglet-dev/mobilesync/internal/infrastructure/toolchain"
)

// Container holds all application dependencies.
type Container struct {
	project    *services.Project
	manifest   *entities.Project
	systemCfg  *system.Config
	console    *output.Console
	formatters *output.FormatterFactory
	stdout     io.Writer
	logger     *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	Viper  *viper.Viper

	Stdout io.Writer
	Stderr io.Writer

	// ConfigPath is the tool config file ("" = defaults and environment)
	ConfigPath string

	// ManifestPath is the project manifest ("" = ./mobilesync.yaml)
	ManifestPath string

	// BuildDir overrides the manifest's build_dir
	BuildDir string

	Verbose bool
	NoColor bool
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	// Load tool config
	loader := system.NewConfigLoader(opts.Viper)
	systemCfg, err := loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if used := loader.ConfigFileUsed(); used != "" {
		opts.Logger.Debug("using config file", "file", used)
	}
	known, err := systemCfg.KnownPlatformSet()
	if err != nil {
		return nil, err
	}

	// Load project manifest
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = config.DefaultManifestFile
	}
	manifestPath, err = filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path: %w", err)
	}
	manifestLoader, err := config.NewManifestLoader()
	if err != nil {
		return nil, err
	}
	manifest, err := manifestLoader.Load(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", manifestPath, err)
	}

	sourceRoot := filepath.Dir(manifestPath)
	buildDir := manifest.BuildDir
	if opts.BuildDir != "" {
		buildDir = opts.BuildDir
	}

	pc := services.ProjectContext{
		PlatformVersions: systemCfg.PlatformVersions,
		SourceRoot:       sourceRoot,
		BuildRoot:        resolve(sourceRoot, buildDir),
		AppName:          manifest.Name,
		KnownPlatforms:   known,
		Verbose:          opts.Verbose,
		LinkLocalPlugins: systemCfg.LinkLocalPlugins,
	}

	extraPaths := make([]string, 0, len(systemCfg.ExtraPaths))
	for _, p := range systemCfg.ExtraPaths {
		extraPaths = append(extraPaths, resolve(sourceRoot, p))
	}
	binDir := ""
	if systemCfg.Toolchain.BinDir != "" {
		binDir = resolve(sourceRoot, systemCfg.Toolchain.BinDir)
	}

	console := output.NewConsole(opts.Stdout, opts.Stderr, opts.NoColor)
	project := services.NewProject(pc, services.ProjectDeps{
		Toolchain:           toolchain.New(systemCfg.Toolchain.Binary, opts.Logger),
		Metadata:            fetchmeta.NewReader(opts.Logger),
		Progress:            output.NewProgress(opts.Stderr, ""),
		Console:             console,
		Logger:              opts.Logger,
		MinToolchainVersion: systemCfg.Toolchain.MinVersion,
		Runner: services.RunnerConfig{
			BinDir:     binDir,
			ExtraPaths: extraPaths,
		},
	})

	opts.Logger.Debug("project loaded",
		"manifest", manifestPath,
		"build_root", pc.BuildRoot,
		"platforms", len(manifest.Platforms),
		"plugins", len(manifest.Plugins))

	return &Container{
		project:    project,
		manifest:   manifest,
		systemCfg:  systemCfg,
		console:    console,
		formatters: output.NewFormatterFactory(),
		stdout:     opts.Stdout,
		logger:     opts.Logger,
	}, nil
}

// resolve makes p absolute against root.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// Project returns the project facade.
func (c *Container) Project() *services.Project {
	return c.project
}

// Manifest returns the loaded project manifest.
func (c *Container) Manifest() *entities.Project {
	return c.manifest
}

// SystemConfig returns the tool configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Console returns the user-facing console.
func (c *Container) Console() ports.Console {
	return c.console
}

// Formatter creates a report formatter writing to stdout.
func (c *Container) Formatter(format string, options ports.FormatterOptions) (ports.OutputFormatter, error) {
	return c.formatters.Create(format, c.stdout, options)
}

// DesiredPlatforms returns the manifest's platforms.
func (c *Container) DesiredPlatforms() (values.PlatformSet, error) {
	return c.manifest.PlatformSet()
}

// DesiredPlugins returns the manifest's plugins.
func (c *Container) DesiredPlugins() (entities.PluginSet, error) {
	return c.manifest.PluginSet()
}

// Logger returns the application logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
