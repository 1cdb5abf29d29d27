package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	domainservices "github.com/reglet-dev/mobilesync/internal/domain/services"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// ignoredRequirements are reported by the toolchain but not needed to build.
var ignoredRequirements = map[string]bool{
	"ios-deploy": true,
}

// ProjectDeps are the collaborators of a Project.
type ProjectDeps struct {
	Toolchain ports.Toolchain
	Metadata  ports.PluginMetadataReader
	Progress  ports.ProgressReporter
	Console   ports.Console
	Logger    *slog.Logger

	// MinToolchainVersion is a semver version or constraint ("" = any)
	MinToolchainVersion string

	// Runner configures the default exec context; BuildRoot is filled in
	// from the project context.
	Runner RunnerConfig
}

// Project coordinates the reconcilers and exposes the build operations of
// one build project.
type Project struct {
	toolchain  ports.Toolchain
	metadata   ports.PluginMetadataReader
	console    ports.Console
	runner     *CommandRunner
	platforms  *PlatformReconciler
	plugins    *PluginReconciler
	logger     *slog.Logger
	minVersion string
	project    ProjectContext
}

// NewProject creates a project facade bound to pc.
func NewProject(pc ProjectContext, deps ProjectDeps) *Project {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("build_root", pc.BuildRoot)

	runnerCfg := deps.Runner
	runnerCfg.BuildRoot = pc.BuildRoot
	runner := NewCommandRunner(runnerCfg, deps.Console, logger)

	return &Project{
		toolchain:  deps.Toolchain,
		metadata:   deps.Metadata,
		console:    deps.Console,
		runner:     runner,
		platforms:  NewPlatformReconciler(pc, deps.Toolchain, runner, logger),
		plugins:    NewPluginReconciler(pc, deps.Toolchain, deps.Metadata, runner, deps.Progress, deps.Console, logger),
		logger:     logger,
		minVersion: deps.MinToolchainVersion,
		project:    pc,
	}
}

// Context returns the project context the facade is bound to.
func (p *Project) Context() ProjectContext {
	return p.project
}

// CreateIfNeeded scaffolds the build project when its root does not exist.
func (p *Project) CreateIfNeeded(ctx context.Context) error {
	_, err := os.Stat(p.project.BuildRoot)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking build project: %w", err)
	}

	parent := filepath.Dir(p.project.BuildRoot)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating build project parent: %w", err)
	}

	appID := values.AppIDFromName(p.project.AppName)
	p.logger.Info("creating build project", "app_id", appID)
	return p.runner.Do(ctx, "creating build project", func(ctx context.Context, ec ports.ExecContext) error {
		return p.toolchain.CreateProject(ctx, ec, p.project.BuildRoot, appID, p.project.AppName, p.project.toolchainOptions())
	}, WithDir(parent))
}

// SynchronizePlatforms reconciles platforms.
func (p *Project) SynchronizePlatforms(ctx context.Context, desired values.PlatformSet) error {
	return p.platforms.SynchronizePlatforms(ctx, desired)
}

// SynchronizePlugins reconciles plugins.
func (p *Project) SynchronizePlugins(ctx context.Context, desired entities.PluginSet) error {
	return p.plugins.SynchronizePlugins(ctx, desired)
}

// Synchronize reconciles platforms, then plugins.
func (p *Project) Synchronize(ctx context.Context, platforms values.PlatformSet, plugins entities.PluginSet) error {
	if err := p.SynchronizePlatforms(ctx, platforms); err != nil {
		return err
	}
	return p.SynchronizePlugins(ctx, plugins)
}

// Plan computes what Synchronize would do without doing it.
func (p *Project) Plan(ctx context.Context, platforms values.PlatformSet, plugins entities.PluginSet) (dto.SyncPlan, error) {
	platformPlan, err := p.platforms.Plan(ctx, platforms)
	if err != nil {
		return dto.SyncPlan{}, err
	}
	pluginPlan, renames, err := p.plugins.Plan(ctx, plugins)
	if err != nil {
		return dto.SyncPlan{}, err
	}
	return toSyncPlan(platformPlan, pluginPlan, renames), nil
}

// Prepare copies application assets into the platform project.
func (p *Project) Prepare(ctx context.Context, platform string) error {
	opts := p.project.toolchainOptions()
	opts.Platforms = []string{platform}
	return p.runner.Do(ctx, "preparing the build project for "+platform, func(ctx context.Context, ec ports.ExecContext) error {
		return p.toolchain.Prepare(ctx, ec, opts)
	})
}

// Build compiles the platform project.
func (p *Project) Build(ctx context.Context, platform string, build dto.BuildOptions) error {
	opts := p.project.toolchainOptions()
	opts.Platforms = []string{platform}
	opts.Options = build
	return p.runner.Do(ctx, "building the app for "+platform, func(ctx context.Context, ec ports.ExecContext) error {
		return p.toolchain.Build(ctx, ec, opts)
	})
}

// Run builds and launches the app on a device or emulator.
func (p *Project) Run(ctx context.Context, platform string, build dto.BuildOptions) error {
	opts := p.project.toolchainOptions()
	opts.Platforms = []string{platform}
	opts.Options = build
	target := "emulator"
	if build.Device {
		target = "device"
	}
	return p.runner.Do(ctx, fmt.Sprintf("running the app on %s %s", platform, target), func(ctx context.Context, ec ports.ExecContext) error {
		return p.toolchain.Run(ctx, ec, opts)
	})
}

// UpdatePlatforms updates installed platforms to the toolchain's pinned versions.
func (p *Project) UpdatePlatforms(ctx context.Context, names []string) error {
	targets := make([]string, 0, len(names))
	for _, name := range names {
		targets = append(targets, p.project.platformTarget(name))
	}
	return p.runner.Do(ctx, "updating platforms "+strings.Join(names, ", "), func(ctx context.Context, ec ports.ExecContext) error {
		return p.toolchain.UpdatePlatforms(ctx, ec, targets, p.project.toolchainOptions())
	})
}

// CheckPlatformRequirements reports whether the system can build for
// platform, printing the status of each requirement when it cannot.
func (p *Project) CheckPlatformRequirements(ctx context.Context, platform string) (bool, error) {
	opts := p.project.toolchainOptions()
	opts.Platforms = []string{platform}

	results, err := Run(ctx, p.runner, "checking platform requirements", func(ctx context.Context, ec ports.ExecContext) (map[string]ports.PlatformRequirements, error) {
		return p.toolchain.CheckRequirements(ctx, ec, opts)
	})
	if err != nil {
		return false, err
	}

	result, ok := results[platform]
	if !ok {
		return false, fmt.Errorf("toolchain reported no requirements for platform %s", platform)
	}
	if result.Err != nil {
		p.warn("Could not check requirements for %s: %s", platform, result.Err.Message)
		return false, nil
	}

	var reqs []ports.Requirement
	satisfied := true
	for _, req := range result.Requirements {
		if ignoredRequirements[req.ID] {
			continue
		}
		reqs = append(reqs, req)
		if !req.Installed {
			satisfied = false
		}
	}
	if satisfied {
		return true, nil
	}

	if p.console != nil {
		p.console.Info("Your system does not yet seem to fulfill all requirements to build apps for %s.", platform)
		p.console.Info("")
		p.console.Info("Status of the individual requirements:")
		for _, req := range reqs {
			if req.Installed {
				p.console.Success("%s: installed", req.Name)
				continue
			}
			reason := req.Metadata.Reason
			if reason == "" {
				reason = "not installed"
			}
			p.console.Error("%s: %s", req.Name, reason)
		}
	}
	return false, nil
}

// CheckToolchainVersion verifies the toolchain against the configured
// minimum version.
func (p *Project) CheckToolchainVersion(ctx context.Context) (string, error) {
	version, err := Run(ctx, p.runner, "checking toolchain version", func(ctx context.Context, ec ports.ExecContext) (string, error) {
		return p.toolchain.Version(ctx, ec)
	}, WithDir(""))
	if err != nil {
		return "", err
	}
	version = strings.TrimSpace(version)
	if p.minVersion == "" {
		return version, nil
	}

	constraint, err := toolchainConstraint(p.minVersion)
	if err != nil {
		return version, apperrors.NewConfigurationError("toolchain.min_version", "invalid version constraint", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return version, apperrors.NewConfigurationError("toolchain.min_version",
			fmt.Sprintf("toolchain reported unparseable version %q", version), err)
	}
	if !constraint.Check(v) {
		return version, apperrors.NewConfigurationError("toolchain.min_version",
			fmt.Sprintf("toolchain version %s does not satisfy %s", v, p.minVersion), nil)
	}
	return version, nil
}

// InstalledPlatforms lists the platforms in the build project.
func (p *Project) InstalledPlatforms(ctx context.Context) (values.PlatformSet, error) {
	return p.toolchain.InstalledPlatforms(ctx, p.project.BuildRoot)
}

// InstalledPlugins lists the plugins in the build project.
func (p *Project) InstalledPlugins(ctx context.Context) (entities.InstalledPlugins, error) {
	return p.metadata.InstalledPlugins(ctx, p.project.BuildRoot)
}

// ListPlugins joins the installed plugins with the desired declarations.
// Desired plugins that are not installed have an empty Version.
func (p *Project) ListPlugins(ctx context.Context, desired entities.PluginSet) ([]dto.InstalledPlugin, error) {
	installed, err := p.InstalledPlugins(ctx)
	if err != nil {
		return nil, err
	}

	names := installed.Names()
	for _, name := range desired.Names() {
		if !installed.Has(name) || installed.Dependency(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	rows := make([]dto.InstalledPlugin, 0, len(names))
	for _, name := range names {
		row := dto.InstalledPlugin{Name: name}
		row.Version, _ = installed.Version(name)
		if decl, ok := desired.Get(name); ok {
			row.Desired = decl.Version
			if row.Desired == "" {
				row.Desired = "*"
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *Project) warn(format string, args ...any) {
	if p.console != nil {
		p.console.Warn(format, args...)
	}
}

// toolchainConstraint reads a bare version as a lower bound.
func toolchainConstraint(raw string) (*semver.Constraints, error) {
	if _, err := semver.NewVersion(raw); err == nil {
		return semver.NewConstraint(">= " + raw)
	}
	return semver.NewConstraint(raw)
}

func toSyncPlan(platforms domainservices.PlatformPlan, plugins domainservices.PluginPlan, renames []domainservices.PluginRename) dto.SyncPlan {
	plan := dto.SyncPlan{
		Platforms: dto.PlatformPlan{
			Add:    nonNil(platforms.Add),
			Remove: nonNil(platforms.Remove),
		},
		Plugins: dto.PluginPlan{
			ReinstallAll: plugins.ReinstallAll,
			Remove:       nonNil(plugins.Remove),
			Install:      make([]dto.PluginInstall, 0, len(plugins.Install)),
		},
	}
	for _, in := range plugins.Install {
		plan.Plugins.Install = append(plan.Plugins.Install, dto.PluginInstall{Name: in.Declaration.Name, Target: in.Target})
	}
	for _, rn := range renames {
		plan.Plugins.Renamed = append(plan.Plugins.Renamed, dto.PluginRename{From: rn.From, To: rn.To})
	}
	return plan
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
