package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	domainservices "github.com/reglet-dev/mobilesync/internal/domain/services"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// PluginReconciler brings the build project's plugins in line with the
// desired set, applying the reinstall-all policy.
type PluginReconciler struct {
	toolchain ports.Toolchain
	metadata  ports.PluginMetadataReader
	progress  ports.ProgressReporter
	console   ports.Console
	runner    *CommandRunner
	resolver  *domainservices.SpecifierResolver
	logger    *slog.Logger
	project   ProjectContext
}

// NewPluginReconciler creates a plugin reconciler. progress and console may
// be nil.
func NewPluginReconciler(
	project ProjectContext,
	toolchain ports.Toolchain,
	metadata ports.PluginMetadataReader,
	runner *CommandRunner,
	progress ports.ProgressReporter,
	console ports.Console,
	logger *slog.Logger,
) *PluginReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PluginReconciler{
		project:   project,
		toolchain: toolchain,
		metadata:  metadata,
		runner:    runner,
		progress:  progress,
		console:   console,
		resolver:  domainservices.NewSpecifierResolver(project.SourceRoot, project.BuildRoot),
		logger:    logger,
	}
}

// Plan reads installed plugins fresh and computes the reconciliation
// decision. Legacy ids in desired are renamed first.
func (r *PluginReconciler) Plan(ctx context.Context, desired entities.PluginSet) (domainservices.PluginPlan, []domainservices.PluginRename, error) {
	desired, renames, err := domainservices.MigrateDesiredPlugins(desired)
	if err != nil {
		return domainservices.PluginPlan{}, nil, err
	}
	r.warnNonSemver(desired)

	installed, err := r.metadata.InstalledPlugins(ctx, r.project.BuildRoot)
	if err != nil {
		return domainservices.PluginPlan{}, nil, fmt.Errorf("reading installed plugins: %w", err)
	}

	plan, err := domainservices.PlanPlugins(desired, installed, r.resolver)
	if err != nil {
		var specErr *domainservices.SpecifierError
		if errors.As(err, &specErr) {
			return domainservices.PluginPlan{}, nil, apperrors.NewConfigurationError(
				"plugin "+specErr.Plugin, "unsupported version specifier", specErr.Err)
		}
		return domainservices.PluginPlan{}, nil, err
	}
	return plan, renames, nil
}

// SynchronizePlugins removes then installs what the plan requires. Plugins
// added before a failure stay installed; the next call re-diffs.
func (r *PluginReconciler) SynchronizePlugins(ctx context.Context, desired entities.PluginSet) error {
	plan, renames, err := r.Plan(ctx, desired)
	if err != nil {
		return err
	}
	for _, rn := range renames {
		r.warn("Plugin %s is now published as %s; using %s.", rn.From, rn.To, rn.To)
	}

	if plan.Empty() {
		r.logger.Debug("plugins already in sync")
		return nil
	}
	if plan.ReinstallAll {
		r.logger.Info("reinstalling all plugins", "installed", len(plan.Remove), "desired", len(plan.Install))
	}

	if len(plan.Remove) > 0 {
		names := plan.Remove
		err := r.runner.Do(ctx, "removing plugins", func(ctx context.Context, ec ports.ExecContext) error {
			return r.toolchain.RemovePlugins(ctx, ec, names, r.project.toolchainOptions())
		})
		if err != nil {
			return err
		}
	}

	total := len(plan.Install)
	r.report(0, total)
	for i, in := range plan.Install {
		opts := r.project.toolchainOptions()
		opts.Variables = pluginVariables(in.Declaration.Config)
		opts.Link = r.project.LinkLocalPlugins && in.Declaration.IsLocalPath()

		target := in.Target
		r.logger.Info("adding plugin", "plugin", in.Declaration.Name, "target", target)
		err := r.runner.Do(ctx, "adding plugin "+target, func(ctx context.Context, ec ports.ExecContext) error {
			return r.toolchain.AddPlugin(ctx, ec, target, opts)
		})
		if err != nil {
			return err
		}
		r.report(i+1, total)
	}
	return nil
}

func (r *PluginReconciler) report(done, total int) {
	if r.progress != nil {
		r.progress.Report(done, total)
	}
}

func (r *PluginReconciler) warn(format string, args ...any) {
	if r.console != nil {
		r.console.Warn(format, args...)
	}
}

// warnNonSemver flags registry versions the registry is unlikely to resolve.
func (r *PluginReconciler) warnNonSemver(desired entities.PluginSet) {
	for _, d := range desired.Sorted() {
		spec, err := d.Specifier()
		if err != nil {
			continue
		}
		reg, ok := spec.(values.Registry)
		if !ok {
			continue
		}
		if _, err := semver.NewVersion(reg.Version); err == nil {
			continue
		}
		if _, err := semver.NewConstraint(reg.Version); err == nil {
			continue
		}
		r.logger.Warn("plugin version is neither a version nor a range", "plugin", d.Name, "version", reg.Version)
	}
}

// pluginVariables flattens a plugin's config bag into install variables.
// Strings pass through, other values are JSON encoded.
func pluginVariables(config map[string]any) map[string]string {
	if len(config) == 0 {
		return nil
	}
	vars := make(map[string]string, len(config))
	for k, v := range config {
		switch val := v.(type) {
		case string:
			vars[k] = val
		case nil:
			vars[k] = ""
		default:
			b, err := json.Marshal(val)
			if err != nil {
				vars[k] = fmt.Sprint(val)
				continue
			}
			vars[k] = string(b)
		}
	}
	return vars
}
