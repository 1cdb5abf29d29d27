package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
	domainservices "github.com/reglet-dev/mobilesync/internal/domain/services"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// PlatformReconciler brings the build project's platforms in line with the
// desired set.
type PlatformReconciler struct {
	toolchain ports.Toolchain
	runner    *CommandRunner
	logger    *slog.Logger
	project   ProjectContext
}

// NewPlatformReconciler creates a platform reconciler.
func NewPlatformReconciler(
	project ProjectContext,
	toolchain ports.Toolchain,
	runner *CommandRunner,
	logger *slog.Logger,
) *PlatformReconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlatformReconciler{
		project:   project,
		toolchain: toolchain,
		runner:    runner,
		logger:    logger,
	}
}

// Plan reads the installed platforms and diffs them against desired.
func (r *PlatformReconciler) Plan(ctx context.Context, desired values.PlatformSet) (domainservices.PlatformPlan, error) {
	installed, err := r.toolchain.InstalledPlatforms(ctx, r.project.BuildRoot)
	if err != nil {
		return domainservices.PlatformPlan{}, fmt.Errorf("reading installed platforms: %w", err)
	}
	return domainservices.PlanPlatforms(desired, installed, r.project.KnownPlatforms), nil
}

// SynchronizePlatforms adds missing platforms, then removes unwanted known
// ones. The first failure aborts the rest.
func (r *PlatformReconciler) SynchronizePlatforms(ctx context.Context, desired values.PlatformSet) error {
	plan, err := r.Plan(ctx, desired)
	if err != nil {
		return err
	}

	for _, name := range plan.Add {
		target := r.project.platformTarget(name)
		r.logger.Info("adding platform", "platform", target)
		err := r.runner.Do(ctx, "adding platform "+target, func(ctx context.Context, ec ports.ExecContext) error {
			return r.toolchain.AddPlatforms(ctx, ec, []string{target}, r.project.toolchainOptions())
		})
		if err != nil {
			return err
		}
	}

	for _, name := range plan.Remove {
		r.logger.Info("removing platform", "platform", name)
		err := r.runner.Do(ctx, "removing platform "+name, func(ctx context.Context, ec ports.ExecContext) error {
			return r.toolchain.RemovePlatforms(ctx, ec, []string{name}, r.project.toolchainOptions())
		})
		if err != nil {
			return err
		}
	}

	return nil
}
