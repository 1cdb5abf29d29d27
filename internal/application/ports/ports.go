// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// ExecContext is the working directory and environment one toolchain call
// observes. It is passed explicitly; nothing mutates process-wide state.
type ExecContext struct {
	// Dir is the working directory ("" inherits the caller's)
	Dir string

	// Env is the complete environment in KEY=VALUE form
	Env []string
}

// Getenv returns the last value of key in Env.
func (c ExecContext) Getenv(key string) string {
	prefix := key + "="
	value := ""
	for _, kv := range c.Env {
		if strings.HasPrefix(kv, prefix) {
			value = strings.TrimPrefix(kv, prefix)
		}
	}
	return value
}

// Toolchain abstracts the external build toolchain. Every call blocks until
// the underlying operation completes; none run concurrently.
type Toolchain interface {
	// CreateProject scaffolds a build project at path.
	CreateProject(ctx context.Context, ec ExecContext, path, appID, appName string, opts dto.ToolchainOptions) error

	// InstalledPlatforms reads the platforms present in the build project.
	InstalledPlatforms(ctx context.Context, buildRoot string) (values.PlatformSet, error)

	AddPlatforms(ctx context.Context, ec ExecContext, names []string, opts dto.ToolchainOptions) error
	RemovePlatforms(ctx context.Context, ec ExecContext, names []string, opts dto.ToolchainOptions) error
	UpdatePlatforms(ctx context.Context, ec ExecContext, names []string, opts dto.ToolchainOptions) error

	// AddPlugin installs one plugin from a resolved target.
	AddPlugin(ctx context.Context, ec ExecContext, target string, opts dto.ToolchainOptions) error

	// RemovePlugins removes plugins by name in one call.
	RemovePlugins(ctx context.Context, ec ExecContext, names []string, opts dto.ToolchainOptions) error

	// CheckRequirements probes build requirements for opts.Platforms.
	CheckRequirements(ctx context.Context, ec ExecContext, opts dto.ToolchainOptions) (map[string]PlatformRequirements, error)

	Prepare(ctx context.Context, ec ExecContext, opts dto.ToolchainOptions) error
	Build(ctx context.Context, ec ExecContext, opts dto.ToolchainOptions) error
	Run(ctx context.Context, ec ExecContext, opts dto.ToolchainOptions) error

	// Version reports the toolchain's own version string.
	Version(ctx context.Context, ec ExecContext) (string, error)
}

// PluginMetadataReader reads the toolchain's plugin fetch metadata.
type PluginMetadataReader interface {
	InstalledPlugins(ctx context.Context, buildRoot string) (entities.InstalledPlugins, error)
}

// ProgressReporter receives (completed, total) after every plugin add,
// starting with (0, total).
type ProgressReporter interface {
	Report(done, total int)
}

// Console is the user-facing output channel, separate from diagnostic logs.
type Console interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Hint(format string, args ...any)
}

// ToolchainError is a failure reported by the toolchain itself for an
// operation, as opposed to a failure to run it.
type ToolchainError struct {
	Err      error
	Op       string
	Message  string
	ExitCode int
}

func (e *ToolchainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed with exit code %d", e.Op, e.ExitCode)
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}

// Requirement is one build prerequisite for a platform.
type Requirement struct {
	Metadata  RequirementMetadata `json:"metadata"`
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Installed bool                `json:"installed"`
}

// RequirementMetadata carries why a requirement is unsatisfied.
type RequirementMetadata struct {
	Reason string `json:"reason,omitempty"`
}

// RequirementsError is returned by the toolchain in place of a requirement
// list when it cannot check a platform at all.
type RequirementsError struct {
	Platform string
	Message  string
}

func (e *RequirementsError) Error() string {
	return fmt.Sprintf("checking requirements for %s: %s", e.Platform, e.Message)
}

// PlatformRequirements is the requirements result for one platform.
// Exactly one of Requirements or Err is meaningful.
type PlatformRequirements struct {
	Err          *RequirementsError
	Requirements []Requirement
}

// OutputFormatter renders CLI reports.
type OutputFormatter interface {
	FormatPlan(plan dto.SyncPlan) error
	FormatPlugins(plugins []dto.InstalledPlugin) error
}

// FormatterOptions configures output formatters.
type FormatterOptions struct {
	// Indent pretty-prints JSON
	Indent bool

	// NoColor disables ANSI colors in table output
	NoColor bool
}
