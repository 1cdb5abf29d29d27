package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/semaphore"

	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// execSlot admits one toolchain scope at a time for the whole process.
// Scopes must not nest: an action never calls back into a runner.
var execSlot = semaphore.NewWeighted(1)

// RunnerConfig describes the default execution context of toolchain calls.
type RunnerConfig struct {
	// BuildRoot is the default working directory
	BuildRoot string

	// BinDir is prepended to PATH when set
	BinDir string

	// ExtraPaths are prepended to PATH after BinDir
	ExtraPaths []string

	// BaseEnv is the inherited environment (nil = os.Environ())
	BaseEnv []string
}

// CommandRunner scopes toolchain calls: it builds the ExecContext each call
// observes, serializes scopes, and classifies toolchain failures.
type CommandRunner struct {
	console ports.Console
	logger  *slog.Logger
	cfg     RunnerConfig
}

// NewCommandRunner creates a runner.
func NewCommandRunner(cfg RunnerConfig, console ports.Console, logger *slog.Logger) *CommandRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRunner{
		cfg:     cfg,
		console: console,
		logger:  logger,
	}
}

type runOptions struct {
	env    []string
	dir    string
	envSet bool
	dirSet bool
}

// RunOption overrides part of the default execution context.
type RunOption func(*runOptions)

// WithEnv replaces the whole environment.
func WithEnv(env []string) RunOption {
	return func(o *runOptions) {
		o.env = env
		o.envSet = true
	}
}

// WithDir overrides the working directory. An empty dir inherits the
// caller's working directory.
func WithDir(dir string) RunOption {
	return func(o *runOptions) {
		o.dir = dir
		o.dirSet = true
	}
}

// Action is work performed against the toolchain inside one scope.
type Action[T any] func(ctx context.Context, ec ports.ExecContext) (T, error)

// Run executes action inside a scope and passes its result through.
//
// A *ports.ToolchainError from action is reported on the console and
// returned as an *apperrors.ExitError with code 1. Other errors are
// returned unchanged.
func Run[T any](ctx context.Context, r *CommandRunner, title string, action Action[T], opts ...RunOption) (T, error) {
	var zero T

	if err := execSlot.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	defer execSlot.Release(1)

	ec := r.execContext(opts)
	logger := r.logger.With("run_id", values.NewRunID().String(), "title", title)
	logger.Debug("toolchain scope started", "dir", ec.Dir)

	result, err := action(ctx, ec)
	if err != nil {
		var tcErr *ports.ToolchainError
		if errors.As(err, &tcErr) {
			logger.Debug("toolchain reported failure", "error", err)
			r.reportFailure(title, tcErr)
			return zero, apperrors.NewExitError(1, apperrors.NewToolchainFailure(title, err))
		}
		logger.Debug("toolchain scope failed", "error", err)
		return zero, err
	}

	logger.Debug("toolchain scope finished")
	return result, nil
}

// Do is Run for actions without a result.
func (r *CommandRunner) Do(ctx context.Context, title string, action func(ctx context.Context, ec ports.ExecContext) error, opts ...RunOption) error {
	_, err := Run(ctx, r, title, func(ctx context.Context, ec ports.ExecContext) (struct{}, error) {
		return struct{}{}, action(ctx, ec)
	}, opts...)
	return err
}

// DefaultEnv is the inherited environment with BinDir and ExtraPaths
// prepended to PATH.
func (r *CommandRunner) DefaultEnv() []string {
	base := r.cfg.BaseEnv
	if base == nil {
		base = os.Environ()
	}

	var prefix []string
	if r.cfg.BinDir != "" {
		prefix = append(prefix, r.cfg.BinDir)
	}
	prefix = append(prefix, r.cfg.ExtraPaths...)

	env := make([]string, 0, len(base)+1)
	path := ""
	for _, kv := range base {
		if strings.HasPrefix(kv, "PATH=") {
			path = strings.TrimPrefix(kv, "PATH=")
			continue
		}
		env = append(env, kv)
	}
	if path != "" {
		prefix = append(prefix, path)
	}
	if len(prefix) > 0 {
		env = append(env, "PATH="+strings.Join(prefix, string(os.PathListSeparator)))
	}
	return env
}

func (r *CommandRunner) execContext(opts []RunOption) ports.ExecContext {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	ec := ports.ExecContext{Dir: r.cfg.BuildRoot}
	if o.dirSet {
		ec.Dir = o.dir
	}
	if o.envSet {
		ec.Env = o.env
	} else {
		ec.Env = r.DefaultEnv()
	}
	return ec
}

func (r *CommandRunner) reportFailure(title string, err *ports.ToolchainError) {
	if r.console == nil {
		return
	}
	r.console.Error("Errors executing toolchain commands:")
	r.console.Error("")
	r.console.Error("While %s:", title)
	r.console.Error("Toolchain error: %s", err.Error())
	r.console.Hint("(If the error message contains suggestions for a fix, note that they may not " +
		"apply to mobilesync. You can try running again with the --verbose option to help diagnose the issue.)")
}
