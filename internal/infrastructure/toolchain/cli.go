// Package toolchain runs the external build toolchain binary.
package toolchain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// DefaultBinary is the toolchain executable looked up on PATH.
const DefaultBinary = "cordova"

// platformsDir holds one directory per installed platform.
const platformsDir = "platforms"

// CLI implements ports.Toolchain by running the toolchain binary.
type CLI struct {
	logger *slog.Logger
	binary string
}

// Compile-time interface check
var _ ports.Toolchain = (*CLI)(nil)

// New creates a CLI adapter. An empty binary means DefaultBinary.
func New(binary string, logger *slog.Logger) *CLI {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CLI{
		binary: binary,
		logger: logger.With("component", "toolchain"),
	}
}

// result is the captured outcome of one invocation.
type result struct {
	stdout *boundedBuffer
	stderr *boundedBuffer
}

// run executes the binary and streams its output. Each line is logged at
// Debug, which is where verbose runs surface toolchain diagnostics.
func (c *CLI) run(ctx context.Context, ec ports.ExecContext, op string, args ...string) (*result, error) {
	path, err := lookPath(c.binary, ec.Getenv("PATH"), ec.Dir)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // G204: binary comes from configuration, arguments are never shell-interpreted
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = ec.Dir
	cmd.Env = ec.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res := &result{
		stdout: newBoundedBuffer(maxOutputSize),
		stderr: newBoundedBuffer(maxOutputSize),
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting toolchain for %s: %w", op, err)
	}

	var g errgroup.Group
	g.Go(func() error { return c.pump(ctx, stdoutPipe, res.stdout, "stdout") })
	g.Go(func() error { return c.pump(ctx, stderrPipe, res.stderr, "stderr") })
	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	c.logger.DebugContext(ctx, "executed toolchain command",
		"op", op,
		"args", args,
		"dir", ec.Dir,
		"duration", time.Since(start),
		"error", waitErr)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, &ports.ToolchainError{
				Op:       op,
				Message:  failureMessage(res),
				ExitCode: exitErr.ExitCode(),
				Err:      waitErr,
			}
		}
		return res, fmt.Errorf("%s: %w", op, waitErr)
	}
	if pumpErr != nil {
		return res, fmt.Errorf("reading toolchain output for %s: %w", op, pumpErr)
	}
	return res, nil
}

func (c *CLI) pump(ctx context.Context, r io.Reader, buf *boundedBuffer, stream string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		_, _ = buf.Write([]byte(line + "\n"))
		c.logger.DebugContext(ctx, "toolchain output", "stream", stream, "line", line)
	}
	if err := scanner.Err(); err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// failureMessage prefers the last stderr line, then the last stdout line.
func failureMessage(res *result) string {
	if line := res.stderr.lastLine(); line != "" {
		return line
	}
	return res.stdout.lastLine()
}

// CreateProject runs create with the parent directory as working directory.
func (c *CLI) CreateProject(ctx context.Context, ec ports.ExecContext, path, appID, appName string, opts dto.ToolchainOptions) error {
	args := append([]string{"create", path, appID, appName}, outputFlags(opts)...)
	_, err := c.run(ctx, ec, "create", args...)
	return err
}

// InstalledPlatforms lists the platform directories of the build project.
// A project without a platforms directory has none installed.
func (c *CLI) InstalledPlatforms(_ context.Context, buildRoot string) (values.PlatformSet, error) {
	entries, err := os.ReadDir(filepath.Join(buildRoot, platformsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return values.PlatformSet{}, nil
	}
	if err != nil {
		return values.PlatformSet{}, fmt.Errorf("listing platforms: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return values.NewPlatformSet(names...)
}

func (c *CLI) AddPlatforms(ctx context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "platform add", platformArgs("add", names, opts)...)
	return err
}

func (c *CLI) RemovePlatforms(ctx context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "platform remove", platformArgs("rm", names, opts)...)
	return err
}

func (c *CLI) UpdatePlatforms(ctx context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "platform update", platformArgs("update", names, opts)...)
	return err
}

func (c *CLI) AddPlugin(ctx context.Context, ec ports.ExecContext, target string, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "plugin add", pluginAddArgs(target, opts)...)
	return err
}

func (c *CLI) RemovePlugins(ctx context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	if len(names) == 0 {
		return nil
	}
	_, err := c.run(ctx, ec, "plugin remove", pluginRemoveArgs(names, opts)...)
	return err
}

// CheckRequirements runs requirements in JSON mode and parses the report.
func (c *CLI) CheckRequirements(ctx context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) (map[string]ports.PlatformRequirements, error) {
	res, err := c.run(ctx, ec, "requirements", requirementsArgs(opts)...)
	if err != nil {
		// The toolchain exits non-zero when requirements are missing but
		// still prints the report.
		var tcErr *ports.ToolchainError
		if !errors.As(err, &tcErr) || res == nil || len(strings.TrimSpace(res.stdout.String())) == 0 {
			return nil, err
		}
		if parsed, perr := parseRequirements(res.stdout.Bytes()); perr == nil {
			return parsed, nil
		}
		return nil, err
	}
	parsed, err := parseRequirements(res.stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parsing requirements: %w", err)
	}
	return parsed, nil
}

func (c *CLI) Prepare(ctx context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "prepare", buildArgs("prepare", opts)...)
	return err
}

func (c *CLI) Build(ctx context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "build", buildArgs("build", opts)...)
	return err
}

func (c *CLI) Run(ctx context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	_, err := c.run(ctx, ec, "run", buildArgs("run", opts)...)
	return err
}

// Version returns the last line the toolchain prints for --version.
func (c *CLI) Version(ctx context.Context, ec ports.ExecContext) (string, error) {
	res, err := c.run(ctx, ec, "version", "--version")
	if err != nil {
		return "", err
	}
	return res.stdout.lastLine(), nil
}
