package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// toolchainCall records one mutating call made against fakeToolchain.
type toolchainCall struct {
	Opts dto.ToolchainOptions
	EC   ports.ExecContext
	Op   string
	Args []string
}

// fakeToolchain keeps platform and plugin state in memory and mutates it the
// way the real toolchain mutates the build project on disk.
type fakeToolchain struct {
	platforms    map[string]bool
	plugins      map[string]string
	dependencies map[string]string
	failOn       map[string]error
	requirements map[string]ports.PlatformRequirements
	version      string
	calls        []toolchainCall
	mu           sync.Mutex
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		platforms: map[string]bool{},
		plugins:   map[string]string{},
		failOn:    map[string]error{},
	}
}

func (f *fakeToolchain) record(op string, ec ports.ExecContext, opts dto.ToolchainOptions, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, toolchainCall{Op: op, Args: args, EC: ec, Opts: opts})
	if err, ok := f.failOn[op+" "+strings.Join(args, " ")]; ok {
		return err
	}
	return f.failOn[op]
}

func (f *fakeToolchain) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, strings.TrimSpace(c.Op+" "+strings.Join(c.Args, " ")))
	}
	return out
}

func (f *fakeToolchain) CreateProject(_ context.Context, ec ports.ExecContext, path, appID, appName string, opts dto.ToolchainOptions) error {
	return f.record("create", ec, opts, path, appID, appName)
}

func (f *fakeToolchain) InstalledPlatforms(_ context.Context, _ string) (values.PlatformSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var set values.PlatformSet
	for name := range f.platforms {
		_ = set.Add(name)
	}
	return set, nil
}

func (f *fakeToolchain) AddPlatforms(_ context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	if err := f.record("platform add", ec, opts, names...); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.platforms[strings.SplitN(n, "@", 2)[0]] = true
	}
	return nil
}

func (f *fakeToolchain) RemovePlatforms(_ context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	if err := f.record("platform remove", ec, opts, names...); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		delete(f.platforms, n)
	}
	return nil
}

func (f *fakeToolchain) UpdatePlatforms(_ context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	return f.record("platform update", ec, opts, names...)
}

// AddPlugin stores the normalized form the toolchain would write to its
// fetch metadata: version for registry targets, the target otherwise.
func (f *fakeToolchain) AddPlugin(_ context.Context, ec ports.ExecContext, target string, opts dto.ToolchainOptions) error {
	if err := f.record("plugin add", ec, opts, target); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name, version := target, ""
	switch {
	case strings.Contains(target, "://") || strings.HasPrefix(target, "/") || strings.HasPrefix(target, "."):
		name = pluginNameFromTarget(target)
		version = target
	case strings.LastIndex(target, "@") > 0:
		i := strings.LastIndex(target, "@")
		name, version = target[:i], target[i+1:]
	}
	f.plugins[name] = version
	return nil
}

func (f *fakeToolchain) RemovePlugins(_ context.Context, ec ports.ExecContext, names []string, opts dto.ToolchainOptions) error {
	if err := f.record("plugin remove", ec, opts, names...); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		delete(f.plugins, n)
	}
	return nil
}

func (f *fakeToolchain) CheckRequirements(_ context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) (map[string]ports.PlatformRequirements, error) {
	if err := f.record("requirements", ec, opts, opts.Platforms...); err != nil {
		return nil, err
	}
	return f.requirements, nil
}

func (f *fakeToolchain) Prepare(_ context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	return f.record("prepare", ec, opts, opts.Platforms...)
}

func (f *fakeToolchain) Build(_ context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	return f.record("build", ec, opts, opts.Platforms...)
}

func (f *fakeToolchain) Run(_ context.Context, ec ports.ExecContext, opts dto.ToolchainOptions) error {
	return f.record("run", ec, opts, opts.Platforms...)
}

func (f *fakeToolchain) Version(_ context.Context, ec ports.ExecContext) (string, error) {
	if err := f.record("version", ec, dto.ToolchainOptions{}); err != nil {
		return "", err
	}
	return f.version, nil
}

// InstalledPlugins makes fakeToolchain its own metadata reader.
func (f *fakeToolchain) InstalledPlugins(_ context.Context, _ string) (entities.InstalledPlugins, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return entities.NewInstalledPluginsWithDependencies(f.plugins, f.dependencies), nil
}

// pluginNameFromTarget takes the last path element, minus any .git suffix.
func pluginNameFromTarget(target string) string {
	parts := strings.Split(strings.TrimSuffix(target, "/"), "/")
	name := parts[len(parts)-1]
	if i := strings.Index(name, ".git"); i > 0 {
		name = name[:i]
	}
	return name
}

type fakeConsole struct {
	lines []string
	mu    sync.Mutex
}

func (c *fakeConsole) add(level, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, level+": "+fmt.Sprintf(format, args...))
}

func (c *fakeConsole) Info(format string, args ...any)    { c.add("info", format, args...) }
func (c *fakeConsole) Success(format string, args ...any) { c.add("success", format, args...) }
func (c *fakeConsole) Warn(format string, args ...any)    { c.add("warn", format, args...) }
func (c *fakeConsole) Error(format string, args ...any)   { c.add("error", format, args...) }
func (c *fakeConsole) Hint(format string, args ...any)    { c.add("hint", format, args...) }

type fakeProgress struct {
	reports [][2]int
}

func (p *fakeProgress) Report(done, total int) {
	p.reports = append(p.reports, [2]int{done, total})
}
