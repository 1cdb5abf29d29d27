package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

type projectFixture struct {
	toolchain *fakeToolchain
	console   *fakeConsole
	project   *Project
}

func newProjectFixture(pc ProjectContext, minVersion string) *projectFixture {
	tc := newFakeToolchain()
	console := &fakeConsole{}
	return &projectFixture{
		toolchain: tc,
		console:   console,
		project: NewProject(pc, ProjectDeps{
			Toolchain:           tc,
			Metadata:            tc,
			Console:             console,
			MinToolchainVersion: minVersion,
			Runner:              RunnerConfig{BaseEnv: []string{}},
		}),
	}
}

func TestProject_CreateIfNeeded(t *testing.T) {
	src := t.TempDir()
	pc := testProjectContext()
	pc.SourceRoot = src
	pc.BuildRoot = filepath.Join(src, ".mobilesync", "build")
	f := newProjectFixture(pc, "")

	require.NoError(t, f.project.CreateIfNeeded(context.Background()))
	require.Len(t, f.toolchain.calls, 1)
	call := f.toolchain.calls[0]
	assert.Equal(t, "create", call.Op)
	assert.Equal(t, []string{pc.BuildRoot, "com.mobilesync.userapps.My_App", "My App"}, call.Args)
	assert.Equal(t, filepath.Join(src, ".mobilesync"), call.EC.Dir)
	assert.DirExists(t, filepath.Join(src, ".mobilesync"))
}

func TestProject_CreateIfNeeded_Exists(t *testing.T) {
	pc := testProjectContext()
	pc.BuildRoot = t.TempDir()
	f := newProjectFixture(pc, "")

	require.NoError(t, f.project.CreateIfNeeded(context.Background()))
	assert.Empty(t, f.toolchain.calls)
}

func TestProject_SynchronizeOrder(t *testing.T) {
	f := newProjectFixture(testProjectContext(), "")

	err := f.project.Synchronize(context.Background(),
		values.MustNewPlatformSet("ios"),
		entities.MustNewPluginSet(plugin("camera", "4.1.0")))
	require.NoError(t, err)
	assert.Equal(t, []string{"platform add ios", "plugin add camera@4.1.0"}, f.toolchain.ops())
}

func TestProject_Plan(t *testing.T) {
	f := newProjectFixture(testProjectContext(), "")
	f.toolchain.platforms = map[string]bool{"android": true}
	f.toolchain.plugins = map[string]string{"camera": "4.0.0"}

	plan, err := f.project.Plan(context.Background(),
		values.MustNewPlatformSet("ios"),
		entities.MustNewPluginSet(plugin("camera", "4.1.0")))
	require.NoError(t, err)
	assert.Empty(t, f.toolchain.ops(), "planning must not mutate")
	assert.False(t, plan.InSync())
	assert.Equal(t, []string{"ios"}, plan.Platforms.Add)
	assert.Equal(t, []string{"android"}, plan.Platforms.Remove)
	assert.True(t, plan.Plugins.ReinstallAll)
	assert.Equal(t, []string{"camera"}, plan.Plugins.Remove)
	assert.Equal(t, []dto.PluginInstall{{Name: "camera", Target: "camera@4.1.0"}}, plan.Plugins.Install)
}

func TestProject_PlanInSync(t *testing.T) {
	f := newProjectFixture(testProjectContext(), "")

	plan, err := f.project.Plan(context.Background(), values.PlatformSet{}, entities.PluginSet{})
	require.NoError(t, err)
	assert.True(t, plan.InSync())
	assert.NotNil(t, plan.Platforms.Add)
	assert.NotNil(t, plan.Plugins.Install)
}

func TestProject_BuildAndRun(t *testing.T) {
	pc := testProjectContext()
	pc.Verbose = true
	f := newProjectFixture(pc, "")
	ctx := context.Background()

	require.NoError(t, f.project.Prepare(ctx, "ios"))
	require.NoError(t, f.project.Build(ctx, "ios", dto.BuildOptions{Release: true}))
	require.NoError(t, f.project.Run(ctx, "android", dto.BuildOptions{Device: true}))

	assert.Equal(t, []string{"prepare ios", "build ios", "run android"}, f.toolchain.ops())
	assert.True(t, f.toolchain.calls[1].Opts.Options.Release)
	assert.True(t, f.toolchain.calls[1].Opts.Verbose)
	assert.False(t, f.toolchain.calls[1].Opts.Silent)
	assert.True(t, f.toolchain.calls[2].Opts.Options.Device)
}

func TestProject_UpdatePlatforms(t *testing.T) {
	pc := testProjectContext()
	pc.PlatformVersions = map[string]string{"ios": "7.0.0"}
	f := newProjectFixture(pc, "")

	require.NoError(t, f.project.UpdatePlatforms(context.Background(), []string{"ios", "android"}))
	assert.Equal(t, []string{"platform update ios@7.0.0 android"}, f.toolchain.ops())
}

func TestProject_CheckPlatformRequirements(t *testing.T) {
	ctx := context.Background()

	t.Run("satisfied ignoring ios-deploy", func(t *testing.T) {
		f := newProjectFixture(testProjectContext(), "")
		f.toolchain.requirements = map[string]ports.PlatformRequirements{
			"ios": {Requirements: []ports.Requirement{
				{ID: "xcode", Name: "Xcode", Installed: true},
				{ID: "ios-deploy", Name: "ios-deploy", Installed: false},
			}},
		}

		ok, err := f.project.CheckPlatformRequirements(ctx, "ios")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, f.console.lines)
	})

	t.Run("unsatisfied prints status", func(t *testing.T) {
		f := newProjectFixture(testProjectContext(), "")
		f.toolchain.requirements = map[string]ports.PlatformRequirements{
			"android": {Requirements: []ports.Requirement{
				{ID: "java", Name: "Java JDK", Installed: true},
				{ID: "androidSdk", Name: "Android SDK", Metadata: ports.RequirementMetadata{Reason: "ANDROID_HOME not set"}},
				{ID: "gradle", Name: "Gradle"},
			}},
		}

		ok, err := f.project.CheckPlatformRequirements(ctx, "android")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, f.console.lines, "success: Java JDK: installed")
		assert.Contains(t, f.console.lines, "error: Android SDK: ANDROID_HOME not set")
		assert.Contains(t, f.console.lines, "error: Gradle: not installed")
	})

	t.Run("platform error value", func(t *testing.T) {
		f := newProjectFixture(testProjectContext(), "")
		f.toolchain.requirements = map[string]ports.PlatformRequirements{
			"ios": {Err: &ports.RequirementsError{Platform: "ios", Message: "only supported on macOS"}},
		}

		ok, err := f.project.CheckPlatformRequirements(ctx, "ios")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"warn: Could not check requirements for ios: only supported on macOS"}, f.console.lines)
	})

	t.Run("platform missing from result", func(t *testing.T) {
		f := newProjectFixture(testProjectContext(), "")
		f.toolchain.requirements = map[string]ports.PlatformRequirements{}

		_, err := f.project.CheckPlatformRequirements(ctx, "ios")
		assert.Error(t, err)
	})

	t.Run("toolchain failure", func(t *testing.T) {
		f := newProjectFixture(testProjectContext(), "")
		f.toolchain.failOn["requirements"] = &ports.ToolchainError{Op: "requirements", Message: "not a project"}

		_, err := f.project.CheckPlatformRequirements(ctx, "ios")
		_, isExit := apperrors.ExitCode(err)
		assert.True(t, isExit)
	})
}

func TestProject_CheckToolchainVersion(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		minVersion string
		version    string
		wantErr    bool
	}{
		{name: "no minimum", version: "whatever"},
		{name: "bare minimum satisfied", minVersion: "10.0.0", version: "12.0.0\n"},
		{name: "bare minimum not met", minVersion: "10.0.0", version: "9.0.0", wantErr: true},
		{name: "constraint", minVersion: ">= 11, < 13", version: "12.0.0"},
		{name: "constraint not met", minVersion: "^11", version: "12.0.0", wantErr: true},
		{name: "unparseable version", minVersion: "10", version: "dev", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProjectFixture(testProjectContext(), tt.minVersion)
			f.toolchain.version = tt.version

			_, err := f.project.CheckToolchainVersion(ctx)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var cfgErr *apperrors.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "toolchain.min_version", cfgErr.Aspect)
		})
	}
}

func TestProject_CheckToolchainVersion_InheritsDir(t *testing.T) {
	f := newProjectFixture(testProjectContext(), "")
	f.toolchain.version = "12.0.0"

	v, err := f.project.CheckToolchainVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12.0.0", v)
	assert.Equal(t, "", f.toolchain.calls[0].EC.Dir)
}

func TestProject_WorkingDirectoryUnchanged(t *testing.T) {
	before, err := os.Getwd()
	require.NoError(t, err)

	f := newProjectFixture(testProjectContext(), "")
	f.toolchain.failOn["build"] = &ports.ToolchainError{Op: "build", Message: "compile error"}

	_ = f.project.Prepare(context.Background(), "ios")
	_ = f.project.Build(context.Background(), "ios", dto.BuildOptions{})

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProject_ListPlugins(t *testing.T) {
	f := newProjectFixture(testProjectContext(), "")
	f.toolchain.plugins = map[string]string{"camera": "4.0.0", "orphan": "1.0.0"}
	f.toolchain.dependencies = map[string]string{"file": "6.0.0", "hidden": "1.0.0"}

	rows, err := f.project.ListPlugins(context.Background(), entities.MustNewPluginSet(
		plugin("camera", "4.1.0"),
		plugin("device", ""),
		plugin("file", "6.0.0"),
	))
	require.NoError(t, err)
	assert.Equal(t, []dto.InstalledPlugin{
		{Name: "camera", Version: "4.0.0", Desired: "4.1.0"},
		{Name: "device", Desired: "*"},
		{Name: "file", Version: "6.0.0", Desired: "6.0.0"},
		{Name: "orphan", Version: "1.0.0"},
	}, rows)
	assert.Empty(t, f.toolchain.calls, "listing never runs the toolchain")
}
