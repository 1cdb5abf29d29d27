package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

func TestOutputFlags(t *testing.T) {
	assert.Equal(t, []string{"--verbose"}, outputFlags(dto.ToolchainOptions{Verbose: true, Silent: true}))
	assert.Equal(t, []string{"--silent"}, outputFlags(dto.ToolchainOptions{Silent: true}))
	assert.Nil(t, outputFlags(dto.ToolchainOptions{}))
}

func TestPluginAddArgs(t *testing.T) {
	args := pluginAddArgs("../../plugins/mine", dto.ToolchainOptions{
		Variables: map[string]string{"B": "2", "A": "1"},
		Link:      true,
		Silent:    true,
	})
	assert.Equal(t, []string{
		"plugin", "add", "../../plugins/mine",
		"--variable", "A=1",
		"--variable", "B=2",
		"--link",
		"--silent",
	}, args)
}

func TestPlatformArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"platform", "add", "ios@6.2.0", "--verbose"},
		platformArgs("add", []string{"ios@6.2.0"}, dto.ToolchainOptions{Verbose: true}))
}

func TestPluginRemoveArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"plugin", "rm", "a", "b", "--silent"},
		pluginRemoveArgs([]string{"a", "b"}, dto.ToolchainOptions{Silent: true}))
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("run", dto.ToolchainOptions{
		Platforms: []string{"android"},
		Silent:    true,
		Options: dto.BuildOptions{
			Release:     true,
			Device:      true,
			Target:      "emulator-5554",
			BuildConfig: "build.json",
			Extra:       []string{"--gradleArg=--offline"},
		},
	})
	assert.Equal(t, []string{
		"run", "android",
		"--release", "--device",
		"--target=emulator-5554",
		"--buildConfig=build.json",
		"--silent",
		"--", "--gradleArg=--offline",
	}, args)
}

func TestRequirementsArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"requirements", "ios", "--json"},
		requirementsArgs(dto.ToolchainOptions{Platforms: []string{"ios"}}))
}
