package services

import (
	"github.com/reglet-dev/mobilesync/internal/application/dto"
	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// ProjectContext is what the reconcilers and the facade know about one
// project. Roots are absolute.
type ProjectContext struct {
	// PlatformVersions pins platform adds, e.g. ios -> 6.2.0
	PlatformVersions map[string]string

	SourceRoot string
	BuildRoot  string
	AppName    string

	// KnownPlatforms is the universe of platforms this system manages
	KnownPlatforms values.PlatformSet

	// Verbose passes toolchain diagnostics through instead of silencing it
	Verbose bool

	// LinkLocalPlugins symlinks local path plugins instead of copying them
	LinkLocalPlugins bool
}

// toolchainOptions returns the default options for a toolchain call.
func (c ProjectContext) toolchainOptions() dto.ToolchainOptions {
	return dto.ToolchainOptions{
		Silent:  !c.Verbose,
		Verbose: c.Verbose,
	}
}

// platformTarget applies a configured version pin.
func (c ProjectContext) platformTarget(name string) string {
	if v := c.PlatformVersions[name]; v != "" {
		return name + "@" + v
	}
	return name
}
