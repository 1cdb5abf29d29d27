package entities

import (
	"fmt"

	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// DefaultBuildDir is where the build project lives, relative to the source
// project root, when the manifest does not say otherwise.
const DefaultBuildDir = ".mobilesync/build"

// Project is the desired state of one application, as declared by the
// manifest in the source project. This is the aggregate root the
// reconcilers work from.
//
// Invariants Enforced:
// - Name is required
// - Platform names are non-empty
// - Plugin names are valid and unique
type Project struct {
	Name      string
	BuildDir  string
	Platforms []string
	Plugins   []PluginDeclaration
}

// ApplyDefaults fills optional fields.
func (p *Project) ApplyDefaults() {
	if p.BuildDir == "" {
		p.BuildDir = DefaultBuildDir
	}
}

// Validate checks aggregate invariants.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if _, err := p.PlatformSet(); err != nil {
		return fmt.Errorf("platforms: %w", err)
	}
	if _, err := p.PluginSet(); err != nil {
		return fmt.Errorf("plugins: %w", err)
	}
	return nil
}

// PlatformSet returns the desired platforms.
func (p *Project) PlatformSet() (values.PlatformSet, error) {
	return values.NewPlatformSet(p.Platforms...)
}

// PluginSet returns the desired plugins.
func (p *Project) PluginSet() (PluginSet, error) {
	return NewPluginSet(p.Plugins...)
}

// AppID is the toolchain project identifier derived from Name.
func (p *Project) AppID() string {
	return values.AppIDFromName(p.Name)
}
