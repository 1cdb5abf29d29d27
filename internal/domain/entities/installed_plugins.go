package entities

import (
	"fmt"
	"sort"
	"strings"
)

// SourceType is the installation source recorded by the toolchain.
type SourceType string

const (
	SourceRegistry SourceType = "registry"
	SourceGit      SourceType = "git"
	SourceLocal    SourceType = "local"
)

// PluginSource is the source descriptor of one fetch metadata entry.
// Which fields are set depends on Type.
type PluginSource struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id,omitempty"`   // registry: name@version
	URL  string     `json:"url,omitempty"`  // git
	Ref  string     `json:"ref,omitempty"`  // git, optional
	Path string     `json:"path,omitempty"` // local
}

// FetchEntry is one record of the toolchain's plugin fetch metadata.
type FetchEntry struct {
	Variables  map[string]string `json:"variables,omitempty"`
	IsTopLevel *bool             `json:"is_top_level,omitempty"`
	Source     PluginSource      `json:"source"`
}

// Dependency reports whether the toolchain pulled the plugin in as a
// dependency of another plugin rather than by explicit request.
func (e FetchEntry) Dependency() bool {
	return e.IsTopLevel != nil && !*e.IsTopLevel
}

// UnknownSourceError indicates a fetch entry with an unrecognised source type.
type UnknownSourceError struct {
	Plugin string
	Type   SourceType
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("plugin %q: unknown fetch source type %q", e.Plugin, e.Type)
}

// NormalizedVersion returns the comparison form of the installed version:
// the part after the last '@' of a registry id (empty when unversioned),
// url#ref for git, and the path for local sources.
func (s PluginSource) NormalizedVersion() (string, bool) {
	switch s.Type {
	case SourceRegistry:
		// Index must be positive so scoped ids like @scope/name stay unversioned.
		if i := strings.LastIndex(s.ID, "@"); i > 0 {
			return s.ID[i+1:], true
		}
		return "", true
	case SourceGit:
		if s.Ref == "" {
			return s.URL, true
		}
		return s.URL + "#" + s.Ref, true
	case SourceLocal:
		return s.Path, true
	default:
		return "", false
	}
}

// FetchMetadata is the toolchain-owned record of fetched plugins, keyed by
// plugin name. Read-only from this system's point of view.
type FetchMetadata map[string]FetchEntry

// InstalledPlugins derives the installed plugin map. Dependency entries are
// recorded apart from explicitly installed plugins: they count as installed
// when declared, but an undeclared dependency is owned by the plugin that
// requested it and never makes the project look out of sync.
func (m FetchMetadata) InstalledPlugins() (InstalledPlugins, error) {
	versions := make(map[string]string, len(m))
	deps := map[string]string{}
	for name, entry := range m {
		version, ok := entry.Source.NormalizedVersion()
		if !ok {
			return InstalledPlugins{}, &UnknownSourceError{Plugin: name, Type: entry.Source.Type}
		}
		if entry.Dependency() {
			deps[name] = version
			continue
		}
		versions[name] = version
	}
	return InstalledPlugins{versions: versions, dependencies: deps}, nil
}

// InstalledPlugins maps plugin name to normalized installed version.
// It is a snapshot rebuilt from disk on every read and never mutated.
type InstalledPlugins struct {
	versions     map[string]string
	dependencies map[string]string
}

// NewInstalledPlugins copies versions into a snapshot.
func NewInstalledPlugins(versions map[string]string) InstalledPlugins {
	return NewInstalledPluginsWithDependencies(versions, nil)
}

// NewInstalledPluginsWithDependencies copies explicitly installed plugins
// and dependency-only plugins into a snapshot.
func NewInstalledPluginsWithDependencies(versions, dependencies map[string]string) InstalledPlugins {
	return InstalledPlugins{versions: copyVersions(versions), dependencies: copyVersions(dependencies)}
}

func copyVersions(src map[string]string) map[string]string {
	cp := make(map[string]string, len(src))
	for name, v := range src {
		cp[name] = v
	}
	return cp
}

// Version returns the normalized version of name, whether it was installed
// explicitly or as a dependency.
func (p InstalledPlugins) Version(name string) (string, bool) {
	if v, ok := p.versions[name]; ok {
		return v, true
	}
	v, ok := p.dependencies[name]
	return v, ok
}

// Has reports whether name is installed, explicitly or as a dependency.
func (p InstalledPlugins) Has(name string) bool {
	_, ok := p.Version(name)
	return ok
}

// Dependency reports whether name is installed only as a dependency.
func (p InstalledPlugins) Dependency(name string) bool {
	if _, ok := p.versions[name]; ok {
		return false
	}
	_, ok := p.dependencies[name]
	return ok
}

// Len returns the number of explicitly installed plugins.
func (p InstalledPlugins) Len() int {
	return len(p.versions)
}

// Names returns explicitly installed names in lexical order.
func (p InstalledPlugins) Names() []string {
	names := make([]string, 0, len(p.versions))
	for name := range p.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the explicitly installed name to version mapping.
func (p InstalledPlugins) Map() map[string]string {
	return copyVersions(p.versions)
}
