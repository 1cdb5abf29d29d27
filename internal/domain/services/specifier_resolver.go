package services

import (
	"fmt"
	"path/filepath"

	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// SpecifierResolver turns raw plugin version strings into toolchain install
// targets and into the form used to compare against installed versions.
//
// Local paths in the manifest are written relative to the source project,
// while the toolchain runs in the build project, so relative paths are
// re-rooted between the two. Both roots must be absolute.
type SpecifierResolver struct {
	SourceRoot string
	BuildRoot  string
}

// NewSpecifierResolver creates a resolver for the given roots.
func NewSpecifierResolver(sourceRoot, buildRoot string) *SpecifierResolver {
	return &SpecifierResolver{SourceRoot: sourceRoot, BuildRoot: buildRoot}
}

// Resolve returns the install target for plugin name at raw version.
func (r *SpecifierResolver) Resolve(name, raw string) (string, error) {
	spec, err := values.ParseVersionSpecifier(raw)
	if err != nil {
		return "", err
	}

	switch s := spec.(type) {
	case values.Bare:
		return name, nil
	case values.Registry:
		return name + "@" + s.Version, nil
	case values.GitSHA:
		return s.GitRemote(), nil
	case values.GitURL:
		return s.URL, nil
	case values.LocalPath:
		return r.rerootPath(s.Path)
	default:
		return "", fmt.Errorf("unhandled version specifier %T", spec)
	}
}

// Normalize returns the comparison form of raw. Installed versions read
// back from the toolchain are expressed in this form.
func (r *SpecifierResolver) Normalize(raw string) (string, error) {
	spec, err := values.ParseVersionSpecifier(raw)
	if err != nil {
		return "", err
	}

	switch s := spec.(type) {
	case values.Bare:
		return "", nil
	case values.Registry:
		return s.Version, nil
	case values.GitSHA:
		return s.GitRemote(), nil
	case values.GitURL:
		return s.URL, nil
	case values.LocalPath:
		return r.rerootPath(s.Path)
	default:
		return "", fmt.Errorf("unhandled version specifier %T", spec)
	}
}

// rerootPath rewrites a path relative to the source root into the path
// relative to the build root that points at the same location.
func (r *SpecifierResolver) rerootPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	rel, err := filepath.Rel(r.BuildRoot, filepath.Join(r.SourceRoot, p))
	if err != nil {
		return "", fmt.Errorf("resolving local plugin path %s: %w", p, err)
	}
	return rel, nil
}
