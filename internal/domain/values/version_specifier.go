package values

import (
	"fmt"
	"regexp"
	"strings"
)

// SpecifierKind names the variant of a VersionSpecifier.
type SpecifierKind string

const (
	// KindBare has no version constraint
	KindBare SpecifierKind = "bare"
	// KindRegistry is a registry version such as 1.2.3
	KindRegistry SpecifierKind = "registry"
	// KindGitSHA is a legacy GitHub tarball URL pinned to a commit
	KindGitSHA SpecifierKind = "git-sha"
	// KindGitURL is a URL already in git remote form
	KindGitURL SpecifierKind = "git"
	// KindLocalPath is a file:// path on the local filesystem
	KindLocalPath SpecifierKind = "local"
)

// FileScheme prefixes local plugin paths.
const FileScheme = "file://"

// tarballPattern matches GitHub tarball URLs such as
// https://github.com/org/repo/tarball/<40 hex sha>.
var tarballPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+)/tarball/([0-9a-f]{40})/?$`)

// gitRemotePattern matches a .git suffix ending a path segment, so hosts
// like org.github.io are not taken for git remotes.
var gitRemotePattern = regexp.MustCompile(`\.git(#|/|$)`)

// urlPattern matches anything carrying a scheme or an scp-like git remote.
var urlPattern = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*://|git@)`)

// VersionSpecifier is one of Bare, Registry, GitSHA, GitURL or LocalPath.
// The set is closed: only this package can add variants.
type VersionSpecifier interface {
	Kind() SpecifierKind
	String() string
	isVersionSpecifier()
}

// Bare is an absent version.
type Bare struct{}

// Registry is a version resolved by the toolchain's package registry.
type Registry struct {
	Version string
}

// GitSHA is a GitHub tarball URL carrying a commit SHA.
type GitSHA struct {
	Org  string
	Repo string
	SHA  string
}

// GitURL is a URL in explicit git form, usually <url>.git#<ref>.
type GitURL struct {
	URL string
}

// LocalPath is a filesystem path with the file:// scheme stripped.
// It may still be relative to the source project root.
type LocalPath struct {
	Path string
}

func (Bare) Kind() SpecifierKind      { return KindBare }
func (Registry) Kind() SpecifierKind  { return KindRegistry }
func (GitSHA) Kind() SpecifierKind    { return KindGitSHA }
func (GitURL) Kind() SpecifierKind    { return KindGitURL }
func (LocalPath) Kind() SpecifierKind { return KindLocalPath }

func (Bare) String() string        { return "" }
func (r Registry) String() string  { return r.Version }
func (g GitSHA) String() string    { return g.GitRemote() }
func (g GitURL) String() string    { return g.URL }
func (l LocalPath) String() string { return FileScheme + l.Path }

func (Bare) isVersionSpecifier()      {}
func (Registry) isVersionSpecifier()  {}
func (GitSHA) isVersionSpecifier()    {}
func (GitURL) isVersionSpecifier()    {}
func (LocalPath) isVersionSpecifier() {}

// GitRemote returns the explicit git form <https remote>.git#<sha>.
func (g GitSHA) GitRemote() string {
	return fmt.Sprintf("https://github.com/%s/%s.git#%s", g.Org, g.Repo, g.SHA)
}

// UnsupportedSpecifierError reports a URL we will not guess an install
// source for.
type UnsupportedSpecifierError struct {
	Raw string
}

func (e *UnsupportedSpecifierError) Error() string {
	return fmt.Sprintf("installing plugins from arbitrary tarball URLs is not supported; "+
		"use a git URL with a SHA reference or a local path (attempted to install from %s)", e.Raw)
}

// ParseVersionSpecifier classifies a raw plugin version string.
func ParseVersionSpecifier(raw string) (VersionSpecifier, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case raw == "":
		return Bare{}, nil
	case tarballPattern.MatchString(raw):
		m := tarballPattern.FindStringSubmatch(raw)
		return GitSHA{Org: m[1], Repo: m[2], SHA: m[3]}, nil
	case strings.HasPrefix(raw, FileScheme):
		path := strings.TrimPrefix(raw, FileScheme)
		if path == "" {
			return nil, fmt.Errorf("local plugin path is empty: %q", raw)
		}
		return LocalPath{Path: path}, nil
	case gitRemotePattern.MatchString(raw):
		return GitURL{URL: raw}, nil
	case urlPattern.MatchString(raw):
		return nil, &UnsupportedSpecifierError{Raw: raw}
	default:
		return Registry{Version: raw}, nil
	}
}

// IsLocalPath reports whether raw uses the file:// scheme.
func IsLocalPath(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), FileScheme)
}
