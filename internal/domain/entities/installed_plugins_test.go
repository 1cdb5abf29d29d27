package entities_test

import (
	"testing"

	"github.com/reglet-dev/mobilesync/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginSource_NormalizedVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source entities.PluginSource
		want   string
	}{
		{
			name:   "registry with version",
			source: entities.PluginSource{Type: entities.SourceRegistry, ID: "cordova-plugin-camera@4.1.0"},
			want:   "4.1.0",
		},
		{
			name:   "registry without version",
			source: entities.PluginSource{Type: entities.SourceRegistry, ID: "cordova-plugin-camera"},
			want:   "",
		},
		{
			name:   "scoped registry id",
			source: entities.PluginSource{Type: entities.SourceRegistry, ID: "@scope/plugin@1.2.3"},
			want:   "1.2.3",
		},
		{
			name:   "scoped registry id without version",
			source: entities.PluginSource{Type: entities.SourceRegistry, ID: "@scope/plugin"},
			want:   "",
		},
		{
			name:   "git with ref",
			source: entities.PluginSource{Type: entities.SourceGit, URL: "https://github.com/org/repo.git", Ref: "abc"},
			want:   "https://github.com/org/repo.git#abc",
		},
		{
			name:   "git without ref",
			source: entities.PluginSource{Type: entities.SourceGit, URL: "https://github.com/org/repo.git"},
			want:   "https://github.com/org/repo.git",
		},
		{
			name:   "local",
			source: entities.PluginSource{Type: entities.SourceLocal, Path: "../../plugins/mine"},
			want:   "../../plugins/mine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.source.NormalizedVersion()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchMetadata_InstalledPlugins(t *testing.T) {
	t.Parallel()

	no := false
	yes := true
	meta := entities.FetchMetadata{
		"cordova-plugin-camera": {
			Source:     entities.PluginSource{Type: entities.SourceRegistry, ID: "cordova-plugin-camera@4.1.0"},
			IsTopLevel: &yes,
		},
		"cordova-plugin-file": {
			Source:     entities.PluginSource{Type: entities.SourceRegistry, ID: "cordova-plugin-file@6.0.0"},
			IsTopLevel: &no,
		},
		"mine": {
			Source: entities.PluginSource{Type: entities.SourceLocal, Path: "/src/plugins/mine"},
		},
	}

	installed, err := meta.InstalledPlugins()
	require.NoError(t, err)
	assert.Equal(t, []string{"cordova-plugin-camera", "mine"}, installed.Names())

	v, ok := installed.Version("cordova-plugin-camera")
	require.True(t, ok)
	assert.Equal(t, "4.1.0", v)

	v, ok = installed.Version("cordova-plugin-file")
	require.True(t, ok)
	assert.Equal(t, "6.0.0", v)
	assert.True(t, installed.Dependency("cordova-plugin-file"))
	assert.False(t, installed.Dependency("cordova-plugin-camera"))
	assert.Equal(t, 2, installed.Len())
}

func TestFetchMetadata_UnknownSource(t *testing.T) {
	t.Parallel()

	meta := entities.FetchMetadata{
		"odd": {Source: entities.PluginSource{Type: "svn"}},
	}

	_, err := meta.InstalledPlugins()
	var srcErr *entities.UnknownSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, "odd", srcErr.Plugin)
}

func TestFetchMetadata_UnknownDependencySource(t *testing.T) {
	t.Parallel()

	no := false
	meta := entities.FetchMetadata{
		"odd": {Source: entities.PluginSource{Type: "svn"}, IsTopLevel: &no},
	}

	_, err := meta.InstalledPlugins()
	var srcErr *entities.UnknownSourceError
	require.ErrorAs(t, err, &srcErr)
}

func TestNewInstalledPlugins_Copies(t *testing.T) {
	t.Parallel()

	src := map[string]string{"a": "1.0.0"}
	installed := entities.NewInstalledPlugins(src)
	src["a"] = "2.0.0"

	v, _ := installed.Version("a")
	assert.Equal(t, "1.0.0", v)

	m := installed.Map()
	m["b"] = "x"
	assert.False(t, installed.Has("b"))
}
