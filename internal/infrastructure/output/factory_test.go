package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

func TestFormatterFactory_Create(t *testing.T) {
	factory := NewFormatterFactory()
	buf := &bytes.Buffer{}

	tests := []struct {
		name        string
		format      string
		options     ports.FormatterOptions
		wantErr     bool
		wantType    interface{}
		errContains string
	}{
		{
			name:     "table format",
			format:   "table",
			wantType: &TableFormatter{},
		},
		{
			name:     "json format",
			format:   "json",
			options:  ports.FormatterOptions{Indent: true},
			wantType: &JSONFormatter{},
		},
		{
			name:     "yaml format",
			format:   "yaml",
			wantType: &YAMLFormatter{},
		},
		{
			name:        "unknown format",
			format:      "sarif",
			wantErr:     true,
			errContains: "unknown format: sarif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, err := factory.Create(tt.format, buf, tt.options)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.Nil(t, formatter)
				return
			}

			require.NoError(t, err)
			assert.IsType(t, tt.wantType, formatter)
		})
	}
}

func TestValidateFormat(t *testing.T) {
	assert.Equal(t, []string{"table", "json", "yaml"}, SupportedFormats())
	for _, f := range SupportedFormats() {
		assert.NoError(t, ValidateFormat(f))
	}
	err := ValidateFormat("xml")
	require.Error(t, err)
	assert.Equal(t, "unknown format: xml (supported: table, json, yaml)", err.Error())
}

func samplePlan() dto.SyncPlan {
	return dto.SyncPlan{
		Platforms: dto.PlatformPlan{Add: []string{"ios"}, Remove: []string{}},
		Plugins: dto.PluginPlan{
			ReinstallAll: true,
			Remove:       []string{"cordova-plugin-camera"},
			Install: []dto.PluginInstall{
				{Name: "cordova-plugin-camera", Target: "cordova-plugin-camera@7.0.0"},
				{Name: "cordova-plugin-device", Target: "cordova-plugin-device"},
			},
			Renamed: []dto.PluginRename{{From: "org.apache.cordova.device", To: "cordova-plugin-device"}},
		},
	}
}

func TestJSONFormatter_FormatPlan(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewJSONFormatter(buf, true).FormatPlan(samplePlan()))

	var decoded dto.SyncPlan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, samplePlan(), decoded)
	assert.Contains(t, buf.String(), `"reinstall_all": true`)
}

func TestYAMLFormatter_FormatPlan(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewYAMLFormatter(buf).FormatPlan(samplePlan()))

	var decoded dto.SyncPlan
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"ios"}, decoded.Platforms.Add)
	assert.Empty(t, decoded.Platforms.Remove)
	assert.True(t, decoded.Plugins.ReinstallAll)
	assert.Equal(t, samplePlan().Plugins.Install, decoded.Plugins.Install)
	assert.Equal(t, samplePlan().Plugins.Renamed, decoded.Plugins.Renamed)
}

func TestJSONFormatter_FormatPlugins(t *testing.T) {
	buf := &bytes.Buffer{}
	rows := []dto.InstalledPlugin{{Name: "a", Version: "1.0.0", Desired: "1.0.0"}, {Name: "b", Desired: "*"}}
	require.NoError(t, NewJSONFormatter(buf, false).FormatPlugins(rows))
	assert.JSONEq(t, `{"plugins":[{"name":"a","version":"1.0.0","desired":"1.0.0"},{"name":"b","version":"","desired":"*"}]}`, buf.String())
}

func TestTableFormatter_FormatPlan(t *testing.T) {
	buf := &bytes.Buffer{}
	table := NewTableFormatter(buf)
	table.EnableColor = false

	require.NoError(t, table.FormatPlan(samplePlan()))
	out := buf.String()
	assert.Contains(t, out, "Platforms:\n  + ios\n")
	assert.Contains(t, out, "~ org.apache.cordova.device is now cordova-plugin-device")
	assert.Contains(t, out, "all non-local plugins will be reinstalled")
	assert.Contains(t, out, "+ cordova-plugin-camera (cordova-plugin-camera@7.0.0)\n")
	assert.Contains(t, out, "+ cordova-plugin-device\n")
	assert.Contains(t, out, "- cordova-plugin-camera\n")
	assert.NotContains(t, out, "\033[")
}

func TestTableFormatter_InSync(t *testing.T) {
	buf := &bytes.Buffer{}
	table := NewTableFormatter(buf)
	table.EnableColor = false

	require.NoError(t, table.FormatPlan(dto.SyncPlan{}))
	assert.Equal(t, "Build project is in sync.\n", buf.String())
}

func TestTableFormatter_FormatPlugins(t *testing.T) {
	buf := &bytes.Buffer{}
	table := NewTableFormatter(buf)
	table.EnableColor = false

	require.NoError(t, table.FormatPlugins([]dto.InstalledPlugin{
		{Name: "cordova-plugin-device", Version: "2.1.0", Desired: "2.1.0"},
		{Name: "orphan", Version: "1.0.0"},
	}))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME                   INSTALLED  DESIRED", string(lines[0]))
	assert.Equal(t, "orphan                 1.0.0      -", string(lines[2]))

	buf.Reset()
	require.NoError(t, table.FormatPlugins(nil))
	assert.Equal(t, "No plugins installed.\n", buf.String())
}
