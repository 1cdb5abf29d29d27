package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

// YAMLFormatter formats reports as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// FormatPlan writes the sync plan as YAML.
func (f *YAMLFormatter) FormatPlan(plan dto.SyncPlan) error {
	return f.encode(plan)
}

// FormatPlugins writes the plugin listing as YAML.
func (f *YAMLFormatter) FormatPlugins(plugins []dto.InstalledPlugin) error {
	return f.encode(map[string]any{"plugins": plugins})
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
