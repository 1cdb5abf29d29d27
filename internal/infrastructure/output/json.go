package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/mobilesync/internal/application/dto"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{writer: w, indent: indent}
}

// FormatPlan writes the sync plan as JSON.
func (f *JSONFormatter) FormatPlan(plan dto.SyncPlan) error {
	return f.encode(plan)
}

// FormatPlugins writes the plugin listing as JSON.
func (f *JSONFormatter) FormatPlugins(plugins []dto.InstalledPlugin) error {
	return f.encode(struct {
		Plugins []dto.InstalledPlugin `json:"plugins"`
	}{Plugins: plugins})
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
