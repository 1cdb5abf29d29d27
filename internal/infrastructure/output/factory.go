// Package output renders user-facing CLI output: console messages, plugin
// install progress and sync plan reports.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
)

// Report format names accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// SupportedFormats lists the report formats in help order.
func SupportedFormats() []string {
	return []string{FormatTable, FormatJSON, FormatYAML}
}

// ValidateFormat rejects format names no formatter exists for.
func ValidateFormat(format string) error {
	for _, f := range SupportedFormats() {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(SupportedFormats(), ", "))
}

// FormatterFactory creates report formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns the formatter for format writing to w.
func (f *FormatterFactory) Create(format string, w io.Writer, options ports.FormatterOptions) (ports.OutputFormatter, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return NewJSONFormatter(w, options.Indent), nil
	case FormatYAML:
		return NewYAMLFormatter(w), nil
	default:
		table := NewTableFormatter(w)
		table.EnableColor = !options.NoColor
		return table, nil
	}
}
