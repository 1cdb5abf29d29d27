package config

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzManifestLoading fuzzes manifest parsing for malformed input
// TARGETS: LoadFromReader() via YAMLToJSON and schema validation
func FuzzManifestLoading(f *testing.F) {
	loader, err := NewManifestLoaderWithEnv(nil)
	if err != nil {
		f.Fatal(err)
	}

	// Seed corpus with known edge cases
	seeds := []string{
		// Valid manifest
		`name: demo
platforms: [ios, android]
plugins:
  cordova-plugin-device: 2.1.0
  my-plugin:
    version: file://plugins/my-plugin
    config:
      API_KEY: abc`,

		// Deeply nested
		strings.Repeat("nested:\n  ", 1000) + "value: 1",

		// Large document
		"name: big\nplugins:\n" + strings.Repeat("  p: 1\n", 10000),

		// Invalid UTF-8
		"name: \xff\xfe",

		// Circular reference
		`vars: &anchor
  name: test
  ref: *anchor
name: *anchor`,

		// Null bytes
		"name: test\x00null",

		// Empty
		"",

		// Only whitespace
		"   \n\t  \n",

		// Malformed YAML
		"name: test\n    invalid_indent",

		// Very long keys
		strings.Repeat("x", 100000) + ": value",

		// Very long values
		"key: " + strings.Repeat("x", 100000),

		// Unicode edge cases
		"name: \U0001F600\u200B\uFEFF",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, yamlData []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("PANIC on input (len=%d): %v", len(yamlData), r)
			}
		}()

		// Should handle all inputs gracefully (error or success, no panic)
		_, _ = loader.LoadFromReader(bytes.NewReader(yamlData))
	})
}
