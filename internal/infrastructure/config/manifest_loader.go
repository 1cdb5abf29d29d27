// Package config loads the project manifest: the desired platforms and
// plugins of one application, declared next to its sources.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "github.com/reglet-dev/mobilesync/internal/application/errors"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
)

// DefaultManifestFile is looked up in the working directory.
const DefaultManifestFile = "mobilesync.yaml"

//go:embed manifest_schema.json
var manifestSchema []byte

// Manifest is the on-disk form of a project.
type Manifest struct {
	Vars      map[string]any         `json:"vars"`
	Plugins   map[string]PluginEntry `json:"plugins"`
	Name      string                 `json:"name"`
	BuildDir  string                 `json:"build_dir"`
	Platforms []string               `json:"platforms"`
}

// PluginEntry is either a bare version string or a {version, config} object.
type PluginEntry struct {
	Config  map[string]any
	Version string
}

// UnmarshalJSON accepts both the short and the long plugin form.
func (e *PluginEntry) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSON(data)
	if err != nil {
		return err
	}
	if obj, ok := raw.(map[string]any); ok {
		version, err := versionString(obj["version"])
		if err != nil {
			return err
		}
		e.Version = version
		if cfg, ok := obj["config"].(map[string]any); ok {
			e.Config = cfg
		}
		return nil
	}
	version, err := versionString(raw)
	if err != nil {
		return err
	}
	e.Version = version
	return nil
}

// versionString accepts YAML scalars that users write unquoted, e.g. 2 or 1.5.
func versionString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", fmt.Errorf("plugin version must be a string, got %T", v)
	}
}

// ManifestLoader reads and validates project manifests.
type ManifestLoader struct {
	schema      *jsonschema.Schema
	substitutor *VariableSubstitutor
}

// NewManifestLoader creates a loader. Environment references in plugin
// config are resolved with os.LookupEnv.
func NewManifestLoader() (*ManifestLoader, error) {
	return NewManifestLoaderWithEnv(os.LookupEnv)
}

// NewManifestLoaderWithEnv creates a loader that resolves {{ env "NAME" }}
// with lookup.
func NewManifestLoaderWithEnv(lookup func(string) (string, bool)) (*ManifestLoader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("manifest.json", bytes.NewReader(manifestSchema)); err != nil {
		return nil, fmt.Errorf("failed to add manifest schema: %w", err)
	}
	schema, err := compiler.Compile("manifest.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}
	return &ManifestLoader{
		schema:      schema,
		substitutor: NewVariableSubstitutor(lookup),
	}, nil
}

// Load reads the manifest at path.
func (l *ManifestLoader) Load(path string) (*entities.Project, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return l.LoadFromReader(file)
}

// LoadFromReader parses, validates and converts a manifest. Defaults are
// applied to the returned project.
func (l *ManifestLoader) LoadFromReader(r io.Reader) (*entities.Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.NewValidationError("manifest", "file is empty")
	}

	// Validate the generic document first so schema errors point at the
	// offending YAML path instead of a Go type.
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest YAML: %w", err)
	}
	doc, err := decodeJSON(jsonData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manifest YAML: %w", err)
	}
	if err := l.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return nil, formatSchemaValidationError(validationErr)
		}
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	var m Manifest
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if err := l.substitutor.Substitute(&m); err != nil {
		return nil, apperrors.NewValidationError("plugins", err.Error())
	}

	project := m.Project()
	project.ApplyDefaults()
	if err := project.Validate(); err != nil {
		return nil, apperrors.NewValidationError("manifest", err.Error())
	}
	return project, nil
}

// Project converts the manifest into the domain aggregate. Plugins are
// ordered by name.
func (m *Manifest) Project() *entities.Project {
	names := make([]string, 0, len(m.Plugins))
	for name := range m.Plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	plugins := make([]entities.PluginDeclaration, 0, len(names))
	for _, name := range names {
		entry := m.Plugins[name]
		plugins = append(plugins, entities.PluginDeclaration{
			Name:    name,
			Version: entry.Version,
			Config:  entry.Config,
		})
	}

	return &entities.Project{
		Name:      m.Name,
		BuildDir:  m.BuildDir,
		Platforms: m.Platforms,
		Plugins:   plugins,
	}
}

func decodeJSON(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// formatSchemaValidationError flattens a JSON Schema validation error.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		// Leaf causes carry the useful messages
		if len(e.Causes) == 0 && e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(err)

	if len(messages) == 0 {
		return apperrors.NewValidationError("manifest", "does not match schema")
	}
	return apperrors.NewValidationError("manifest", "does not match schema", messages...)
}
