// Package fetchmeta reads the toolchain's plugin fetch metadata from a build
// project. The file is owned by the toolchain and never written here.
package fetchmeta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/reglet-dev/mobilesync/internal/application/ports"
	"github.com/reglet-dev/mobilesync/internal/domain/entities"
)

// Path is the metadata file location relative to the build root.
var Path = filepath.Join("plugins", "fetch.json")

// Reader implements ports.PluginMetadataReader.
type Reader struct {
	logger *slog.Logger
}

// Compile-time interface check
var _ ports.PluginMetadataReader = (*Reader)(nil)

// NewReader creates a fetch metadata reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With("component", "fetchmeta")}
}

// Load parses the metadata file of buildRoot. A project that never fetched
// a plugin has no file, which reads as empty metadata.
func (r *Reader) Load(ctx context.Context, buildRoot string) (entities.FetchMetadata, error) {
	path := filepath.Join(buildRoot, Path)

	//nolint:gosec // G304: path is derived from the configured build root
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.DebugContext(ctx, "no fetch metadata", "path", path)
		return entities.FetchMetadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading plugin metadata: %w", err)
	}
	return Parse(data)
}

// InstalledPlugins returns the installed plugin map of buildRoot.
func (r *Reader) InstalledPlugins(ctx context.Context, buildRoot string) (entities.InstalledPlugins, error) {
	meta, err := r.Load(ctx, buildRoot)
	if err != nil {
		return entities.InstalledPlugins{}, err
	}
	installed, err := meta.InstalledPlugins()
	if err != nil {
		return entities.InstalledPlugins{}, fmt.Errorf("reading plugin metadata: %w", err)
	}
	r.logger.DebugContext(ctx, "loaded fetch metadata", "entries", len(meta), "installed", installed.Len())
	return installed, nil
}

// Parse decodes fetch metadata. Older toolchains leave trailing commas and
// comments behind, so the input is standardized before decoding.
func Parse(data []byte) (entities.FetchMetadata, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing plugin metadata: %w", err)
	}

	meta := entities.FetchMetadata{}
	if err := json.Unmarshal(std, &meta); err != nil {
		return nil, fmt.Errorf("decoding plugin metadata: %w", err)
	}
	return meta, nil
}
