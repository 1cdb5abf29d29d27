// Package system loads the tool configuration (~/.mobilesync.yaml and
// MOBILESYNC_* environment variables). This is separate from the project
// manifest, which describes one application.
package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/reglet-dev/mobilesync/internal/domain/values"
)

// EnvPrefix prefixes environment overrides, e.g. MOBILESYNC_TOOLCHAIN_BINARY.
const EnvPrefix = "MOBILESYNC"

// DefaultConfigName is the config file looked up in the home directory.
const DefaultConfigName = ".mobilesync.yaml"

// Config represents the tool configuration.
type Config struct {
	// PlatformVersions pins platform adds (platform -> version)
	PlatformVersions map[string]string `mapstructure:"platform_versions"`

	Toolchain ToolchainConfig `mapstructure:"toolchain"`

	// ExtraPaths are prepended to PATH for every toolchain call
	ExtraPaths []string `mapstructure:"extra_paths"`

	// KnownPlatforms is the platform universe; installed platforms outside
	// it are left alone
	KnownPlatforms []string `mapstructure:"known_platforms"`

	// LinkLocalPlugins symlinks local path plugins into the build project
	LinkLocalPlugins bool `mapstructure:"link_local_plugins"`
}

// ToolchainConfig selects and constrains the toolchain binary.
type ToolchainConfig struct {
	// Binary is a name looked up on PATH or a path
	Binary string `mapstructure:"binary"`

	// BinDir is prepended to PATH ahead of ExtraPaths, e.g. node_modules/.bin
	BinDir string `mapstructure:"bin_dir"`

	// MinVersion is a semver version or constraint
	MinVersion string `mapstructure:"min_version"`
}

// DefaultConfig returns a Config with defaults for all fields.
// This is used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		PlatformVersions: map[string]string{},
		Toolchain: ToolchainConfig{
			Binary: "cordova",
		},
		ExtraPaths:       []string{},
		KnownPlatforms:   append([]string(nil), values.DefaultKnownPlatforms...),
		LinkLocalPlugins: true,
	}
}

// KnownPlatformSet returns KnownPlatforms as a set.
func (c *Config) KnownPlatformSet() (values.PlatformSet, error) {
	set, err := values.NewPlatformSet(c.KnownPlatforms...)
	if err != nil {
		return values.PlatformSet{}, fmt.Errorf("known_platforms: %w", err)
	}
	return set, nil
}

// ConfigLoader loads the tool configuration through viper.
type ConfigLoader struct {
	v *viper.Viper
}

// NewConfigLoader creates a loader backed by v. A nil v gets a fresh
// instance so tests never share global viper state.
func NewConfigLoader(v *viper.Viper) *ConfigLoader {
	if v == nil {
		v = viper.New()
	}
	return &ConfigLoader{v: v}
}

// DefaultConfigPath returns ~/.mobilesync.yaml, or "" without a home directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultConfigName)
}

// Load loads the configuration from path, then applies environment
// overrides. A missing file yields the defaults, so the tool works
// without configuration.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	v := l.v
	def := DefaultConfig()
	v.SetDefault("toolchain.binary", def.Toolchain.Binary)
	v.SetDefault("toolchain.bin_dir", def.Toolchain.BinDir)
	v.SetDefault("toolchain.min_version", def.Toolchain.MinVersion)
	v.SetDefault("extra_paths", def.ExtraPaths)
	v.SetDefault("known_platforms", def.KnownPlatforms)
	v.SetDefault("platform_versions", def.PlatformVersions)
	v.SetDefault("link_local_plugins", def.LinkLocalPlugins)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.KnownPlatformSet(); err != nil {
		return nil, err
	}
	if cfg.PlatformVersions == nil {
		cfg.PlatformVersions = map[string]string{}
	}
	return &cfg, nil
}

// ConfigFileUsed reports the file Load read, if any.
func (l *ConfigLoader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
