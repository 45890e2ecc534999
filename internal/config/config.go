// Package config loads packaging configuration for the lean-explore
// manifest tooling. Values resolve in precedence order: CLI flags (handled by
// the caller), environment variables (LEANEXPLORE_*), the optional
// .leanexplore.yaml file, then built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// ConfigFileName is the optional per-project configuration file.
const ConfigFileName = ".leanexplore.yaml"

// Default split sizing: 1.8 GiB, a safe margin below the common 2 GiB
// hosting limit for release assets.
const (
	DefaultSplitThresholdBytes = 1800 * 1024 * 1024
	DefaultSplitChunkSizeBytes = 1800 * 1024 * 1024
)

// Default version identifiers for manifest generation.
const (
	DefaultLatestManifestVersion = "0.3.0"
	DefaultToolchainVersion      = "0.2.0"
)

// Config represents the complete packaging configuration.
type Config struct {
	Version   int             `yaml:"version" json:"version"`
	Manifest  ManifestConfig  `yaml:"manifest" json:"manifest"`
	Packaging PackagingConfig `yaml:"packaging" json:"packaging"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// ManifestConfig holds toolchain-level manifest metadata defaults.
type ManifestConfig struct {
	// LatestManifestVersion is the manifest schema/release version string.
	LatestManifestVersion string `yaml:"latest_manifest_version" json:"latest_manifest_version"`

	// DefaultToolchain is the toolchain version keyed into the manifest.
	DefaultToolchain string `yaml:"default_toolchain" json:"default_toolchain"`

	// Description for the toolchain entry. Empty means "v<toolchain>".
	Description string `yaml:"description" json:"description"`

	// ReleaseDate in YYYY-MM-DD format. Empty means today.
	ReleaseDate string `yaml:"release_date" json:"release_date"`

	// AssetsBasePathR2 is the base path for uploaded assets (e.g., "assets/0.3.0/").
	AssetsBasePathR2 string `yaml:"assets_base_path_r2" json:"assets_base_path_r2"`
}

// PackagingConfig tunes the compression/split pipeline.
type PackagingConfig struct {
	// SplitThresholdBytes is the compressed size above which artifacts are split.
	SplitThresholdBytes int64 `yaml:"split_threshold_bytes" json:"split_threshold_bytes"`

	// SplitChunkSizeBytes is the maximum size of each split part.
	SplitChunkSizeBytes int64 `yaml:"split_chunk_size_bytes" json:"split_chunk_size_bytes"`

	// Jobs bounds how many files are processed concurrently. 1 keeps the
	// pipeline strictly sequential.
	Jobs int `yaml:"jobs" json:"jobs"`

	// KeepTemp retains the temporary compressed artifacts after a run.
	KeepTemp bool `yaml:"keep_temp" json:"keep_temp"`
}

// LoggingConfig configures pipeline logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Manifest: ManifestConfig{
			LatestManifestVersion: DefaultLatestManifestVersion,
			DefaultToolchain:      DefaultToolchainVersion,
		},
		Packaging: PackagingConfig{
			SplitThresholdBytes: DefaultSplitThresholdBytes,
			SplitChunkSizeBytes: DefaultSplitChunkSizeBytes,
			Jobs:                1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from dir/.leanexplore.yaml, applies environment
// overrides, and validates the result. A missing config file is not an error;
// defaults are used.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, pkgerrors.ConfigError(fmt.Sprintf("failed to parse %s", path), err)
		}
	} else if !os.IsNotExist(err) {
		return nil, pkgerrors.ConfigError(fmt.Sprintf("failed to read %s", path), err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies LEANEXPLORE_* environment variables.
// Env vars win over the config file but lose to explicit CLI flags.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LEANEXPLORE_MANIFEST_VERSION"); v != "" {
		c.Manifest.LatestManifestVersion = v
	}
	if v := os.Getenv("LEANEXPLORE_DEFAULT_TOOLCHAIN"); v != "" {
		c.Manifest.DefaultToolchain = v
	}
	if v := os.Getenv("LEANEXPLORE_ASSETS_BASE_PATH"); v != "" {
		c.Manifest.AssetsBasePathR2 = v
	}
	if v := os.Getenv("LEANEXPLORE_SPLIT_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Packaging.SplitThresholdBytes = n
		}
	}
	if v := os.Getenv("LEANEXPLORE_SPLIT_CHUNK_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.Packaging.SplitChunkSizeBytes = n
		}
	}
	if v := os.Getenv("LEANEXPLORE_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Packaging.Jobs = n
		}
	}
	if v := os.Getenv("LEANEXPLORE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks configuration invariants before any I/O begins.
func (c *Config) Validate() error {
	if c.Manifest.LatestManifestVersion == "" {
		return pkgerrors.ConfigError("manifest.latest_manifest_version must be a non-empty string", nil)
	}
	if c.Manifest.DefaultToolchain == "" {
		return pkgerrors.ConfigError("manifest.default_toolchain must be a non-empty string", nil)
	}
	if c.Manifest.ReleaseDate != "" {
		if _, err := time.Parse("2006-01-02", c.Manifest.ReleaseDate); err != nil {
			return pkgerrors.ConfigError(
				fmt.Sprintf("manifest.release_date must be YYYY-MM-DD, got %q", c.Manifest.ReleaseDate), err)
		}
	}
	if c.Packaging.SplitThresholdBytes <= 0 {
		return pkgerrors.ConfigError(
			fmt.Sprintf("packaging.split_threshold_bytes must be positive, got %d", c.Packaging.SplitThresholdBytes), nil)
	}
	if c.Packaging.SplitChunkSizeBytes <= 0 {
		return pkgerrors.ConfigError(
			fmt.Sprintf("packaging.split_chunk_size_bytes must be positive, got %d", c.Packaging.SplitChunkSizeBytes), nil)
	}
	if c.Packaging.Jobs < 1 {
		return pkgerrors.ConfigError(
			fmt.Sprintf("packaging.jobs must be at least 1, got %d", c.Packaging.Jobs), nil)
	}
	return nil
}
