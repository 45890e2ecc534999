package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DefaultLatestManifestVersion, cfg.Manifest.LatestManifestVersion)
	assert.Equal(t, DefaultToolchainVersion, cfg.Manifest.DefaultToolchain)
	assert.Equal(t, int64(1800*1024*1024), cfg.Packaging.SplitThresholdBytes)
	assert.Equal(t, int64(1800*1024*1024), cfg.Packaging.SplitChunkSizeBytes)
	assert.Equal(t, 1, cfg.Packaging.Jobs)
	assert.False(t, cfg.Packaging.KeepTemp)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := `
version: 1
manifest:
  latest_manifest_version: "0.4.0"
  default_toolchain: "0.4.0"
  assets_base_path_r2: "assets/0.4.0/"
packaging:
  split_threshold_bytes: 1048576
  split_chunk_size_bytes: 524288
  jobs: 3
  keep_temp: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "0.4.0", cfg.Manifest.LatestManifestVersion)
	assert.Equal(t, "assets/0.4.0/", cfg.Manifest.AssetsBasePathR2)
	assert.Equal(t, int64(1048576), cfg.Packaging.SplitThresholdBytes)
	assert.Equal(t, int64(524288), cfg.Packaging.SplitChunkSizeBytes)
	assert.Equal(t, 3, cfg.Packaging.Jobs)
	assert.True(t, cfg.Packaging.KeepTemp)
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not yaml"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := `
packaging:
  split_threshold_bytes: 1048576
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))

	t.Setenv("LEANEXPLORE_SPLIT_THRESHOLD", "2097152")
	t.Setenv("LEANEXPLORE_DEFAULT_TOOLCHAIN", "9.9.9")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(2097152), cfg.Packaging.SplitThresholdBytes)
	assert.Equal(t, "9.9.9", cfg.Manifest.DefaultToolchain)
}

func TestLoad_IgnoresMalformedEnvValues(t *testing.T) {
	t.Setenv("LEANEXPLORE_SPLIT_THRESHOLD", "not-a-number")
	t.Setenv("LEANEXPLORE_JOBS", "-2")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, int64(DefaultSplitThresholdBytes), cfg.Packaging.SplitThresholdBytes)
	assert.Equal(t, 1, cfg.Packaging.Jobs)
}

func TestValidate_ReturnsConfigErrorCode(t *testing.T) {
	cfg := NewConfig()
	cfg.Manifest.ReleaseDate = "bogus"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrCodeConfigInvalid, pkgerrors.GetCode(err))
	assert.Equal(t, pkgerrors.CategoryConfig, pkgerrors.GetCategory(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty manifest version",
			mutate:  func(c *Config) { c.Manifest.LatestManifestVersion = "" },
			wantErr: "latest_manifest_version",
		},
		{
			name:    "empty toolchain",
			mutate:  func(c *Config) { c.Manifest.DefaultToolchain = "" },
			wantErr: "default_toolchain",
		},
		{
			name:    "bad release date",
			mutate:  func(c *Config) { c.Manifest.ReleaseDate = "July 4th" },
			wantErr: "release_date",
		},
		{
			name:   "good release date",
			mutate: func(c *Config) { c.Manifest.ReleaseDate = "2026-08-29" },
		},
		{
			name:    "zero threshold",
			mutate:  func(c *Config) { c.Packaging.SplitThresholdBytes = 0 },
			wantErr: "split_threshold_bytes",
		},
		{
			name:    "negative chunk size",
			mutate:  func(c *Config) { c.Packaging.SplitChunkSizeBytes = -1 },
			wantErr: "split_chunk_size_bytes",
		},
		{
			name:    "zero jobs",
			mutate:  func(c *Config) { c.Packaging.Jobs = 0 },
			wantErr: "jobs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
