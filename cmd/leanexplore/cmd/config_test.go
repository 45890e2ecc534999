package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/KellyJDavis/lean-explore/internal/config"
)

func TestConfigInit_CreatesValidConfigFile(t *testing.T) {
	// Given: a directory without a config file
	dir := t.TempDir()

	// When: running config init
	output, err := runCommand(t, "config", "init", "--data-dir", dir)

	// Then: the template is written and loads cleanly
	require.NoError(t, err)
	assert.Contains(t, output, config.ConfigFileName)

	data, err := os.ReadFile(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultLatestManifestVersion, loaded.Manifest.LatestManifestVersion)
}

func TestConfigInit_RefusesToOverwrite(t *testing.T) {
	// Given: an existing config file
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	// When: running config init without --force
	_, err := runCommand(t, "config", "init", "--data-dir", dir)

	// Then: it refuses
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	_, err := runCommand(t, "config", "init", "--data-dir", dir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "split_threshold_bytes")
}

func TestConfigShow_RendersEffectiveConfig(t *testing.T) {
	// Given: a config file overriding the toolchain version
	dir := t.TempDir()
	configYAML := []byte("manifest:\n  default_toolchain: \"7.7.7\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), configYAML, 0o644))

	// When: running config show
	output, err := runCommand(t, "config", "show", "--data-dir", dir)

	// Then: merged config reflects both defaults and the override
	require.NoError(t, err)
	assert.Contains(t, output, "7.7.7")
	assert.Contains(t, output, config.DefaultLatestManifestVersion)
}

func TestConfigShow_JSONOutput(t *testing.T) {
	dir := t.TempDir()

	output, err := runCommand(t, "config", "show", "--data-dir", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"latest_manifest_version"`)
	assert.Contains(t, output, `"split_threshold_bytes"`)
}
