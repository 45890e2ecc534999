package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KellyJDavis/lean-explore/pkg/version"
)

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	// Given: the root command
	rootCmd := NewRootCmd()

	// When: collecting subcommand names
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	// Then: the manifest and version commands are registered
	assert.True(t, names["manifest"], "manifest command should be registered")
	assert.True(t, names["version"], "version command should be registered")
}

func TestRootCmd_VersionFlag(t *testing.T) {
	// Given: the root command with --version
	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--version"})

	// When: executing
	err := rootCmd.Execute()

	// Then: it should print the version template
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "leanexplore version "+version.Version)
}

func TestRootCmd_ManifestHasGenerateAndVerify(t *testing.T) {
	// Given: the root command
	rootCmd := NewRootCmd()

	// When: resolving the manifest subcommands
	genCmd, _, err := rootCmd.Find([]string{"manifest", "generate"})
	require.NoError(t, err)
	verifyCmd, _, err := rootCmd.Find([]string{"manifest", "verify"})
	require.NoError(t, err)

	// Then: both resolve to their own commands
	assert.Equal(t, "generate", genCmd.Name())
	assert.Equal(t, "verify", verifyCmd.Name())
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"nonsense"})

	assert.Error(t, rootCmd.Execute())
}
