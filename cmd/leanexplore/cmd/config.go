package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KellyJDavis/lean-explore/configs"
	"github.com/KellyJDavis/lean-explore/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage packaging configuration",
		Long: `Manage the project configuration file.

The project configuration lives at .leanexplore.yaml in the data directory
and holds manifest defaults (versions, release metadata) and packaging
settings (split sizes, jobs).

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. Project config (.leanexplore.yaml)
  3. Environment variables (LEANEXPLORE_*)
  4. CLI flags`,
		Example: `  # Create project config from template
  leanexplore config init

  # Show effective configuration (merged from all sources)
  leanexplore config show`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	var dataDir string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create project configuration file",
		Long: `Create the project configuration file from a template.

The file is created at .leanexplore.yaml in the data directory with all
settings documented and set to their defaults.`,
		Example: `  # Create project config in the current directory
  leanexplore config init

  # Overwrite existing config
  leanexplore config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, dataDir, force)
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", ".", "Directory to create the config file in")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, dataDir string, force bool) error {
	path := filepath.Join(dataDir, config.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool
	var dataDir string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show the effective configuration after merging defaults, the project
config file, and environment variables.`,
		Example: `  # Show merged configuration
  leanexplore config show

  # Show as JSON
  leanexplore config show --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, dataDir, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", ".", "Directory containing the config file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runConfigShow(cmd *cobra.Command, dataDir string, jsonOutput bool) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
