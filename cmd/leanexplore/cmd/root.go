// Package cmd provides the CLI commands for the lean-explore packaging tools.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
	"github.com/KellyJDavis/lean-explore/internal/logging"
	"github.com/KellyJDavis/lean-explore/pkg/version"
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the leanexplore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leanexplore",
		Short: "Packaging tools for lean-explore data releases",
		Long: `leanexplore packages the lean-explore data files (search database,
vector index, and id map) for release: it compresses each file, splits
oversized artifacts into bounded parts, and writes the release manifest
that downstream clients use to download and verify the data.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("leanexplore version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.leanexplore/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables debug file logging if the flag is set.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	cleanup, err := logging.SetupDefault()
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()))

	return nil
}

// stopLogging closes the debug log file if it was opened.
func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command with signal-aware cancellation so an
// interrupted run still cleans up its temporary directory.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		slog.Error("command_failed",
			slog.String("error_code", pkgerrors.GetCode(err)),
			slog.String("category", string(pkgerrors.GetCategory(err))))
		fmt.Fprint(os.Stderr, pkgerrors.FormatForCLI(err))
	}
	return err
}
