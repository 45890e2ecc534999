package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/KellyJDavis/lean-explore/internal/config"
	"github.com/KellyJDavis/lean-explore/internal/manifest"
	"github.com/KellyJDavis/lean-explore/internal/packager"
	"github.com/KellyJDavis/lean-explore/internal/ui"
)

// newManifestCmd creates the manifest command group.
func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate and verify release manifests",
	}

	cmd.AddCommand(newManifestGenerateCmd())
	cmd.AddCommand(newManifestVerifyCmd())

	return cmd
}

// generateFlags holds the manifest generate flag values. Flags that the user
// set explicitly override config file and environment values.
type generateFlags struct {
	dataDir          string
	output           string
	manifestVersion  string
	defaultToolchain string
	description      string
	releaseDate      string
	assetsBasePathR2 string
	keepTemp         bool
	splitThreshold   int64
	splitChunkSize   int64
	jobs             int
	quiet            bool
}

// newManifestGenerateCmd creates the manifest generate command.
func newManifestGenerateCmd() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compress data files and write the release manifest",
		Long: `Generate compresses the expected data files into a temporary working
directory, splits any compressed artifact larger than the split threshold
into numbered parts, and writes a manifest describing every artifact with
its SHA-256 checksum and sizes.

Compressed artifacts from a previous run are reused when they are at least
as new as their source file. The temporary directory is removed when the
run finishes unless --keep-temp is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runManifestGenerate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.dataDir, "data-dir", "d", "data", "Directory containing the uncompressed data files")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "manifest.json", "Path for the generated manifest")
	cmd.Flags().StringVar(&flags.manifestVersion, "latest-manifest-version", "", "Manifest version string (default from config)")
	cmd.Flags().StringVar(&flags.defaultToolchain, "default-toolchain", "", "Toolchain version keyed into the manifest (default from config)")
	cmd.Flags().StringVar(&flags.description, "description", "", "Toolchain description (default \"v<toolchain>\")")
	cmd.Flags().StringVar(&flags.releaseDate, "release-date", "", "Release date in YYYY-MM-DD format (default today)")
	cmd.Flags().StringVar(&flags.assetsBasePathR2, "assets-base-path-r2", "", "Base path for uploaded assets")
	cmd.Flags().BoolVar(&flags.keepTemp, "keep-temp", false, "Keep the temporary compressed artifacts after the run")
	cmd.Flags().Int64Var(&flags.splitThreshold, "split-threshold", 0, "Compressed size in bytes above which artifacts are split (default from config)")
	cmd.Flags().Int64Var(&flags.splitChunkSize, "split-chunk-size", 0, "Maximum size in bytes of each split part (default from config)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "Number of files to process concurrently (default from config)")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func runManifestGenerate(cmd *cobra.Command, flags generateFlags) error {
	cfg, err := config.Load(flags.dataDir)
	if err != nil {
		return err
	}
	applyGenerateFlags(cmd, cfg, flags)

	// Flag values bypass config.Load, so the merged result is re-validated.
	if err := cfg.Validate(); err != nil {
		return err
	}

	// One run per data directory at a time.
	lock := packager.NewRunLock(flags.dataDir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	var reporter ui.Reporter = ui.NopReporter{}
	if !flags.quiet {
		reporter = ui.NewPlainReporter(ui.NewConfig(cmd.OutOrStdout()))
	}

	pipeline := packager.New(afero.NewOsFs(), slog.Default(), reporter)
	return pipeline.Run(cmd.Context(), packager.Options{
		DataDir:               flags.dataDir,
		OutputPath:            flags.output,
		LatestManifestVersion: cfg.Manifest.LatestManifestVersion,
		Toolchain: manifest.ToolchainMeta{
			Version:          cfg.Manifest.DefaultToolchain,
			Description:      cfg.Manifest.Description,
			ReleaseDate:      cfg.Manifest.ReleaseDate,
			AssetsBasePathR2: cfg.Manifest.AssetsBasePathR2,
		},
		KeepTemp:            flags.keepTemp || cfg.Packaging.KeepTemp,
		SplitThresholdBytes: cfg.Packaging.SplitThresholdBytes,
		SplitChunkSizeBytes: cfg.Packaging.SplitChunkSizeBytes,
		Jobs:                cfg.Packaging.Jobs,
	})
}

// applyGenerateFlags folds explicitly set flags into the loaded config.
// Flags win over both environment variables and the config file.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config, flags generateFlags) {
	if cmd.Flags().Changed("latest-manifest-version") {
		cfg.Manifest.LatestManifestVersion = flags.manifestVersion
	}
	if cmd.Flags().Changed("default-toolchain") {
		cfg.Manifest.DefaultToolchain = flags.defaultToolchain
	}
	if cmd.Flags().Changed("description") {
		cfg.Manifest.Description = flags.description
	}
	if cmd.Flags().Changed("release-date") {
		cfg.Manifest.ReleaseDate = flags.releaseDate
	}
	if cmd.Flags().Changed("assets-base-path-r2") {
		cfg.Manifest.AssetsBasePathR2 = flags.assetsBasePathR2
	}
	if cmd.Flags().Changed("split-threshold") {
		cfg.Packaging.SplitThresholdBytes = flags.splitThreshold
	}
	if cmd.Flags().Changed("split-chunk-size") {
		cfg.Packaging.SplitChunkSizeBytes = flags.splitChunkSize
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Packaging.Jobs = flags.jobs
	}
}

// newManifestVerifyCmd creates the manifest verify command.
func newManifestVerifyCmd() *cobra.Command {
	var dataDir string
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a generated manifest against the data directory",
		Long: `Verify validates the manifest structure and compares its entries
against the local data files. When the temporary compressed artifacts from
generation were retained (--keep-temp), their sizes and checksums are
verified too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verifier := packager.NewVerifier(afero.NewOsFs(), slog.Default())
			report, err := verifier.Verify(cmd.Context(), dataDir, manifestPath)
			if err != nil {
				return err
			}
			return printVerifyReport(cmd, report)
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "data", "Directory containing the uncompressed data files")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "manifest.json", "Path to the manifest to verify")

	return cmd
}

func printVerifyReport(cmd *cobra.Command, report *packager.VerifyReport) error {
	out := cmd.OutOrStdout()

	for _, issue := range report.Issues {
		prefix := "FAIL"
		if issue.Warning {
			prefix = "WARN"
		}
		fmt.Fprintf(out, "%s %s: %s\n", prefix, issue.File, issue.Message)
	}

	fmt.Fprintf(out, "Checked %d files, %d parts", report.FilesChecked, report.PartsChecked)
	if report.ArtifactsMissing > 0 {
		fmt.Fprintf(out, " (%d compressed artifacts not retained)", report.ArtifactsMissing)
	}
	fmt.Fprintln(out)

	if !report.OK() {
		return fmt.Errorf("manifest verification failed with %d issue(s)", len(report.Issues))
	}

	fmt.Fprintln(out, "Manifest OK")
	return nil
}
