package packager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
	"github.com/KellyJDavis/lean-explore/internal/manifest"
	"github.com/KellyJDavis/lean-explore/internal/ui"
)

// Options configures one manifest-generation run.
type Options struct {
	// DataDir contains the uncompressed input files.
	DataDir string

	// OutputPath is where the manifest document is written.
	OutputPath string

	// LatestManifestVersion is the manifest version string (e.g., "0.3.0").
	LatestManifestVersion string

	// Toolchain is the metadata for the single toolchain entry.
	Toolchain manifest.ToolchainMeta

	// KeepTemp retains the temporary compressed artifacts after the run.
	// When false the temp directory tree is deleted on success and, best
	// effort, on failure.
	KeepTemp bool

	// SplitThresholdBytes and SplitChunkSizeBytes tune splitting; both must
	// be positive.
	SplitThresholdBytes int64
	SplitChunkSizeBytes int64

	// Jobs bounds concurrent file processing. 1 processes the expected files
	// strictly in order.
	Jobs int
}

// Pipeline drives the packaging run: temp directory lifecycle, per-file
// processing, manifest assembly, and cleanup on both success and failure.
type Pipeline struct {
	fs       afero.Fs
	logger   *slog.Logger
	reporter ui.Reporter
}

// New creates a Pipeline. A nil reporter disables progress output.
func New(fs afero.Fs, logger *slog.Logger, reporter ui.Reporter) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if reporter == nil {
		reporter = ui.NopReporter{}
	}
	return &Pipeline{fs: fs, logger: logger, reporter: reporter}
}

// Run executes the whole pipeline. Any failure at any stage is fatal to the
// run; cleanup is attempted first and the original error is propagated
// unchanged.
func (p *Pipeline) Run(ctx context.Context, opts Options) (err error) {
	start := time.Now()

	// Validation happens before any I/O.
	if err := validateOptions(&opts); err != nil {
		return err
	}
	if err := resolvePaths(&opts); err != nil {
		return err
	}

	p.logger.Info("manifest_generation_started",
		slog.String("data_dir", opts.DataDir),
		slog.String("output", opts.OutputPath),
		slog.String("manifest_version", opts.LatestManifestVersion),
		slog.String("toolchain", opts.Toolchain.Version))

	tempDir := filepath.Join(opts.DataDir, TempDirName)
	if err := p.fs.MkdirAll(tempDir, 0o755); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create temp directory %s", tempDir), err)
	}

	// Cleanup runs on every exit path, success or failure, and never masks
	// the original error.
	defer func() {
		if opts.KeepTemp {
			p.logger.Info("keeping_temp_directory", slog.String("temp_dir", tempDir))
			return
		}
		p.reporter.Progress(ui.Event{Stage: ui.StageCleanup, Message: "removing temporary artifacts"})
		if rmErr := p.fs.RemoveAll(tempDir); rmErr != nil {
			p.logger.Warn("temp_cleanup_failed",
				slog.String("temp_dir", tempDir),
				slog.String("error", rmErr.Error()))
		}
	}()

	if err := p.checkInputsPresent(opts.DataDir); err != nil {
		return err
	}

	entries, warnings, err := p.processFiles(ctx, tempDir, opts)
	if err != nil {
		return err
	}

	p.reporter.Progress(ui.Event{Stage: ui.StageManifest, Message: "assembling manifest"})
	doc, err := manifest.Assemble(opts.LatestManifestVersion, opts.Toolchain, entries)
	if err != nil {
		return err
	}
	if err := manifest.Write(p.fs, doc, opts.OutputPath); err != nil {
		return err
	}

	p.logger.Info("manifest_written", slog.String("path", opts.OutputPath))

	var compressed int64
	for _, e := range entries {
		compressed += e.SizeBytesCompressed
	}
	p.reporter.Complete(ui.CompletionStats{
		Files:           len(entries),
		CompressedBytes: compressed,
		ManifestPath:    opts.OutputPath,
		Duration:        time.Since(start),
		Warnings:        warnings,
	})

	return nil
}

// checkInputsPresent fails fast when any expected input is missing, naming
// every expected absolute path to aid diagnosis.
func (p *Pipeline) checkInputsPresent(dataDir string) error {
	var missing []string
	for _, path := range ExpectedPaths(dataDir) {
		if _, err := p.fs.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return pkgerrors.New(pkgerrors.ErrCodeFileNotFound,
		fmt.Sprintf("missing required input file(s): %s", strings.Join(missing, ", ")), nil).
		WithDetail("expected", strings.Join(ExpectedPaths(dataDir), ", ")).
		WithSuggestion(fmt.Sprintf("Ensure all data files exist:\n  - %s",
			strings.Join(ExpectedPaths(dataDir), "\n  - ")))
}

// processFiles runs the file processor over the expected inputs, bounded by
// opts.Jobs, and returns entries in input order plus the warning count.
func (p *Pipeline) processFiles(ctx context.Context, tempDir string, opts Options) ([]manifest.FileEntry, int, error) {
	mappings := ExpectedFiles()
	entries := make([]manifest.FileEntry, len(mappings))

	processor := NewProcessor(p.fs, p.logger, p.reporter)
	procOpts := ProcessOptions{
		SplitThresholdBytes: opts.SplitThresholdBytes,
		SplitChunkSizeBytes: opts.SplitChunkSizeBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	for i, mapping := range mappings {
		i, mapping := i, mapping
		p.reporter.Progress(ui.Event{
			Stage:   ui.StageCompress,
			File:    mapping.LocalName,
			Current: i + 1,
			Total:   len(mappings),
		})

		g.Go(func() error {
			entry, err := processor.ProcessFile(gctx, opts.DataDir, tempDir, mapping, procOpts)
			if err != nil {
				return err
			}
			entries[i] = entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	warnings := 0
	for _, entry := range entries {
		if entry.IsSplit() {
			if total := entry.PartsTotalSize(); total != entry.SizeBytesCompressed {
				warnings++
				p.reporter.Warn(fmt.Sprintf(
					"%s: sum of part sizes (%d) does not match compressed size (%d)",
					entry.RemoteName, total, entry.SizeBytesCompressed))
			}
		}
	}

	return entries, warnings, nil
}

func validateOptions(opts *Options) error {
	if opts.LatestManifestVersion == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidVersion,
			"latest manifest version must be a non-empty string", nil)
	}
	if opts.Toolchain.Version == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidVersion,
			"toolchain version must be a non-empty string", nil)
	}
	if opts.SplitThresholdBytes <= 0 {
		return pkgerrors.ValidationError(
			fmt.Sprintf("split threshold must be positive, got %d", opts.SplitThresholdBytes), nil)
	}
	if opts.SplitChunkSizeBytes <= 0 {
		return pkgerrors.ValidationError(
			fmt.Sprintf("split chunk size must be positive, got %d", opts.SplitChunkSizeBytes), nil)
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return nil
}

// resolvePaths makes DataDir and OutputPath absolute so every diagnostic and
// log line names full paths regardless of the caller's working directory.
func resolvePaths(opts *Options) error {
	dataDir, err := filepath.Abs(opts.DataDir)
	if err != nil {
		return pkgerrors.ValidationError(
			fmt.Sprintf("failed to resolve data directory %s", opts.DataDir), err)
	}
	opts.DataDir = dataDir

	outputPath, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return pkgerrors.ValidationError(
			fmt.Sprintf("failed to resolve output path %s", opts.OutputPath), err)
	}
	opts.OutputPath = outputPath

	return nil
}
