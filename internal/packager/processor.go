package packager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
	"github.com/KellyJDavis/lean-explore/internal/manifest"
	"github.com/KellyJDavis/lean-explore/internal/ui"
)

// ProcessOptions tunes splitting for a single file.
type ProcessOptions struct {
	// SplitThresholdBytes is the compressed size above which the artifact is
	// split into parts. Strictly greater-than: an artifact exactly at the
	// threshold is not split.
	SplitThresholdBytes int64

	// SplitChunkSizeBytes is the maximum size of each part.
	SplitChunkSizeBytes int64
}

// Processor turns one uncompressed input file into a manifest FileEntry:
// compress (or reuse), measure, checksum, and split when oversized.
type Processor struct {
	fs       afero.Fs
	logger   *slog.Logger
	reporter ui.Reporter
}

// NewProcessor creates a file processor over the given filesystem. A nil
// reporter disables progress output.
func NewProcessor(fs afero.Fs, logger *slog.Logger, reporter ui.Reporter) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if reporter == nil {
		reporter = ui.NopReporter{}
	}
	return &Processor{fs: fs, logger: logger, reporter: reporter}
}

// ProcessFile processes one logical input file end-to-end. The compressed
// artifact is placed at <tempDir>/<remote_name>; an existing artifact at
// least as new as the source is reused without recompression.
func (p *Processor) ProcessFile(ctx context.Context, dataDir, tempDir string, mapping FileMapping, opts ProcessOptions) (manifest.FileEntry, error) {
	filePath := filepath.Join(dataDir, mapping.LocalName)

	srcInfo, err := p.fs.Stat(filePath)
	if err != nil {
		return manifest.FileEntry{}, pkgerrors.New(pkgerrors.ErrCodeFileNotFound,
			fmt.Sprintf("required file not found: %s", filePath), err)
	}
	uncompressedSize := srcInfo.Size()

	p.logger.Info("processing_file",
		slog.String("local_name", mapping.LocalName),
		slog.String("uncompressed_size", humanize.Comma(uncompressedSize)))

	compressedPath := filepath.Join(tempDir, mapping.RemoteName)

	reuse, err := shouldReuseCompressed(p.fs, filePath, compressedPath)
	if err != nil {
		return manifest.FileEntry{}, err
	}
	if reuse {
		p.logger.Info("reusing_compressed_artifact",
			slog.String("remote_name", mapping.RemoteName))
	} else {
		if err := CompressFile(p.fs, filePath, compressedPath); err != nil {
			return manifest.FileEntry{}, err
		}
		p.logger.Info("compressed_file",
			slog.String("local_name", mapping.LocalName),
			slog.String("remote_name", mapping.RemoteName))
	}

	outInfo, err := p.fs.Stat(compressedPath)
	if err != nil {
		return manifest.FileEntry{}, pkgerrors.IOError(
			fmt.Sprintf("failed to stat compressed file %s", compressedPath), err)
	}
	compressedSize := outInfo.Size()

	// Checksum of the whole compressed artifact, split or not. Consumers use
	// this to verify the full content after reassembly.
	p.reporter.Progress(ui.Event{Stage: ui.StageChecksum, File: mapping.RemoteName})
	sum, err := SHA256Sum(p.fs, compressedPath)
	if err != nil {
		return manifest.FileEntry{}, err
	}

	entry := manifest.FileEntry{
		LocalName:             mapping.LocalName,
		RemoteName:            mapping.RemoteName,
		SHA256:                sum,
		SizeBytesCompressed:   compressedSize,
		SizeBytesUncompressed: uncompressedSize,
	}

	if compressedSize <= opts.SplitThresholdBytes {
		p.logger.Info("under_split_threshold",
			slog.String("remote_name", mapping.RemoteName),
			slog.String("compressed_size", humanize.Comma(compressedSize)),
			slog.String("threshold", humanize.Comma(opts.SplitThresholdBytes)))
		return entry, nil
	}

	p.reporter.Progress(ui.Event{Stage: ui.StageSplit, File: mapping.RemoteName})
	p.logger.Info("splitting_oversized_artifact",
		slog.String("remote_name", mapping.RemoteName),
		slog.String("compressed_size", humanize.Comma(compressedSize)),
		slog.String("chunk_size", humanize.Comma(opts.SplitChunkSizeBytes)))

	partPaths, err := SplitFile(ctx, p.fs, compressedPath, compressedPath+".", opts.SplitChunkSizeBytes)
	if err != nil {
		return manifest.FileEntry{}, err
	}

	parts, err := ReconcileParts(p.fs, partPaths, mapping.RemoteName)
	if err != nil {
		return manifest.FileEntry{}, err
	}
	entry.Parts = parts

	// Accounting check only. A mismatch is logged and publication proceeds;
	// consumers rely on checksums, not size arithmetic, for integrity.
	if total := entry.PartsTotalSize(); total != compressedSize {
		p.logger.Warn("part_size_mismatch",
			slog.String("remote_name", mapping.RemoteName),
			slog.String("parts_total", humanize.Comma(total)),
			slog.String("compressed_size", humanize.Comma(compressedSize)))
	}

	p.logger.Info("split_complete",
		slog.String("remote_name", mapping.RemoteName),
		slog.Int("parts", len(parts)))

	return entry, nil
}
