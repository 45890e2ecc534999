package packager

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// maxParts is the limit imposed by 3-digit part suffixes.
const maxParts = 1000

// partSuffixPattern matches the trailing 3-digit ordinal of a part filename.
var partSuffixPattern = regexp.MustCompile(`\.(\d{3})$`)

// SplitFile splits the file at path into sequential parts named
// <prefix>NNN with zero-padded 3-digit ordinals, each at most chunkSize bytes
// except possibly the last. It returns the discovered part paths sorted by
// ordinal (lexicographic order equals numeric order given fixed-width
// padding).
//
// Splitting is an in-process byte-range copy and honors context cancellation
// between chunks. Finding zero numerically-suffixed parts afterwards is an
// integrity violation, not a silent no-op.
func SplitFile(ctx context.Context, fs afero.Fs, path, prefix string, chunkSize int64) ([]string, error) {
	if chunkSize <= 0 {
		return nil, pkgerrors.ValidationError(
			fmt.Sprintf("chunk size must be positive, got %d", chunkSize), nil)
	}

	in, err := fs.Open(path)
	if err != nil {
		return nil, pkgerrors.IOError(
			fmt.Sprintf("failed to open %s for splitting", path), err)
	}
	defer func() { _ = in.Close() }()

	// Remove parts left by a previous run so discovery cannot pick up stale
	// ordinals beyond what this split produces.
	stale, err := discoverParts(fs, prefix)
	if err != nil {
		return nil, err
	}
	for _, s := range stale {
		if err := fs.Remove(s); err != nil {
			return nil, pkgerrors.ChunkingError(
				fmt.Sprintf("failed to remove stale part %s", s), err)
		}
	}

	for partNum := 0; ; partNum++ {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrCodeSplitCancelled,
				fmt.Sprintf("splitting %s cancelled at part %d", path, partNum), err)
		}
		if partNum >= maxParts {
			// A source of exactly maxParts*chunkSize bytes ends here with
			// nothing left to write; only remaining bytes overflow the
			// 3-digit ordinal space.
			var probe [1]byte
			if n, _ := in.Read(probe[:]); n == 0 {
				break
			}
			return nil, pkgerrors.New(pkgerrors.ErrCodeTooManyParts,
				fmt.Sprintf("%s would need more than %d parts at chunk size %d", path, maxParts, chunkSize), nil)
		}

		partPath := fmt.Sprintf("%s%03d", prefix, partNum)
		written, err := copyChunk(fs, in, partPath, chunkSize)
		if err != nil {
			return nil, err
		}
		if written == 0 {
			// Source exhausted exactly at the previous boundary.
			_ = fs.Remove(partPath)
			break
		}
		if written < chunkSize {
			break // short part, source exhausted
		}
	}

	parts, err := discoverParts(fs, prefix)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, pkgerrors.New(pkgerrors.ErrCodeNoPartsFound,
			fmt.Sprintf("no split parts with numeric suffixes found after splitting %s", path), nil)
	}

	return parts, nil
}

// copyChunk copies up to chunkSize bytes from src into a new file at
// partPath, returning the number of bytes written.
func copyChunk(fs afero.Fs, src io.Reader, partPath string, chunkSize int64) (int64, error) {
	out, err := fs.Create(partPath)
	if err != nil {
		return 0, pkgerrors.ChunkingError(
			fmt.Sprintf("failed to create part file %s", partPath), err)
	}

	written, copyErr := io.CopyN(out, src, chunkSize)
	closeErr := out.Close()

	if copyErr != nil && copyErr != io.EOF {
		_ = fs.Remove(partPath)
		return 0, pkgerrors.ChunkingError(
			fmt.Sprintf("failed to write part file %s", partPath), copyErr)
	}
	if closeErr != nil {
		_ = fs.Remove(partPath)
		return 0, pkgerrors.ChunkingError(
			fmt.Sprintf("failed to close part file %s", partPath), closeErr)
	}

	return written, nil
}

// discoverParts globs for files under the prefix and filters to names with a
// trailing 3-digit ordinal, sorted lexicographically.
func discoverParts(fs afero.Fs, prefix string) ([]string, error) {
	matches, err := afero.Glob(fs, prefix+"*")
	if err != nil {
		return nil, pkgerrors.ChunkingError(
			fmt.Sprintf("failed to glob parts under %s", prefix), err)
	}

	var parts []string
	for _, m := range matches {
		if !partSuffixPattern.MatchString(filepath.Base(m)) {
			continue
		}
		info, err := fs.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		parts = append(parts, m)
	}
	sort.Strings(parts)

	return parts, nil
}
