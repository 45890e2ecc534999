package packager

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// CompressFile writes a single-stream gzip copy of inputPath at outputPath,
// creating missing parent directories. The input is never mutated. A partial
// output left by a failed run is removed so the mtime-based reuse check can
// never pick up a truncated artifact.
func CompressFile(fs afero.Fs, inputPath, outputPath string) error {
	in, err := fs.Open(inputPath)
	if err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to open %s for compression", inputPath), err)
	}
	defer func() { _ = in.Close() }()

	if err := fs.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create directory for %s", outputPath), err)
	}

	out, err := fs.Create(outputPath)
	if err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create compressed file %s", outputPath), err)
	}

	gz := gzip.NewWriter(out)
	_, copyErr := io.Copy(gz, in)
	closeErr := gz.Close()
	outErr := out.Close()

	if err := firstError(copyErr, closeErr, outErr); err != nil {
		_ = fs.Remove(outputPath)
		return pkgerrors.New(pkgerrors.ErrCodeCompressFailed,
			fmt.Sprintf("failed to compress %s", inputPath), err)
	}

	return nil
}

// shouldReuseCompressed reports whether an existing compressed artifact at
// outputPath is at least as new as the source and can be reused without
// recompression.
//
// This check is mtime-based, not content-based: a source whose bytes change
// without its mtime advancing (clock skew, coarse filesystem timestamps)
// would incorrectly reuse a stale artifact. Callers publishing from such
// filesystems should clear the temp directory between runs.
func shouldReuseCompressed(fs afero.Fs, sourcePath, outputPath string) (bool, error) {
	outInfo, err := fs.Stat(outputPath)
	if err != nil {
		return false, nil // no artifact yet
	}

	srcInfo, err := fs.Stat(sourcePath)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to stat %s", sourcePath), err)
	}

	return !outInfo.ModTime().Before(srcInfo.ModTime()), nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
