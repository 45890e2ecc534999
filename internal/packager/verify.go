package packager

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
	"github.com/KellyJDavis/lean-explore/internal/manifest"
)

// VerifyIssue is one discrepancy found while verifying a manifest against the
// data directory.
type VerifyIssue struct {
	File    string
	Message string
	Warning bool
}

// VerifyReport summarizes a verification run.
type VerifyReport struct {
	FilesChecked     int
	PartsChecked     int
	ArtifactsMissing int
	Issues           []VerifyIssue
}

// OK reports whether verification found no non-warning issues.
func (r *VerifyReport) OK() bool {
	for _, issue := range r.Issues {
		if !issue.Warning {
			return false
		}
	}
	return true
}

// Verifier checks a generated manifest against the local data directory:
// structural invariants, uncompressed sizes, and, when the temp artifacts
// were retained, compressed sizes and checksums for whole files and parts.
type Verifier struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewVerifier creates a Verifier over the given filesystem.
func NewVerifier(fs afero.Fs, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{fs: fs, logger: logger}
}

// Verify loads and validates the manifest at manifestPath and checks the
// default toolchain's files against dataDir. Discrepancies are reported as
// issues; only loading/validation failures return an error.
func (v *Verifier) Verify(ctx context.Context, dataDir, manifestPath string) (*VerifyReport, error) {
	doc, err := manifest.Load(v.fs, manifestPath)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	tc, ok := doc.Toolchains[doc.DefaultToolchain]
	if !ok {
		// Validate guarantees presence; defensive.
		return nil, pkgerrors.InternalError(
			fmt.Sprintf("default toolchain %q missing", doc.DefaultToolchain), nil)
	}

	report := &VerifyReport{}
	tempDir := filepath.Join(dataDir, TempDirName)

	for i := range tc.Files {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrCodeCancelled,
				"verification cancelled", err)
		}
		v.verifyFile(dataDir, tempDir, &tc.Files[i], report)
	}

	return report, nil
}

func (v *Verifier) verifyFile(dataDir, tempDir string, entry *manifest.FileEntry, report *VerifyReport) {
	report.FilesChecked++

	localPath := filepath.Join(dataDir, entry.LocalName)
	info, err := v.fs.Stat(localPath)
	if err != nil {
		report.Issues = append(report.Issues, VerifyIssue{
			File:    entry.LocalName,
			Message: fmt.Sprintf("local file missing: %s", localPath),
		})
	} else if info.Size() != entry.SizeBytesUncompressed {
		report.Issues = append(report.Issues, VerifyIssue{
			File: entry.LocalName,
			Message: fmt.Sprintf("uncompressed size %d does not match manifest value %d",
				info.Size(), entry.SizeBytesUncompressed),
		})
	}

	// Compressed artifacts only exist when the run kept its temp directory.
	compressedPath := filepath.Join(tempDir, entry.RemoteName)
	if _, err := v.fs.Stat(compressedPath); err != nil {
		report.ArtifactsMissing++
		v.logger.Debug("compressed_artifact_not_retained",
			slog.String("path", compressedPath))
		return
	}

	v.verifyArtifact(compressedPath, entry.RemoteName, entry.SHA256, entry.SizeBytesCompressed, report)

	for _, part := range entry.Parts {
		report.PartsChecked++
		partPath := filepath.Join(tempDir, part.RemoteName)
		if _, err := v.fs.Stat(partPath); err != nil {
			report.Issues = append(report.Issues, VerifyIssue{
				File:    part.RemoteName,
				Message: fmt.Sprintf("part file missing: %s", partPath),
			})
			continue
		}
		v.verifyArtifact(partPath, part.RemoteName, part.SHA256, part.SizeBytes, report)
	}

	// Accounting discrepancy stays a warning, mirroring generation.
	if entry.IsSplit() {
		if total := entry.PartsTotalSize(); total != entry.SizeBytesCompressed {
			report.Issues = append(report.Issues, VerifyIssue{
				File: entry.RemoteName,
				Message: fmt.Sprintf("sum of part sizes (%d) does not match compressed size (%d)",
					total, entry.SizeBytesCompressed),
				Warning: true,
			})
		}
	}
}

func (v *Verifier) verifyArtifact(path, name, wantSHA string, wantSize int64, report *VerifyReport) {
	info, err := v.fs.Stat(path)
	if err != nil {
		report.Issues = append(report.Issues, VerifyIssue{
			File:    name,
			Message: fmt.Sprintf("failed to stat %s: %v", path, err),
		})
		return
	}
	if info.Size() != wantSize {
		report.Issues = append(report.Issues, VerifyIssue{
			File:    name,
			Message: fmt.Sprintf("size %d does not match manifest value %d", info.Size(), wantSize),
		})
	}

	sum, err := SHA256Sum(v.fs, path)
	if err != nil {
		report.Issues = append(report.Issues, VerifyIssue{
			File:    name,
			Message: fmt.Sprintf("failed to checksum %s: %v", path, err),
		})
		return
	}
	if sum != wantSHA {
		report.Issues = append(report.Issues, VerifyIssue{
			File:    name,
			Message: fmt.Sprintf("sha256 mismatch: computed %s, manifest has %s", sum, wantSHA),
		})
	}
}
