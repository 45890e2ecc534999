package packager

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// hashBlockSize bounds per-read memory while hashing, so checksum memory use
// stays constant regardless of artifact size.
const hashBlockSize = 256 * 1024

// SHA256Sum computes the lowercase hex SHA-256 checksum of the file at path,
// reading in fixed-size blocks.
func SHA256Sum(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to open %s for checksum", path), err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", pkgerrors.New(pkgerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to read %s for checksum", path), err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
