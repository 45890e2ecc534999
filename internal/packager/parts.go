package packager

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
	"github.com/KellyJDavis/lean-explore/internal/manifest"
)

// ReconcileParts derives per-part metadata (ordinal, size, checksum) from the
// split part files and validates ordinal contiguity. partPaths should already
// be sorted by ordinal; the result is re-sorted defensively.
func ReconcileParts(fs afero.Fs, partPaths []string, baseRemoteName string) ([]manifest.PartEntry, error) {
	entries := make([]manifest.PartEntry, 0, len(partPaths))

	for _, partPath := range partPaths {
		name := filepath.Base(partPath)
		m := partSuffixPattern.FindStringSubmatch(name)
		if m == nil {
			return nil, pkgerrors.New(pkgerrors.ErrCodePartSuffix,
				fmt.Sprintf("could not extract part number from filename %s", name), nil)
		}
		partNumber, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.ErrCodePartSuffix,
				fmt.Sprintf("invalid part number in filename %s", name), err)
		}

		info, err := fs.Stat(partPath)
		if err != nil {
			return nil, pkgerrors.IOError(
				fmt.Sprintf("failed to stat part %s", partPath), err)
		}

		sum, err := SHA256Sum(fs, partPath)
		if err != nil {
			return nil, err
		}

		entries = append(entries, manifest.PartEntry{
			RemoteName: manifest.PartRemoteName(baseRemoteName, partNumber),
			SHA256:     sum,
			SizeBytes:  info.Size(),
			PartNumber: partNumber,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PartNumber < entries[j].PartNumber
	})

	// Ordinals must form a contiguous 0-based range; anything else means the
	// split produced files we did not expect.
	for i, e := range entries {
		if e.PartNumber != i {
			return nil, pkgerrors.ChunkingError(
				fmt.Sprintf("part numbers for %s are not contiguous: found %d at position %d",
					baseRemoteName, e.PartNumber, i), nil)
		}
	}

	return entries, nil
}
