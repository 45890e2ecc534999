// Package packager implements the release packaging pipeline: per-file gzip
// compression with idempotent reuse, streaming SHA-256 checksums,
// threshold-triggered splitting into bounded-size parts, and orchestration of
// the temporary working directory across a manifest-generation run.
package packager

import "path/filepath"

// Expected input filenames. These are fixed by the published data layout and
// are not configurable.
const (
	DatabaseFileName    = "lean_explore_data.db"
	VectorIndexFileName = "main_faiss.index"
	IDMapFileName       = "faiss_ids_map.json"
)

// CompressedSuffix is appended to local names to form remote names.
const CompressedSuffix = ".gz"

// TempDirName is the working directory created under the data directory for
// compressed artifacts and split parts. It is deleted as a unit.
const TempDirName = ".manifest_temp"

// FileMapping pairs an uncompressed local filename with its compressed
// remote name.
type FileMapping struct {
	LocalName  string
	RemoteName string
}

// ExpectedFiles returns the fixed, ordered set of input files every toolchain
// release must contain: the database, the vector index, and the id map.
func ExpectedFiles() []FileMapping {
	return []FileMapping{
		{LocalName: DatabaseFileName, RemoteName: DatabaseFileName + CompressedSuffix},
		{LocalName: VectorIndexFileName, RemoteName: VectorIndexFileName + CompressedSuffix},
		{LocalName: IDMapFileName, RemoteName: IDMapFileName + CompressedSuffix},
	}
}

// ExpectedPaths returns the paths of all expected input files under dataDir,
// for missing-input diagnostics. The pipeline resolves dataDir to an absolute
// path before calling this, so the reported paths are absolute.
func ExpectedPaths(dataDir string) []string {
	mappings := ExpectedFiles()
	paths := make([]string, 0, len(mappings))
	for _, m := range mappings {
		paths = append(paths, filepath.Join(dataDir, m.LocalName))
	}
	return paths
}
