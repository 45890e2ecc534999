// Package manifest defines the release manifest document describing one or
// more toolchain (versioned dataset) releases and their constituent files,
// plus assembly, serialization, and validation of that document.
package manifest

import "fmt"

// Manifest is the root document consumed by the remote fetch tooling.
type Manifest struct {
	LatestManifestVersion string                    `json:"latest_manifest_version"`
	DefaultToolchain      string                    `json:"default_toolchain"`
	Toolchains            map[string]ToolchainEntry `json:"toolchains"`
}

// ToolchainEntry describes one versioned bundle of data files.
// Entries are immutable after assembly.
type ToolchainEntry struct {
	Description      string      `json:"description"`
	ReleaseDate      string      `json:"release_date"`
	AssetsBasePathR2 string      `json:"assets_base_path_r2"`
	Files            []FileEntry `json:"files"`
}

// FileEntry describes one compressed data artifact.
//
// SHA256 is always the checksum of the full compressed content, even when the
// artifact is split; consumers verify reassembled downloads against it.
// RemoteName doubles as the temporary filename used when reassembling split
// parts on the consumer side.
type FileEntry struct {
	LocalName             string      `json:"local_name"`
	RemoteName            string      `json:"remote_name"`
	SHA256                string      `json:"sha256"`
	SizeBytesCompressed   int64       `json:"size_bytes_compressed"`
	SizeBytesUncompressed int64       `json:"size_bytes_uncompressed"`
	Parts                 []PartEntry `json:"parts,omitempty"`
}

// PartEntry describes one bounded-size fragment of a split artifact.
type PartEntry struct {
	RemoteName string `json:"remote_name"`
	SHA256     string `json:"sha256"`
	SizeBytes  int64  `json:"size_bytes"`
	PartNumber int    `json:"part_number"`
}

// IsSplit reports whether the artifact was split into parts.
func (f *FileEntry) IsSplit() bool {
	return len(f.Parts) > 0
}

// PartsTotalSize returns the sum of part sizes. Zero when not split.
func (f *FileEntry) PartsTotalSize() int64 {
	var total int64
	for _, p := range f.Parts {
		total += p.SizeBytes
	}
	return total
}

// PartRemoteName builds the remote name for a part of the given artifact:
// the base remote name plus a 3-digit zero-padded ordinal suffix.
func PartRemoteName(baseRemoteName string, partNumber int) string {
	return fmt.Sprintf("%s.%03d", baseRemoteName, partNumber)
}
