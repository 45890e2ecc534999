package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// ToolchainMeta is the caller-supplied metadata for one toolchain release.
// Zero-value fields are defaulted during assembly.
type ToolchainMeta struct {
	// Version is the toolchain version string; it becomes both the key in
	// the toolchains map and the default_toolchain value. Required.
	Version string

	// Description defaults to "v<Version>".
	Description string

	// ReleaseDate defaults to today's date (YYYY-MM-DD).
	ReleaseDate string

	// AssetsBasePathR2 defaults to empty.
	AssetsBasePathR2 string
}

// Assemble builds a Manifest with exactly one toolchain entry keyed by the
// given version, in file input order.
func Assemble(latestManifestVersion string, meta ToolchainMeta, files []FileEntry) (*Manifest, error) {
	if latestManifestVersion == "" {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidVersion,
			"latest manifest version must be a non-empty string", nil)
	}
	if meta.Version == "" {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidVersion,
			"toolchain version must be a non-empty string", nil)
	}

	description := meta.Description
	if description == "" {
		description = "v" + meta.Version
	}
	releaseDate := meta.ReleaseDate
	if releaseDate == "" {
		releaseDate = time.Now().Format("2006-01-02")
	}

	return &Manifest{
		LatestManifestVersion: latestManifestVersion,
		DefaultToolchain:      meta.Version,
		Toolchains: map[string]ToolchainEntry{
			meta.Version: {
				Description:      description,
				ReleaseDate:      releaseDate,
				AssetsBasePathR2: meta.AssetsBasePathR2,
				Files:            files,
			},
		},
	}, nil
}

// Encode serializes the manifest as indented JSON without HTML escaping,
// so non-ASCII content is written verbatim.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write serializes the manifest to outputPath, creating parent directories as
// needed. The document is written to a sibling temp file and renamed into
// place so a crash mid-write never leaves a truncated manifest.
func Write(fs afero.Fs, m *Manifest, outputPath string) error {
	data, err := Encode(m)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err)
	}

	dir := filepath.Dir(outputPath)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	tmpPath := outputPath + ".tmp"
	if err := afero.WriteFile(fs, tmpPath, data, 0o644); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to write manifest to %s", tmpPath), err)
	}
	if err := fs.Rename(tmpPath, outputPath); err != nil {
		_ = fs.Remove(tmpPath)
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to move manifest into place at %s", outputPath), err)
	}

	return nil
}

// Load reads and parses a manifest document from path.
func Load(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.ErrCodeFileRead,
			fmt.Sprintf("failed to read manifest %s", path), err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			fmt.Sprintf("failed to parse manifest %s", path), err)
	}
	return &m, nil
}
