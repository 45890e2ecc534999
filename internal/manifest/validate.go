package manifest

import (
	"fmt"
	"regexp"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

var sha256Pattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Validate checks the structural invariants of the manifest document:
// default_toolchain must key into toolchains, checksums must be 64 lowercase
// hex characters, and part numbers must form a contiguous 0-based ascending
// sequence whose remote names derive from the file's remote name.
func (m *Manifest) Validate() error {
	if m.LatestManifestVersion == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			"manifest missing latest_manifest_version", nil)
	}
	if m.DefaultToolchain == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			"manifest missing default_toolchain", nil)
	}
	if _, ok := m.Toolchains[m.DefaultToolchain]; !ok {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			fmt.Sprintf("default_toolchain %q is not a key in toolchains", m.DefaultToolchain), nil)
	}

	for version, tc := range m.Toolchains {
		for i := range tc.Files {
			if err := validateFileEntry(&tc.Files[i]); err != nil {
				if pe, ok := err.(*pkgerrors.PipelineError); ok {
					return pe.WithDetail("toolchain", version)
				}
				return err
			}
		}
	}
	return nil
}

func validateFileEntry(f *FileEntry) error {
	if f.LocalName == "" || f.RemoteName == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			"file entry missing local_name or remote_name", nil)
	}
	if !sha256Pattern.MatchString(f.SHA256) {
		return pkgerrors.New(pkgerrors.ErrCodeChecksumFormat,
			fmt.Sprintf("file %s: sha256 %q is not 64 lowercase hex characters", f.RemoteName, f.SHA256), nil)
	}
	if f.SizeBytesCompressed < 0 || f.SizeBytesUncompressed < 0 {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
			fmt.Sprintf("file %s: negative size", f.RemoteName), nil)
	}

	for i, p := range f.Parts {
		if p.PartNumber != i {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
				fmt.Sprintf("file %s: part_number %d at index %d breaks the contiguous 0-based sequence",
					f.RemoteName, p.PartNumber, i), nil)
		}
		if want := PartRemoteName(f.RemoteName, p.PartNumber); p.RemoteName != want {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
				fmt.Sprintf("file %s: part remote_name %q, want %q", f.RemoteName, p.RemoteName, want), nil)
		}
		if !sha256Pattern.MatchString(p.SHA256) {
			return pkgerrors.New(pkgerrors.ErrCodeChecksumFormat,
				fmt.Sprintf("part %s: sha256 %q is not 64 lowercase hex characters", p.RemoteName, p.SHA256), nil)
		}
		if p.SizeBytes < 0 {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidManifest,
				fmt.Sprintf("part %s: negative size", p.RemoteName), nil)
		}
	}
	return nil
}
