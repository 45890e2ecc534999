package packager

import (
	"bytes"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompress(t *testing.T, fs afero.Fs, path string) []byte {
	t.Helper()

	f, err := fs.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	return data
}

func TestCompressFile_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("lean theorem data "), 4096)
	require.NoError(t, afero.WriteFile(fs, "/data/input.db", content, 0o644))

	require.NoError(t, CompressFile(fs, "/data/input.db", "/data/.manifest_temp/input.db.gz"))

	assert.Equal(t, content, decompress(t, fs, "/data/.manifest_temp/input.db.gz"))
}

func TestCompressFile_CreatesParentDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/input", []byte("x"), 0o644))

	err := CompressFile(fs, "/input", "/deeply/nested/dir/out.gz")
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/deeply/nested/dir/out.gz")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCompressFile_DoesNotMutateInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := []byte("immutable input")
	require.NoError(t, afero.WriteFile(fs, "/input", content, 0o644))

	require.NoError(t, CompressFile(fs, "/input", "/out.gz"))

	after, err := afero.ReadFile(fs, "/input")
	require.NoError(t, err)
	assert.Equal(t, content, after)
}

func TestCompressFile_MissingInput(t *testing.T) {
	err := CompressFile(afero.NewMemMapFs(), "/missing", "/out.gz")
	assert.Error(t, err)
}

func TestCompressFile_ShrinksCompressibleData(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte{0}, 1<<20)
	require.NoError(t, afero.WriteFile(fs, "/zeros", content, 0o644))

	require.NoError(t, CompressFile(fs, "/zeros", "/zeros.gz"))

	info, err := fs.Stat("/zeros.gz")
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(len(content)/10))
}

func TestShouldReuseCompressed(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		sourceTime  time.Time
		outputTime  time.Time
		outputExist bool
		want        bool
	}{
		{
			name:        "output newer than source",
			sourceTime:  base,
			outputTime:  base.Add(time.Hour),
			outputExist: true,
			want:        true,
		},
		{
			name:        "output same age as source",
			sourceTime:  base,
			outputTime:  base,
			outputExist: true,
			want:        true,
		},
		{
			name:        "source newer than output",
			sourceTime:  base.Add(time.Hour),
			outputTime:  base,
			outputExist: true,
			want:        false,
		},
		{
			name:        "output missing",
			sourceTime:  base,
			outputExist: false,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/src", []byte("source"), 0o644))
			require.NoError(t, fs.Chtimes("/src", tt.sourceTime, tt.sourceTime))

			if tt.outputExist {
				require.NoError(t, afero.WriteFile(fs, "/out.gz", []byte("gz"), 0o644))
				require.NoError(t, fs.Chtimes("/out.gz", tt.outputTime, tt.outputTime))
			}

			got, err := shouldReuseCompressed(fs, "/src", "/out.gz")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// randomBytes returns incompressible data, so compressed sizes track input
// sizes closely in split tests.
func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, n)
	_, err := rng.Read(data)
	require.NoError(t, err)
	return data
}
