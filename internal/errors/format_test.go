package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForCLI_IncludesMessageHintAndCode(t *testing.T) {
	err := New(ErrCodeFileNotFound, "data file missing", nil).
		WithSuggestion("Run with --data-dir pointing at the data directory")

	out := FormatForCLI(err)

	assert.Contains(t, out, "Error: data file missing")
	assert.Contains(t, out, "Hint: Run with --data-dir")
	assert.Contains(t, out, "Code: ERR_201_FILE_NOT_FOUND")
}

func TestFormatForCLI_WrapsPlainErrors(t *testing.T) {
	out := FormatForCLI(errors.New("boom"))

	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "Code: ERR_501_INTERNAL")
}

func TestFormatJSON_RoundTrips(t *testing.T) {
	err := New(ErrCodeSplitFailed, "split failed", errors.New("disk full")).
		WithDetail("file", "main_faiss.index.gz")

	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "ERR_301_SPLIT_FAILED", decoded["code"])
	assert.Equal(t, "CHUNKING", decoded["category"])
	assert.Equal(t, "disk full", decoded["cause"])
}

func TestFormatForLog_FlattensDetails(t *testing.T) {
	err := New(ErrCodeFileWrite, "write failed", nil).
		WithDetail("path", "/tmp/out.gz")

	attrs := FormatForLog(err)

	assert.Equal(t, "ERR_203_FILE_WRITE", attrs["error_code"])
	assert.Equal(t, "/tmp/out.gz", attrs["detail_path"])
}

func TestFormatForLog_PlainError(t *testing.T) {
	attrs := FormatForLog(errors.New("plain"))
	assert.Equal(t, "plain", attrs["error"])
}

func TestFormat_NilError(t *testing.T) {
	assert.Equal(t, "", FormatForCLI(nil))
	assert.Nil(t, FormatForLog(nil))
}
