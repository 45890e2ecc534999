package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestReporter() (*PlainReporter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewPlainReporter(NewConfig(buf, WithNoColor(true))), buf
}

func TestPlainReporter_ProgressWithCounter(t *testing.T) {
	r, buf := newTestReporter()

	r.Progress(Event{
		Stage:   StageCompress,
		File:    "lean_explore_data.db",
		Current: 1,
		Total:   3,
	})

	assert.Equal(t, "[COMPRESS] 1/3 lean_explore_data.db\n", buf.String())
}

func TestPlainReporter_ProgressWithMessageOnly(t *testing.T) {
	r, buf := newTestReporter()

	r.Progress(Event{Stage: StageCleanup, Message: "removing temporary artifacts"})

	assert.Equal(t, "[CLEANUP] removing temporary artifacts\n", buf.String())
}

func TestPlainReporter_Warn(t *testing.T) {
	r, buf := newTestReporter()

	r.Warn("part sizes do not add up")

	assert.Equal(t, "WARN: part sizes do not add up\n", buf.String())
}

func TestPlainReporter_Complete(t *testing.T) {
	r, buf := newTestReporter()

	r.Complete(CompletionStats{
		Files:           3,
		CompressedBytes: 2 << 20,
		ManifestPath:    "/out/manifest.json",
		Duration:        1200 * time.Millisecond,
		Warnings:        1,
	})

	out := buf.String()
	assert.Contains(t, out, "Complete: 3 files")
	assert.Contains(t, out, "(1 warnings)")
	assert.Contains(t, out, "Manifest: /out/manifest.json")
}

func TestNewConfig_NonTerminalDisablesColor(t *testing.T) {
	cfg := NewConfig(&bytes.Buffer{})
	assert.True(t, cfg.NoColor)
}
