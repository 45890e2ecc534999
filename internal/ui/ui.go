// Package ui renders human-readable progress for packaging runs. Output is
// line-oriented so it behaves in CI and pipes; color is applied only when
// writing to a terminal.
package ui

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Stage identifies a packaging pipeline stage for progress display.
type Stage string

const (
	StageCompress Stage = "COMPRESS"
	StageChecksum Stage = "CHECKSUM"
	StageSplit    Stage = "SPLIT"
	StageManifest Stage = "MANIFEST"
	StageCleanup  Stage = "CLEANUP"
)

// Event is one progress update from the pipeline.
type Event struct {
	Stage   Stage
	File    string
	Message string
	Current int
	Total   int
}

// CompletionStats summarizes a finished run.
type CompletionStats struct {
	Files           int
	CompressedBytes int64
	ManifestPath    string
	Duration        time.Duration
	Warnings        int
}

// Reporter receives progress events from the pipeline.
type Reporter interface {
	Progress(event Event)
	Warn(message string)
	Complete(stats CompletionStats)
}

// Config configures a reporter.
type Config struct {
	Output  io.Writer
	NoColor bool
}

// Option customizes a Config.
type Option func(*Config)

// WithNoColor forces colorless output.
func WithNoColor(noColor bool) Option {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// NewConfig builds a reporter config, enabling color only when out is a
// terminal and NO_COLOR is unset.
func NewConfig(out io.Writer, opts ...Option) Config {
	cfg := Config{
		Output:  out,
		NoColor: !isTerminal(out) || os.Getenv("NO_COLOR") != "",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Progress(Event) {}

func (NopReporter) Warn(string) {}

func (NopReporter) Complete(CompletionStats) {}
