package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainReporter outputs plain text progress, one line per event.
type PlainReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
}

// NewPlainReporter creates a plain text reporter.
func NewPlainReporter(cfg Config) *PlainReporter {
	return &PlainReporter{
		out:    cfg.Output,
		styles: GetStyles(cfg.NoColor),
	}
}

// Progress implements Reporter.
func (r *PlainReporter) Progress(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := event.Message
	if msg == "" {
		msg = event.File
	}

	stage := r.styles.Label.Render(fmt.Sprintf("[%s]", event.Stage))
	if event.Total > 0 {
		_, _ = fmt.Fprintf(r.out, "%s %d/%d %s\n", stage, event.Current, event.Total, msg)
	} else if msg != "" {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", stage, msg)
	}
}

// Warn implements Reporter.
func (r *PlainReporter) Warn(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.Warning.Render("WARN:"), message)
}

// Complete implements Reporter.
func (r *PlainReporter) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := fmt.Sprintf("Complete: %d files (%s compressed) in %s",
		stats.Files,
		humanize.IBytes(uint64(stats.CompressedBytes)),
		stats.Duration.Round(100*time.Millisecond))

	if stats.Warnings > 0 {
		line += fmt.Sprintf(" (%d warnings)", stats.Warnings)
	}

	_, _ = fmt.Fprintln(r.out, r.styles.Success.Render(line))

	if stats.ManifestPath != "" {
		_, _ = fmt.Fprintf(r.out, "Manifest: %s\n", stats.ManifestPath)
	}
}
