// Package logging provides structured file-based logging for the
// lean-explore packaging tools, with size-based rotation and an optional
// stderr mirror for interactive runs.
package logging
