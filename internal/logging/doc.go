// Package logging assembles structured slog loggers and formatting helpers used
// across clipforge.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so assembly code can tag log
// lines with the project, tier and render correlation ID. Recoverable
// failures (skipped clips, omitted captions, dropped music) go through
// WarnWithContext so each one carries an event type, a hint and its impact.
package logging
