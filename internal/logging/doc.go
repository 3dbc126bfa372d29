// Package logging assembles the structured slog loggers used across the
// pipeline stages and external-tool clients.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes context-aware helpers so stage code can automatically tag log lines
// with the input source, stage name, and correlation ID. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
