// Package logging assembles structured slog loggers and formatting helpers used
// across s7forge.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so fetch code automatically tags log lines with
// the command, Steam app id, and correlation id of the invocation. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Output defaults to stderr: stdout belongs to the JSON the CLI prints.
package logging
