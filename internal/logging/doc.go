// Package logging assembles the structured slog loggers used by pxrd.
//
// It owns the console and JSON handlers, level parsing, and the fan-out that
// mirrors records to the persistent log file. Context helpers attach request
// identifiers so every line written while importing a file can be correlated.
// NewNop returns a logger for tests and wiring code that must not fail.
package logging
