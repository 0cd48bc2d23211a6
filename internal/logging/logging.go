// Package logging configures zerolog for the solver CLI: a pretty
// console writer for interactive use, or newline-delimited JSON when the
// caller wants machine-readable output (piped into a log aggregator, or
// captured by a training supervisor process).
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures zerolog with pretty console output for a TTY-attended
// run. debug raises the level to Debug; otherwise Info.
func Setup(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// SetupJSON configures zerolog for structured JSON output, used when
// --json-logs is passed so training progress can be scraped by another
// process rather than read on a terminal.
func SetupJSON(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Logger()
}
