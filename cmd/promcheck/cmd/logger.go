package cmd

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// setupLogger creates the process logger. Logs always go to stderr,
// stdout is reserved for the check output.
func setupLogger(level string, format string) zerolog.Logger {
	return newLogger(os.Stderr, level, format)
}

func newLogger(w io.Writer, level string, format string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = w
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// resolveLogLevel lets an explicit --log-level override the configured level.
func resolveLogLevel(configured string) string {
	if GetLogLevel() != "info" {
		return GetLogLevel()
	}
	if configured == "" {
		return "info"
	}
	return configured
}
