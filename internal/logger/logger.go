// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// It wraps zerolog to provide level-based filtering with either human-readable console
// output or structured JSON output.
package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// Global logger instance
	defaultLogger zerolog.Logger
	initialized   bool
)

// Init initializes the default logger with the specified level and format.
// Level is one of "debug", "info", "warn", "error" (unknown values fall back
// to "info"). Format "text" produces console output; anything else produces JSON.
func Init(level string, format string) {
	var l zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = zerolog.DebugLevel
	case "info":
		l = zerolog.InfoLevel
	case "warn":
		l = zerolog.WarnLevel
	case "error":
		l = zerolog.ErrorLevel
	default:
		l = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.ToLower(format) == "text" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	defaultLogger = logger.Level(l).With().Timestamp().Logger()
	initialized = true
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Debug().Msgf(format, args...)
	}
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Info().Msgf(format, args...)
	}
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Warn().Msgf(format, args...)
	}
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Error().Msgf(format, args...)
	}
}

// Fatal logs a message and exits
func Fatal(format string, args ...interface{}) {
	if initialized {
		defaultLogger.Fatal().Msgf(format, args...)
		return
	}
	fallback := zerolog.New(os.Stderr)
	fallback.Fatal().Msgf(format, args...)
}
