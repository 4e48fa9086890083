package main

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// SetupLogging configures colored structured logging via tint at the level
// specified by the LOG_LEVEL environment variable (default: INFO).
// Only the web server and export paths log; the tax engine itself is pure.
func SetupLogging() {
	SetupLoggingWithLevel(logLevelFromEnv())
}

// SetupLoggingWithLevel configures colored logging at the given level.
func SetupLoggingWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

// logLevelFromEnv reads LOG_LEVEL: debug, info, warn, error.
func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
