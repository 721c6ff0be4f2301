// Package logger builds the application's slog logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"trafficlens/internal/config"
)

// New creates a logger for the given configuration. Development and test
// environments log human-readable text to stdout; production logs JSON to a
// size-rotated file and stdout.
func New(cfg *config.Config) *slog.Logger {
	level := parseLevel(cfg.GetLogLevel())

	if !cfg.IsProduction() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	rotated := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.GetLogDirectory(), cfg.GetAppName()+".log"),
		MaxSize:    cfg.GetLogMaxSizeMB(),
		MaxBackups: cfg.GetLogMaxBackups(),
		MaxAge:     cfg.GetLogMaxAgeDays(),
		Compress:   true,
	}
	out := io.MultiWriter(os.Stdout, rotated)
	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}

func parseLevel(level string) slog.Level {
	switch level {
	case string(config.LogLevelDebug):
		return slog.LevelDebug
	case string(config.LogLevelWarn):
		return slog.LevelWarn
	case string(config.LogLevelError):
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
