package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// =============================================================================
// Log file
// =============================================================================

// NewLogFile returns the size-rotated log file described by cfg. The file is
// opened on first write; its directory is created up front so a bad path
// fails at startup instead of on the first log line.
func NewLogFile(cfg LoggingConfig) (*lumberjack.Logger, error) {
	if dir := filepath.Dir(cfg.File); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("config: create log dir: %w", err)
		}
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}, nil
}

// =============================================================================
// ConfigureLogging
// =============================================================================

// ParseLevel maps a config level name to a slog level. Unknown names are INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ConfigureLogging installs a slog text handler as the default logger,
// writing to the rotating log file and, if enabled, stderr. Stdout is left
// to the Selfie table.
//
// Returns a cleanup function that should be called on shutdown.
func ConfigureLogging(cfg *Config) (cleanup func(), err error) {
	var writers []io.Writer
	var closers []io.Closer

	if cfg.Logging.File != "" {
		lf, lerr := NewLogFile(cfg.Logging)
		if lerr != nil {
			err = lerr
		} else {
			writers = append(writers, lf)
			closers = append(closers, lf)
		}
	}

	if cfg.Logging.Console || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	w := writers[0]
	if len(writers) > 1 {
		w = io.MultiWriter(writers...)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	cleanup = func() {
		for _, c := range closers {
			c.Close()
		}
	}
	return cleanup, err
}
