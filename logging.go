package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// setupLogger installs a JSON logger writing to the configured file. The
// terminal belongs to the canvas, so nothing is logged to stdout.
func setupLogger(cfg *AppConfig) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger, file, nil
}
