package main

import (
	"io"
	"log/slog"

	"github.com/smokinadorabulls/kennel-cms/pkg/config"
)

// newLogger builds the process logger from the log_level and log_format
// settings and installs it as the slog default
func newLogger(cfg *config.KennelConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadConfig loads and validates the configuration
func loadConfig() (*config.KennelConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
