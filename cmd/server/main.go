// Package main is the entry point for the SehYaatri feedback API.
//
// main stays small: read config, build the logger, hand both to
// internal/server, and exit non-zero on any startup failure.
package main

import (
	"log/slog"
	"os"

	"github.com/sehyaatri/sehyaatri/internal/config"
	"github.com/sehyaatri/sehyaatri/internal/server"
)

func main() {
	// Bootstrap logger until LOG_LEVEL is known.
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if cfg.InsecureSecret() {
		logger.Warn("JWT_SECRET not set, using the development default; set it before deploying")
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
