// Command sehyaatri is the terminal client for the SehYaatri feedback API.
//
// Environment:
//
//	SEHYAATRI_API        base URL of the API (default http://localhost:5175)
//	SEHYAATRI_STATE      path of the client state file (default under the user config dir)
//	SEHYAATRI_LOG_LEVEL  debug, info, warn or error (default warn)
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sehyaatri/sehyaatri/internal/cli"
	"github.com/sehyaatri/sehyaatri/internal/client"
	"github.com/sehyaatri/sehyaatri/internal/client/state"
)

const defaultAPI = "http://localhost:5175"

func main() {
	level := slog.LevelWarn
	if v := os.Getenv("SEHYAATRI_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelWarn
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	baseURL := os.Getenv("SEHYAATRI_API")
	if baseURL == "" {
		baseURL = defaultAPI
	}

	statePath := os.Getenv("SEHYAATRI_STATE")
	if statePath == "" {
		p, err := state.DefaultPath()
		if err != nil {
			logger.Error("cannot locate state file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		statePath = p
	}

	app, err := cli.NewApp(client.New(baseURL), state.NewStore(statePath), os.Stdin, os.Stdout, logger)
	if err != nil {
		logger.Error("failed to start", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		logger.Error("command failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}
