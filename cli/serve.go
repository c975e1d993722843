// Package cli wires configuration, the upstream client, and the protocol
// server into a runnable command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/richinex/gemini-mcp/config"
	"github.com/richinex/gemini-mcp/gemini"
	"github.com/richinex/gemini-mcp/mcp"
	"github.com/richinex/gemini-mcp/tools"
)

// Options configures a server run.
type Options struct {
	Version string
}

// Serve reads settings from the environment and serves the protocol over
// stdin/stdout until EOF or cancellation. Stdout carries protocol traffic
// only; all logging goes to stderr.
func Serve(ctx context.Context, opts Options) error {
	settings := config.New()
	logger := newLogger(settings.LogLevel)

	var client *gemini.Client
	if settings.Configured() {
		var err error
		client, err = gemini.NewClient(ctx, settings.APIKey, settings.Models)
		if err != nil {
			return fmt.Errorf("failed to create upstream client: %w", err)
		}
	} else {
		logger.Warn("no API key configured; advertising setup tool only", "env", config.EnvAPIKey)
	}

	registry := tools.NewRegistry(client, settings, logger)
	server := mcp.NewServer(registry, logger, opts.Version, os.Stdin, os.Stdout)

	logger.Info("serving", "version", opts.Version, "configured", settings.Configured())
	return server.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
