// Package main is the entry point for the code generation backend.
//
// The main package stays minimal — its job is to:
//  1. Load configuration (a .env file if present, then environment variables)
//  2. Create dependencies (logger, Gemini client)
//  3. Hand them to internal/server and start
//
// All actual logic lives in imported packages; main only wires and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mhasan/codepilot/internal/config"
	"github.com/mhasan/codepilot/internal/provider"
	"github.com/mhasan/codepilot/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// A .env file is a development convenience; in production the variables
	// come from the real environment, so a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the database directory exists (like `mkdir -p`); harmless for
	// the ":memory:" path used in tests since Dir returns ".".
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// The Gemini client is built here, not inside the server, so the server
	// package only ever sees the Generator interface.
	gen, err := provider.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create generation client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger, gen)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
