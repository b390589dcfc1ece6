// Package main is the entry point for the blog API server.
//
// main only reads configuration, builds the logger, opens the store and
// starts the server. All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/blog-api/internal/config"
	"github.com/sakif/blog-api/internal/logging"
	sqliteRepo "github.com/sakif/blog-api/internal/repository/sqlite"
	"github.com/sakif/blog-api/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		slog.Error("failed to create logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// === 3. DATABASE ===
	// The SQLite file's directory is created on first start (like `mkdir -p`).
	if cfg.DBDriver == config.DriverSQLite && cfg.DBPath != sqliteRepo.MemoryPath {
		dbDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	store, err := server.OpenStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open database",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 4. CREATE AND START THE SERVER ===
	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	// and closes the store on the way out.
	srv := server.New(cfg, store, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
