// Package main is the entry point for the taskledger API server, a
// multi-user task tracker with ownership-aware access control, an
// append-only audit trail and a concurrent dashboard aggregator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/taskledger/taskledger-api/internal/config"
	"github.com/taskledger/taskledger-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run database migrations (up, down, status, version, create) instead of the server",
	)
	migrationName := flag.String("migration-name", "", "Name for a new migration (with -migrate create)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd, *migrationName); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	if err := run(cfg, appLogger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run wires the application together and serves until shutdown.
func run(cfg *config.Config, appLogger *slog.Logger) error {
	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
