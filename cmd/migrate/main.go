// Command migrate applies the embedded schema migrations to DATABASE_URL:
//
//	go run ./cmd/migrate
package main

import (
	"context"
	"os"
	"time"

	"growth-intel/internal/shared/config"
	"growth-intel/internal/shared/storage/db"
	"growth-intel/internal/shared/telemetry"
)

const migrateTimeout = 2 * time.Minute

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		telemetry.Error("migrate.connect", map[string]any{"error": err})
		return 1
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		return 1
	}
	return 0
}
