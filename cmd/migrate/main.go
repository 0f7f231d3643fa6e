package main

// Run database migrations for the SQL-backed media:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"cvai-core/internal/shared/config"
	"cvai-core/internal/shared/storage/db"
	"cvai-core/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var err error
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		err = migratePostgres(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		err = migrateSQLite(ctx, cfg.SQLitePath)
	default:
		telemetry.Info("migrate.skipped", map[string]any{"storage": cfg.StorageBackend})
		return
	}
	if err != nil {
		telemetry.Error("migrate.failed", map[string]any{"storage": cfg.StorageBackend, "error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"storage": cfg.StorageBackend})
}

func migratePostgres(ctx context.Context, url string) error {
	sqlDB, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.RunMigrations(ctx, sqlDB, db.DriverPostgres)
}

func migrateSQLite(ctx context.Context, path string) error {
	sqlDB, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return db.RunMigrations(ctx, sqlDB, db.DriverSQLite)
}
