package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vocab-srs/internal/config"
	"github.com/phrazzld/vocab-srs/internal/platform/migrations"
	"github.com/phrazzld/vocab-srs/internal/platform/postgres"
	"github.com/phrazzld/vocab-srs/internal/platform/sqlite"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// Supported values of database.driver.
const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// database bundles an open connection with the stores built on it.
type database struct {
	driver     string
	db         *sql.DB
	progress   store.ProgressStore
	lists      store.ListStore
	migrations migrations.Source
}

// openDatabase connects to the backend selected by cfg.Driver and builds its
// stores. Migrations are not applied.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database, error) {
	switch cfg.Driver {
	case driverPostgres:
		xdb, err := postgres.Open(ctx, cfg.URL, logger)
		if err != nil {
			return nil, err
		}
		return &database{
			driver:     driverPostgres,
			db:         xdb.DB,
			progress:   postgres.NewPostgresProgressStore(xdb, logger),
			lists:      postgres.NewPostgresListStore(xdb, logger),
			migrations: postgres.Migrations(),
		}, nil

	case driverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", slog.String("driver", sqlite.DriverName))
		return &database{
			driver:     driverSQLite,
			db:         db,
			progress:   sqlite.NewSQLiteProgressStore(db, logger),
			lists:      sqlite.NewSQLiteListStore(db, logger),
			migrations: sqlite.Migrations(),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// migrator returns a migration runner for the database.
func (d *database) migrator(logger *slog.Logger) (*migrations.Runner, error) {
	return migrations.NewRunner(d.db, d.migrations, logger)
}

// migrateUp applies every pending migration.
func (d *database) migrateUp(ctx context.Context, logger *slog.Logger) error {
	runner, err := d.migrator(logger)
	if err != nil {
		return err
	}
	if err := runner.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// PingContext implements api.Pinger.
func (d *database) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (d *database) Close() error {
	return d.db.Close()
}
