package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

// Supported commands.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned for a command outside the supported set.
var ErrUnknownCommand = errors.New("unknown migration command")

// Source describes the migrations of one storage backend.
type Source struct {
	Dialect goose.Dialect
	FS      fs.FS
}

// Runner applies the migrations of a Source to a database.
type Runner struct {
	provider *goose.Provider
	logger   *slog.Logger
}

// NewRunner builds a runner for db. If logger is nil the default logger is used.
func NewRunner(db *sql.DB, src Source, logger *slog.Logger) (*Runner, error) {
	if db == nil {
		return nil, errors.New("migrations: db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := goose.NewProvider(src.Dialect, db, src.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{
		provider: provider,
		logger: logger.With(
			slog.String("component", "migrations"),
			slog.String("dialect", string(src.Dialect)),
		),
	}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) error {
	start := time.Now()
	results, err := r.provider.Up(ctx)
	r.logResults(results)
	if err != nil {
		r.logger.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	r.logger.Info("migrations applied",
		slog.Int("count", len(results)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Down rolls back the most recent migration.
func (r *Runner) Down(ctx context.Context) error {
	result, err := r.provider.Down(ctx)
	if result != nil {
		r.logResults([]*goose.MigrationResult{result})
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Reset rolls back every applied migration.
func (r *Runner) Reset(ctx context.Context) error {
	results, err := r.provider.DownTo(ctx, 0)
	r.logResults(results)
	if err != nil {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	return nil
}

// Version returns the current schema version, 0 when nothing is applied.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	v, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Status logs the state of every known migration and returns them.
func (r *Runner) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	for _, st := range statuses {
		r.logger.Info("migration status",
			slog.Int64("version", st.Source.Version),
			slog.String("path", st.Source.Path),
			slog.String("state", string(st.State)))
	}
	return statuses, nil
}

// Run executes one of the supported commands by name.
func (r *Runner) Run(ctx context.Context, command string) error {
	switch command {
	case CommandUp:
		return r.Up(ctx)
	case CommandDown:
		return r.Down(ctx)
	case CommandReset:
		return r.Reset(ctx)
	case CommandStatus:
		_, err := r.Status(ctx)
		return err
	case CommandVersion:
		v, err := r.Version(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("current schema version", slog.Int64("version", v))
		return nil
	default:
		return fmt.Errorf("%w: %q (expected up, down, reset, status or version)", ErrUnknownCommand, command)
	}
}

func (r *Runner) logResults(results []*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		attrs := []any{
			slog.Int64("version", res.Source.Version),
			slog.String("direction", res.Direction),
			slog.Duration("duration", res.Duration),
		}
		if res.Error != nil {
			r.logger.Error("migration step failed", append(attrs, slog.String("error", res.Error.Error()))...)
			continue
		}
		r.logger.Debug("migration step applied", attrs...)
	}
}
