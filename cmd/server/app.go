package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/vocab-srs/internal/api"
	"github.com/phrazzld/vocab-srs/internal/config"
	"github.com/phrazzld/vocab-srs/internal/domain/srs"
	"github.com/phrazzld/vocab-srs/internal/service/auth"
	"github.com/phrazzld/vocab-srs/internal/service/review"
	"github.com/phrazzld/vocab-srs/internal/task"
)

// application holds the shared dependencies of the server so they can be
// closed in order on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database

	tokens    auth.JWTService
	persister *task.AsyncPersister
	reviews   *review.ReviewService
	sweeper   *review.Sweeper
}

// newApplication opens the database, applies migrations and wires the
// services. The sweeper is created but not started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	app, err := wireApplication(cfg, logger, db)
	if err == nil {
		err = db.migrateUp(ctx, logger)
	}
	if err != nil {
		if app != nil {
			_ = app.persister.Close(ctx)
		}
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func wireApplication(cfg *config.Config, logger *slog.Logger, db *database) (*application, error) {
	tokens, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	params := srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:     cfg.Review.MinEaseFactor,
		InitialEaseFactor: cfg.Review.InitialEaseFactor,
		MasteryThreshold:  cfg.Review.MasteryThreshold,
	})
	scheduler, err := srs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	persister := task.NewAsyncPersister(db.progress, task.PersisterConfig{
		Workers:      cfg.Review.PersistWorkers,
		QueueSize:    cfg.Review.PersistQueueSize,
		WriteTimeout: cfg.Review.PersistTimeout,
	}, logger)

	reviews := review.NewReviewService(db.progress, db.lists, scheduler, persister, review.Config{
		DailyGoal:        cfg.Review.DailyGoal,
		MasteryThreshold: cfg.Review.MasteryThreshold,
		DueLimit:         cfg.Review.DueLimit,
		IdleTimeout:      cfg.Review.SessionIdleTimeout,
	}, logger)

	logger.Info("review service initialized",
		slog.Int("persist_workers", cfg.Review.PersistWorkers),
		slog.Duration("session_idle_timeout", cfg.Review.SessionIdleTimeout))

	return &application{
		config:    cfg,
		logger:    logger,
		db:        db,
		tokens:    tokens,
		persister: persister,
		reviews:   reviews,
		sweeper:   review.NewSweeper(reviews, cfg.Review.SweepIntervalMinutes, logger),
	}, nil
}

// router builds the HTTP handler for the application.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Reviews:        app.reviews,
		Tokens:         app.tokens,
		DB:             app.db,
		Logger:         app.logger,
		RateLimitRPS:   app.config.Server.RateLimitRPS,
		RateLimitBurst: app.config.Server.RateLimitBurst,
	})
}

// cleanup stops background work, drains pending schedule writes and closes
// the database, in that order.
func (app *application) cleanup(ctx context.Context) error {
	app.sweeper.Stop()

	var errs []error
	if err := app.persister.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to drain schedule writes: %w", err))
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	return errors.Join(errs...)
}
