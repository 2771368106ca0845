package review

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper periodically evicts idle sessions from a ReviewService.
type Sweeper struct {
	scheduler *gocron.Scheduler
	service   *ReviewService
	interval  int
	logger    *slog.Logger
}

// NewSweeper creates a sweeper that runs every intervalMinutes.
func NewSweeper(svc *ReviewService, intervalMinutes int, logger *slog.Logger) *Sweeper {
	if svc == nil {
		panic("svc cannot be nil") // ALLOW-PANIC
	}
	if intervalMinutes <= 0 {
		intervalMinutes = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   svc,
		interval:  intervalMinutes,
		logger:    logger.With(slog.String("component", "session_sweeper")),
	}
}

// Start schedules the sweep and returns immediately. The first sweep runs
// right away.
func (s *Sweeper) Start() error {
	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(s.interval).Minutes().Do(s.sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("session sweeper started", slog.Int("interval_minutes", s.interval))
	return nil
}

// Stop terminates the scheduled sweep.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
	s.logger.Info("session sweeper stopped")
}

func (s *Sweeper) sweep() {
	if n := s.service.EvictIdle(); n > 0 {
		s.logger.Info("evicted idle sessions", slog.Int("count", n))
	}
}
