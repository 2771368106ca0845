package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/domain/srs"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/session"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// Config tunes a ReviewService. Zero values fall back to the domain defaults.
type Config struct {
	DailyGoal        int
	MasteryThreshold int
	DueLimit         int
	IdleTimeout      time.Duration
}

// DefaultIdleTimeout is how long an untouched session is kept by default.
const DefaultIdleTimeout = 30 * time.Minute

// Option configures a ReviewService.
type Option func(*ReviewService)

// WithClock sets the clock used for sessions and progress summaries.
func WithClock(c clock.Clock) Option {
	return func(s *ReviewService) { s.clock = c }
}

// WithOrdererFactory sets how shuffled sessions order their words. The
// factory is called once per session. Due sessions always use
// session.DueDateOrderer.
func WithOrdererFactory(f func() session.Orderer) Option {
	return func(s *ReviewService) { s.newOrderer = f }
}

// ReviewService implements Service.
type ReviewService struct {
	progress  store.ProgressStore
	lists     store.ListStore
	scheduler srs.Service
	persister session.Persister
	cfg       Config

	clock      clock.Clock
	newOrderer func() session.Orderer
	logger     *slog.Logger

	sessions *registry
}

var _ Service = (*ReviewService)(nil)

// NewReviewService creates a review service.
func NewReviewService(
	progress store.ProgressStore,
	lists store.ListStore,
	scheduler srs.Service,
	persister session.Persister,
	cfg Config,
	log *slog.Logger,
	opts ...Option,
) *ReviewService {
	if progress == nil {
		panic("progress cannot be nil") // ALLOW-PANIC
	}
	if lists == nil {
		panic("lists cannot be nil") // ALLOW-PANIC
	}
	if scheduler == nil {
		panic("scheduler cannot be nil") // ALLOW-PANIC
	}
	if persister == nil {
		panic("persister cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		log = slog.Default()
	}

	if cfg.DailyGoal <= 0 {
		cfg.DailyGoal = domain.DefaultDailyGoal
	}
	if cfg.MasteryThreshold <= 0 {
		cfg.MasteryThreshold = domain.DefaultMasteryThreshold
	}
	if cfg.DueLimit <= 0 {
		cfg.DueLimit = store.DefaultDueLimit
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	s := &ReviewService{
		progress:  progress,
		lists:     lists,
		scheduler: scheduler,
		persister: persister,
		cfg:       cfg,
		clock:     clock.System(),
		logger:    log.With(slog.String("component", "review_service")),
		sessions:  newRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newOrderer == nil {
		s.newOrderer = func() session.Orderer {
			return session.NewRandomOrderer(uint64(time.Now().UnixNano()))
		}
	}
	return s
}

// StartSession implements Service.StartSession.
func (s *ReviewService) StartSession(
	ctx context.Context,
	userID, listID uuid.UUID,
	mode session.Mode,
) (*session.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !mode.Valid() {
		return nil, session.ErrInvalidMode
	}

	items, err := s.progress.FetchReviewItems(ctx, userID, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			log.Debug("list not found for session",
				slog.String("user_id", userID.String()),
				slog.String("list_id", listID.String()))
			return nil, err
		}
		log.Error("failed to load review items",
			slog.String("list_id", listID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("start_session", "failed to load review items", err)
	}

	return s.start(ctx, userID, items, mode, s.newOrderer())
}

// StartDueSession implements Service.StartDueSession.
func (s *ReviewService) StartDueSession(
	ctx context.Context,
	userID uuid.UUID,
	mode session.Mode,
) (*session.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !mode.Valid() {
		return nil, session.ErrInvalidMode
	}

	items, err := s.progress.FetchDueItems(ctx, userID, s.clock.Now(), s.cfg.DueLimit)
	if err != nil {
		log.Error("failed to load due items",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("start_due_session", "failed to load due items", err)
	}
	if len(items) == 0 {
		return nil, ErrNothingDue
	}

	return s.start(ctx, userID, items, mode, session.DueDateOrderer{})
}

func (s *ReviewService) start(
	ctx context.Context,
	userID uuid.UUID,
	items []domain.ReviewItem,
	mode session.Mode,
	orderer session.Orderer,
) (*session.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sess := session.New(userID, s.scheduler, s.persister,
		session.WithClock(s.clock),
		session.WithOrderer(orderer),
		session.WithLogger(s.logger),
	)
	if err := sess.Start(items, mode); err != nil {
		return nil, err
	}
	s.sessions.put(sess, s.clock.Now())

	log.Debug("registered review session",
		slog.String("session_id", sess.ID().String()),
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
		slog.Int("words", len(items)))

	snap := sess.Snapshot()
	return &snap, nil
}

// lookup returns the caller's live session.
func (s *ReviewService) lookup(userID, sessionID uuid.UUID) (*session.Session, error) {
	sess, ok := s.sessions.get(sessionID, s.clock.Now())
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID() != userID {
		return nil, ErrSessionNotOwned
	}
	return sess, nil
}

// GetSession implements Service.GetSession.
func (s *ReviewService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

// SubmitJudgment implements Service.SubmitJudgment.
func (s *ReviewService) SubmitJudgment(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	j session.Judgment,
) (*SubmitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}

	sub, err := sess.SubmitJudgment(ctx, j)
	if err != nil {
		log.Debug("judgment rejected",
			slog.String("session_id", sessionID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	return &SubmitResult{Submission: sub, Session: sess.Snapshot()}, nil
}

// Advance implements Service.Advance.
func (s *ReviewService) Advance(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	dir session.Direction,
) (*session.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Advance(dir); err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

// ResetSession implements Service.ResetSession.
func (s *ReviewService) ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error) {
	sess, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(); err != nil {
		return nil, err
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("review session reset",
		slog.String("session_id", sessionID.String()))
	snap := sess.Snapshot()
	return &snap, nil
}

// EndSession implements Service.EndSession.
func (s *ReviewService) EndSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	s.sessions.remove(sessionID)
	logger.FromContextOrDefault(ctx, s.logger).Info("review session ended",
		slog.String("session_id", sessionID.String()))
	return nil
}

// Overview implements Service.Overview.
func (s *ReviewService) Overview(ctx context.Context, userID uuid.UUID) (*domain.Overview, error) {
	records, err := s.progress.ListProgress(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load progress",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("overview", "failed to load progress", err)
	}

	ov := domain.ComputeOverview(records, s.clock.Now(), s.cfg.DailyGoal, s.cfg.MasteryThreshold)
	return &ov, nil
}

// Lists implements Service.Lists.
func (s *ReviewService) Lists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("lists", "failed to load lists", err)
	}
	return lists, nil
}

// SuggestedLists implements Service.SuggestedLists.
func (s *ReviewService) SuggestedLists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	lists, err := s.lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceError("suggested_lists", "failed to load lists", err)
	}
	records, err := s.progress.ListProgress(ctx, userID)
	if err != nil {
		return nil, NewServiceError("suggested_lists", "failed to load progress", err)
	}
	return domain.SuggestLists(lists, records, domain.DefaultSuggestedLists), nil
}

// CreateList implements Service.CreateList.
func (s *ReviewService) CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error {
	if err := s.lists.CreateList(ctx, list, words); err != nil {
		if store.IsDuplicateError(err) || errors.Is(err, store.ErrInvalidEntity) {
			return err
		}
		return NewServiceError("create_list", "failed to create list", err)
	}
	return nil
}

// EvictIdle drops sessions untouched for longer than the idle timeout and
// returns how many were dropped.
func (s *ReviewService) EvictIdle() int {
	evicted := s.sessions.evictIdle(s.clock.Now().Add(-s.cfg.IdleTimeout))
	for _, id := range evicted {
		s.logger.Debug("evicted idle session", slog.String("session_id", id.String()))
	}
	return len(evicted)
}

// ActiveSessions returns the number of live sessions.
func (s *ReviewService) ActiveSessions() int {
	return s.sessions.len()
}
