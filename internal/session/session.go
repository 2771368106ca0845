package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/domain/srs"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/task"
)

// Persister stores a schedule state without blocking the caller. The
// returned Future reports the outcome of the write.
type Persister interface {
	Persist(ctx context.Context, userID, wordID uuid.UUID, state domain.ScheduleState) *task.Future
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to stamp reviews. Defaults to clock.System().
func WithClock(c clock.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithOrderer sets how the queue is arranged on Start and Reset. Defaults to
// a time-seeded RandomOrderer.
func WithOrderer(o Orderer) Option {
	return func(s *Session) { s.orderer = o }
}

// WithLogger sets the session's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithID sets the session ID. Defaults to a random UUID.
func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Submission describes the effect of one accepted judgment.
type Submission struct {
	WordID   uuid.UUID
	Judgment Judgment
	// Schedule is the locally computed state; the session never reads it back
	// from storage.
	Schedule domain.ScheduleState
	// Persisted resolves when the storage write finishes.
	Persisted *task.Future
	// Completed is true when this judgment finished the session, in which case
	// Score is set.
	Completed bool
	Score     *Score
}

// Persistence summarizes the storage writes a session has issued.
type Persistence struct {
	Issued    int
	Pending   int
	Failed    int
	LastError error
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	State      State
	Mode       Mode
	Index      int
	Total      int
	Current    *domain.ReviewItem
	Judgments  []Judgment
	Aggregates Aggregates
	Score      *Score
	StartedAt  time.Time
	Persist    Persistence
}

// Session drives one reviewer through a queue of words. It walks
// AwaitingListSelection -> InProgress -> Completed, feeding every judgment
// to the scheduler and handing the new state to the Persister.
//
// All methods are safe for concurrent use. Judgments are processed one at
// a time; a judgment arriving while another is in flight is rejected with
// ErrSubmissionInFlight.
type Session struct {
	id        uuid.UUID
	userID    uuid.UUID
	scheduler srs.Service
	persister Persister
	clock     clock.Clock
	orderer   Orderer
	logger    *slog.Logger

	submitting atomic.Bool

	mu        sync.Mutex
	state     State
	mode      Mode
	items     []domain.ReviewItem
	index     int
	judgments []Judgment
	judged    map[uuid.UUID]struct{}
	score     *Score
	startedAt time.Time
	writes    []*task.Future
}

// New creates a session for userID waiting for a list to be selected.
func New(userID uuid.UUID, scheduler srs.Service, persister Persister, opts ...Option) *Session {
	if scheduler == nil {
		panic("scheduler cannot be nil") // ALLOW-PANIC
	}
	if persister == nil {
		panic("persister cannot be nil") // ALLOW-PANIC
	}

	s := &Session{
		id:        uuid.New(),
		userID:    userID,
		scheduler: scheduler,
		persister: persister,
		clock:     clock.System(),
		logger:    slog.Default(),
		state:     AwaitingListSelection,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orderer == nil {
		s.orderer = NewRandomOrderer(uint64(time.Now().UnixNano()))
	}
	s.logger = s.logger.With(
		slog.String("component", "review_session"),
		slog.String("session_id", s.id.String()),
	)

	return s
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// UserID returns the reviewer's identifier.
func (s *Session) UserID() uuid.UUID { return s.userID }

// Start begins reviewing items in mode. The items are copied and ordered;
// the caller's slice is not modified. Start may be called in any state and
// discards the previous queue. On ErrEmptyList nothing changes.
func (s *Session) Start(items []domain.ReviewItem, mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if len(items) == 0 {
		return ErrEmptyList
	}

	queue := make([]domain.ReviewItem, len(items))
	for i, item := range items {
		queue[i] = item.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orderer.Order(queue)
	s.items = queue
	s.mode = mode
	s.begin()

	s.logger.Info("review session started",
		slog.String("mode", string(mode)),
		slog.Int("items", len(queue)))

	return nil
}

// begin resets progress over the current queue. Callers hold s.mu.
func (s *Session) begin() {
	s.state = InProgress
	s.index = 0
	s.judgments = nil
	s.judged = make(map[uuid.UUID]struct{})
	s.score = nil
	s.startedAt = s.clock.Now()
}

// Advance moves to the neighboring card without judging the current one.
// It is only available in flashcard mode and does nothing at either end of
// the queue.
func (s *Session) Advance(dir Direction) error {
	if dir != Forward && dir != Backward {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return ErrNotInProgress
	}
	if s.mode != ModeFlashcards {
		return ErrWrongMode
	}

	next := s.index + int(dir)
	if next >= 0 && next < len(s.items) {
		s.index = next
	}
	return nil
}

// Next is Advance(Forward).
func (s *Session) Next() error { return s.Advance(Forward) }

// Previous is Advance(Backward).
func (s *Session) Previous() error { return s.Advance(Backward) }

// SubmitJudgment grades the current word and moves on.
//
// The scheduler computes the word's next state from its local state, the
// session keeps that state and hands it to the Persister, then advances.
// Judging the last word completes the session and produces the Score.
// Storage failures never undo any of this; they surface through
// Submission.Persisted and Snapshot().Persist.
//
// An invalid grade returns domain.ErrInvalidQuality and leaves the session
// untouched.
func (s *Session) SubmitJudgment(ctx context.Context, j Judgment) (*Submission, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	if err := j.Quality().Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != InProgress {
		return nil, ErrNotInProgress
	}

	item := &s.items[s.index]
	prior := s.scheduler.FreshState(s.userID, item.Word.ID)
	if item.Schedule != nil {
		prior = *item.Schedule
	}

	next, err := s.scheduler.ComputeNextSchedule(&prior, j.Quality(), s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute schedule for word %s: %w", item.Word.ID, err)
	}

	item.Schedule = next
	s.judgments = append(s.judgments, j)
	s.judged[item.Word.ID] = struct{}{}

	future := s.persister.Persist(ctx, s.userID, item.Word.ID, *next)
	s.writes = append(s.writes, future)

	sub := &Submission{
		WordID:    item.Word.ID,
		Judgment:  j,
		Schedule:  *next,
		Persisted: future,
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("judgment recorded",
		slog.String("word_id", item.Word.ID.String()),
		slog.Int("quality", int(j.Quality())),
		slog.Int("interval", next.Interval),
		slog.Int("position", s.index))

	if s.index == len(s.items)-1 {
		score := s.computeScore()
		s.score = &score
		s.state = Completed
		sub.Completed = true
		sub.Score = &score

		log.Info("review session completed",
			slog.Int("correct", score.Correct),
			slog.Int("total", score.Total),
			slog.Int("percentage", score.Percentage))
	} else {
		s.index++
	}

	return sub, nil
}

func (s *Session) computeScore() Score {
	correct := 0
	for _, j := range s.judgments {
		if j.Correct() {
			correct++
		}
	}
	return NewScore(correct, len(s.judgments))
}

// Reset restarts the session over the same words ("try again"): the queue
// is ordered again, the index returns to 0 and judgments are cleared.
// Nothing is written to storage, and words keep the states computed
// earlier in the session.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return ErrNoList
	}

	s.orderer.Order(s.items)
	s.begin()

	s.logger.Info("review session reset", slog.Int("items", len(s.items)))
	return nil
}

// ChangeList drops the current queue and waits for a new list.
func (s *Session) ChangeList() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = AwaitingListSelection
	s.mode = ""
	s.items = nil
	s.index = 0
	s.judgments = nil
	s.judged = nil
	s.score = nil
	s.startedAt = time.Time{}
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:         s.id,
		UserID:     s.userID,
		State:      s.state,
		Mode:       s.mode,
		Index:      s.index,
		Total:      len(s.items),
		Judgments:  append([]Judgment(nil), s.judgments...),
		Aggregates: s.aggregates(),
		StartedAt:  s.startedAt,
		Persist:    s.persistence(),
	}
	if s.state != AwaitingListSelection && s.index < len(s.items) {
		current := s.items[s.index].Clone()
		snap.Current = &current
	}
	if s.score != nil {
		score := *s.score
		snap.Score = &score
	}

	return snap
}

func (s *Session) aggregates() Aggregates {
	agg := Aggregates{Answered: len(s.judgments)}
	for _, j := range s.judgments {
		if j.Correct() {
			agg.Correct++
		}
	}
	for i := range s.items {
		if _, ok := s.judged[s.items[i].Word.ID]; !ok {
			continue
		}
		if s.scheduler.IsMastered(s.items[i].Schedule) {
			agg.Mastered++
		}
	}
	return agg
}

func (s *Session) persistence() Persistence {
	p := Persistence{Issued: len(s.writes)}
	for _, f := range s.writes {
		switch err := f.Err(); {
		case errors.Is(err, task.ErrPending):
			p.Pending++
		case err != nil:
			p.Failed++
			p.LastError = err
		}
	}
	return p
}

// WaitForWrites blocks until every write issued so far has finished or ctx
// ends, and returns the joined write errors.
func (s *Session) WaitForWrites(ctx context.Context) error {
	s.mu.Lock()
	writes := append([]*task.Future(nil), s.writes...)
	s.mu.Unlock()

	var errs []error
	for _, f := range writes {
		if err := f.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
