package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// PostgresProgressStore implements store.ProgressStore using PostgreSQL.
type PostgresProgressStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
	clock  clock.Clock
}

// NewPostgresProgressStore creates a progress store. db may be a *sqlx.DB or
// a *sqlx.Tx. If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db sqlx.ExtContext, log *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: log.With(slog.String("component", "progress_store")),
		clock:  clock.System(),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithClock makes the store stamp missing timestamps from c.
func (s *PostgresProgressStore) WithClock(c clock.Clock) *PostgresProgressStore {
	s.clock = c
	return s
}

// scheduleRow mirrors a schedule_states row.
type scheduleRow struct {
	UserID         uuid.UUID    `db:"user_id"`
	WordID         uuid.UUID    `db:"word_id"`
	EaseFactor     float64      `db:"ease_factor"`
	Interval       int          `db:"interval_days"`
	Repetitions    int          `db:"repetitions"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	NextReviewAt   time.Time    `db:"next_review_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (r scheduleRow) toDomain() *domain.ScheduleState {
	st := &domain.ScheduleState{
		UserID:       r.UserID,
		WordID:       r.WordID,
		EaseFactor:   r.EaseFactor,
		Interval:     r.Interval,
		Repetitions:  r.Repetitions,
		NextReviewAt: r.NextReviewAt.UTC(),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.LastReviewedAt.Valid {
		st.LastReviewedAt = r.LastReviewedAt.Time.UTC()
	}
	return st
}

type progressRow struct {
	ListID uuid.UUID `db:"list_id"`
	scheduleRow
}

// reviewItemRow is a word left-joined with the reviewer's schedule state.
type reviewItemRow struct {
	WordID         uuid.UUID       `db:"word_id"`
	ListID         uuid.UUID       `db:"list_id"`
	Term           string          `db:"term"`
	Definition     string          `db:"definition"`
	PartOfSpeech   string          `db:"part_of_speech"`
	Example        string          `db:"example"`
	WordCreatedAt  time.Time       `db:"word_created_at"`
	EaseFactor     sql.NullFloat64 `db:"ease_factor"`
	Interval       sql.NullInt64   `db:"interval_days"`
	Repetitions    sql.NullInt64   `db:"repetitions"`
	LastReviewedAt sql.NullTime    `db:"last_reviewed_at"`
	NextReviewAt   sql.NullTime    `db:"next_review_at"`
	CreatedAt      sql.NullTime    `db:"created_at"`
	UpdatedAt      sql.NullTime    `db:"updated_at"`
}

func (r reviewItemRow) toDomain(userID uuid.UUID) domain.ReviewItem {
	item := domain.ReviewItem{
		Word: domain.Word{
			ID:           r.WordID,
			ListID:       r.ListID,
			Term:         r.Term,
			Definition:   r.Definition,
			PartOfSpeech: r.PartOfSpeech,
			Example:      r.Example,
			CreatedAt:    r.WordCreatedAt.UTC(),
		},
	}
	if !r.EaseFactor.Valid {
		return item
	}
	row := scheduleRow{
		UserID:         userID,
		WordID:         r.WordID,
		EaseFactor:     r.EaseFactor.Float64,
		Interval:       int(r.Interval.Int64),
		Repetitions:    int(r.Repetitions.Int64),
		LastReviewedAt: r.LastReviewedAt,
		NextReviewAt:   r.NextReviewAt.Time,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
	item.Schedule = row.toDomain()
	return item
}

var reviewItemColumns = []string{
	"w.id AS word_id", "w.list_id", "w.term", "w.definition", "w.part_of_speech", "w.example",
	"w.created_at AS word_created_at",
	"s.ease_factor", "s.interval_days", "s.repetitions",
	"s.last_reviewed_at", "s.next_review_at", "s.created_at", "s.updated_at",
}

var scheduleColumns = []string{
	"user_id", "word_id", "ease_factor", "interval_days", "repetitions",
	"last_reviewed_at", "next_review_at", "created_at", "updated_at",
}

// FetchReviewItems implements store.ItemSource.
func (s *PostgresProgressStore) FetchReviewItems(
	ctx context.Context,
	userID, listID uuid.UUID,
) ([]domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ownerQuery, ownerArgs, err := psql.
		Select("1").
		From("word_lists").
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list lookup: %w", err)
	}
	var one int
	if err := sqlx.GetContext(ctx, s.db, &one, ownerQuery, ownerArgs...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListNotFound
		}
		return nil, store.NewStoreError("word_list", "get", "failed to look up list", MapError(err))
	}

	query, args, err := psql.
		Select(reviewItemColumns...).
		From("words w").
		LeftJoin("schedule_states s ON s.word_id = w.id AND s.user_id = ?", userID).
		Where(sq.Eq{"w.list_id": listID}).
		OrderBy("w.term", "w.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build review items query: %w", err)
	}

	items, err := s.selectReviewItems(ctx, userID, query, args...)
	if err != nil {
		log.Error("failed to fetch review items",
			slog.String("list_id", listID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}

// FetchDueItems implements store.ItemSource.
func (s *PostgresProgressStore) FetchDueItems(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.ReviewItem, error) {
	if limit <= 0 {
		limit = store.DefaultDueLimit
	}

	query, args, err := psql.
		Select(reviewItemColumns...).
		From("schedule_states s").
		Join("words w ON w.id = s.word_id").
		Join("word_lists l ON l.id = w.list_id").
		Where(sq.Eq{"s.user_id": userID, "l.user_id": userID}).
		Where(sq.LtOrEq{"s.next_review_at": now.UTC()}).
		OrderBy("s.next_review_at", "w.term").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due items query: %w", err)
	}

	items, err := s.selectReviewItems(ctx, userID, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to fetch due items",
			slog.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}

// UpsertSchedule implements store.ScheduleWriter.
func (s *PostgresProgressStore) UpsertSchedule(
	ctx context.Context,
	userID, wordID uuid.UUID,
	state *domain.ScheduleState,
) (*domain.ScheduleState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if state == nil {
		return nil, fmt.Errorf("%w: nil schedule state", store.ErrInvalidEntity)
	}

	st := *state
	st.UserID = userID
	st.WordID = wordID
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := s.clock.Now()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	if st.UpdatedAt.IsZero() {
		st.UpdatedAt = now
	}
	last := sql.NullTime{Time: st.LastReviewedAt, Valid: !st.LastReviewedAt.IsZero()}

	query, args, err := psql.
		Insert("schedule_states").
		Columns(scheduleColumns...).
		Values(
			st.UserID, st.WordID, st.EaseFactor, st.Interval, st.Repetitions,
			last, st.NextReviewAt, st.CreatedAt, st.UpdatedAt,
		).
		Suffix(`ON CONFLICT (user_id, word_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			updated_at = EXCLUDED.updated_at
			RETURNING ` + strings.Join(scheduleColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert query: %w", err)
	}

	var row scheduleRow
	if err := sqlx.GetContext(ctx, s.db, &row, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to upsert schedule state",
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("schedule", "upsert", "failed to write schedule state", MapError(err))
	}

	log.Debug("upserted schedule state",
		slog.String("word_id", wordID.String()),
		slog.Int("interval", row.Interval),
		slog.Int("repetitions", row.Repetitions))
	return row.toDomain(), nil
}

// ListProgress implements store.ProgressStore.
func (s *PostgresProgressStore) ListProgress(ctx context.Context, userID uuid.UUID) ([]domain.ProgressRecord, error) {
	cols := []string{"w.list_id"}
	for _, c := range scheduleColumns {
		cols = append(cols, "s."+c)
	}
	query, args, err := psql.
		Select(cols...).
		From("schedule_states s").
		Join("words w ON w.id = s.word_id").
		Where(sq.Eq{"s.user_id": userID}).
		OrderBy("s.next_review_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build progress query: %w", err)
	}

	var rows []progressRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		return nil, store.NewStoreError("schedule", "list", "failed to query progress", MapError(err))
	}

	records := make([]domain.ProgressRecord, len(rows))
	for i, r := range rows {
		records[i] = domain.ProgressRecord{State: *r.toDomain(), ListID: r.ListID}
	}
	return records, nil
}

func (s *PostgresProgressStore) selectReviewItems(
	ctx context.Context,
	userID uuid.UUID,
	query string,
	args ...any,
) ([]domain.ReviewItem, error) {
	var rows []reviewItemRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, args...); err != nil {
		return nil, store.NewStoreError("review_item", "fetch", "failed to query review items", MapError(err))
	}

	items := make([]domain.ReviewItem, len(rows))
	for i, r := range rows {
		items[i] = r.toDomain(userID)
	}
	return items, nil
}
