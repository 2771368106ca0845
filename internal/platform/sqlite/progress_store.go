package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// SQLiteProgressStore implements store.ProgressStore on SQLite.
type SQLiteProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
	clock  clock.Clock
}

// NewSQLiteProgressStore creates a progress store on db, which may be a
// connection or a transaction. If logger is nil, the default logger is used.
func NewSQLiteProgressStore(db store.DBTX, log *slog.Logger) *SQLiteProgressStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SQLiteProgressStore{
		db:     db,
		logger: log.With(slog.String("component", "progress_store")),
		clock:  clock.System(),
	}
}

var _ store.ProgressStore = (*SQLiteProgressStore)(nil)

// WithClock makes the store stamp missing timestamps from c.
func (s *SQLiteProgressStore) WithClock(c clock.Clock) *SQLiteProgressStore {
	s.clock = c
	return s
}

var reviewItemColumns = []string{
	"w.id", "w.list_id", "w.term", "w.definition", "w.part_of_speech", "w.example", "w.created_at",
	"s.ease_factor", "s.interval_days", "s.repetitions",
	"s.last_reviewed_at", "s.next_review_at", "s.created_at", "s.updated_at",
}

var scheduleColumns = []string{
	"user_id", "word_id", "ease_factor", "interval_days", "repetitions",
	"last_reviewed_at", "next_review_at", "created_at", "updated_at",
}

// FetchReviewItems implements store.ItemSource.
func (s *SQLiteProgressStore) FetchReviewItems(
	ctx context.Context,
	userID, listID uuid.UUID,
) ([]domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.checkListOwner(ctx, userID, listID); err != nil {
		return nil, err
	}

	query, args, err := builder.
		Select(reviewItemColumns...).
		From("words w").
		LeftJoin("schedule_states s ON s.word_id = w.id AND s.user_id = ?", userID).
		Where(sq.Eq{"w.list_id": listID}).
		OrderBy("w.term", "w.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build review items query: %w", err)
	}

	items, err := s.queryReviewItems(ctx, userID, query, args...)
	if err != nil {
		log.Error("failed to fetch review items",
			slog.String("list_id", listID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("fetched review items",
		slog.String("list_id", listID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// FetchDueItems implements store.ItemSource.
func (s *SQLiteProgressStore) FetchDueItems(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]domain.ReviewItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if limit <= 0 {
		limit = store.DefaultDueLimit
	}

	query, args, err := builder.
		Select(reviewItemColumns...).
		From("schedule_states s").
		Join("words w ON w.id = s.word_id").
		Join("word_lists l ON l.id = w.list_id").
		Where(sq.Eq{"s.user_id": userID, "l.user_id": userID}).
		Where(sq.LtOrEq{"s.next_review_at": toUnix(now)}).
		OrderBy("s.next_review_at", "w.term").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due items query: %w", err)
	}

	items, err := s.queryReviewItems(ctx, userID, query, args...)
	if err != nil {
		log.Error("failed to fetch due items", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("fetched due items", slog.Int("count", len(items)), slog.Int("limit", limit))
	return items, nil
}

// UpsertSchedule implements store.ScheduleWriter.
func (s *SQLiteProgressStore) UpsertSchedule(
	ctx context.Context,
	userID, wordID uuid.UUID,
	state *domain.ScheduleState,
) (*domain.ScheduleState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if state == nil {
		return nil, fmt.Errorf("%w: nil schedule state", store.ErrInvalidEntity)
	}

	row := *state
	row.UserID = userID
	row.WordID = wordID
	if err := row.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := s.clock.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}

	query, args, err := builder.
		Insert("schedule_states").
		Columns(scheduleColumns...).
		Values(
			row.UserID, row.WordID, row.EaseFactor, row.Interval, row.Repetitions,
			nullUnix(row.LastReviewedAt), toUnix(row.NextReviewAt),
			toUnix(row.CreatedAt), toUnix(row.UpdatedAt),
		).
		Suffix(`ON CONFLICT (user_id, word_id) DO UPDATE SET
			ease_factor = excluded.ease_factor,
			interval_days = excluded.interval_days,
			repetitions = excluded.repetitions,
			last_reviewed_at = excluded.last_reviewed_at,
			next_review_at = excluded.next_review_at,
			updated_at = excluded.updated_at
			RETURNING created_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert query: %w", err)
	}

	var createdAt int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		if IsForeignKeyViolation(err) {
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to upsert schedule state",
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("schedule", "upsert", "failed to write schedule state", MapError(err))
	}

	stored := row
	stored.NextReviewAt = fromUnix(toUnix(row.NextReviewAt))
	stored.LastReviewedAt = fromNullUnix(nullUnix(row.LastReviewedAt))
	stored.CreatedAt = fromUnix(createdAt)
	stored.UpdatedAt = fromUnix(toUnix(row.UpdatedAt))

	log.Debug("upserted schedule state",
		slog.String("word_id", wordID.String()),
		slog.Int("interval", stored.Interval),
		slog.Int("repetitions", stored.Repetitions))
	return &stored, nil
}

// ListProgress implements store.ProgressStore.
func (s *SQLiteProgressStore) ListProgress(ctx context.Context, userID uuid.UUID) ([]domain.ProgressRecord, error) {
	cols := append([]string{"w.list_id"}, prefixed("s.", scheduleColumns)...)
	query, args, err := builder.
		Select(cols...).
		From("schedule_states s").
		Join("words w ON w.id = s.word_id").
		Where(sq.Eq{"s.user_id": userID}).
		OrderBy("s.next_review_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build progress query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("schedule", "list", "failed to query progress", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var records []domain.ProgressRecord
	for rows.Next() {
		var (
			rec                domain.ProgressRecord
			last               sql.NullInt64
			next, created, upd int64
		)
		if err := rows.Scan(
			&rec.ListID,
			&rec.State.UserID, &rec.State.WordID,
			&rec.State.EaseFactor, &rec.State.Interval, &rec.State.Repetitions,
			&last, &next, &created, &upd,
		); err != nil {
			return nil, store.NewStoreError("schedule", "list", "failed to scan progress", MapError(err))
		}
		rec.State.LastReviewedAt = fromNullUnix(last)
		rec.State.NextReviewAt = fromUnix(next)
		rec.State.CreatedAt = fromUnix(created)
		rec.State.UpdatedAt = fromUnix(upd)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("schedule", "list", "failed to read progress", MapError(err))
	}
	return records, nil
}

func (s *SQLiteProgressStore) checkListOwner(ctx context.Context, userID, listID uuid.UUID) error {
	query, args, err := builder.
		Select("1").
		From("word_lists").
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build list lookup: %w", err)
	}

	var one int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrListNotFound
		}
		return store.NewStoreError("word_list", "get", "failed to look up list", MapError(err))
	}
	return nil
}

func (s *SQLiteProgressStore) queryReviewItems(
	ctx context.Context,
	userID uuid.UUID,
	query string,
	args ...any,
) ([]domain.ReviewItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("review_item", "fetch", "failed to query review items", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := []domain.ReviewItem{}
	for rows.Next() {
		var (
			item        domain.ReviewItem
			wordCreated int64
			ease        sql.NullFloat64
			interval    sql.NullInt64
			reps        sql.NullInt64
			last        sql.NullInt64
			next        sql.NullInt64
			created     sql.NullInt64
			updated     sql.NullInt64
		)
		if err := rows.Scan(
			&item.Word.ID, &item.Word.ListID, &item.Word.Term, &item.Word.Definition,
			&item.Word.PartOfSpeech, &item.Word.Example, &wordCreated,
			&ease, &interval, &reps, &last, &next, &created, &updated,
		); err != nil {
			return nil, store.NewStoreError("review_item", "fetch", "failed to scan review item", MapError(err))
		}
		item.Word.CreatedAt = fromUnix(wordCreated)

		if ease.Valid {
			item.Schedule = &domain.ScheduleState{
				UserID:         userID,
				WordID:         item.Word.ID,
				EaseFactor:     ease.Float64,
				Interval:       int(interval.Int64),
				Repetitions:    int(reps.Int64),
				LastReviewedAt: fromNullUnix(last),
				NextReviewAt:   fromUnix(next.Int64),
				CreatedAt:      fromUnix(created.Int64),
				UpdatedAt:      fromUnix(updated.Int64),
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_item", "fetch", "failed to read review items", MapError(err))
	}
	return items, nil
}

func prefixed(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + c
	}
	return out
}
