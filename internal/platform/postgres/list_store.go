package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// PostgresListStore implements store.ListStore using PostgreSQL.
type PostgresListStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	clock  clock.Clock
}

// NewPostgresListStore creates a list store on a connection pool.
func NewPostgresListStore(db *sqlx.DB, log *slog.Logger) *PostgresListStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PostgresListStore{
		db:     db,
		logger: log.With(slog.String("component", "list_store")),
		clock:  clock.System(),
	}
}

var _ store.ListStore = (*PostgresListStore)(nil)

// WithClock makes the store stamp missing timestamps from c.
func (s *PostgresListStore) WithClock(c clock.Clock) *PostgresListStore {
	s.clock = c
	return s
}

type listRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r listRow) toDomain() domain.WordList {
	return domain.WordList{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

var listColumns = []string{"id", "user_id", "name", "description", "created_at"}

// ListByUser implements store.ListStore.
func (s *PostgresListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	query, args, err := psql.
		Select(listColumns...).
		From("word_lists").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []listRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, store.NewStoreError("word_list", "list", "failed to query lists", MapError(err))
	}

	lists := make([]domain.WordList, len(rows))
	for i, r := range rows {
		lists[i] = r.toDomain()
	}
	return lists, nil
}

// GetList implements store.ListStore.
func (s *PostgresListStore) GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error) {
	query, args, err := psql.
		Select(listColumns...).
		From("word_lists").
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var row listRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListNotFound
		}
		return nil, store.NewStoreError("word_list", "get", "failed to get list", MapError(err))
	}
	l := row.toDomain()
	return &l, nil
}

// CreateList implements store.ListStore. Missing IDs and creation times are
// filled in on list and words.
func (s *PostgresListStore) CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if list == nil {
		return fmt.Errorf("%w: nil word list", store.ErrInvalidEntity)
	}
	if err := list.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	for i := range words {
		if err := words[i].Validate(); err != nil {
			return fmt.Errorf("%w: word %d: %v", store.ErrInvalidEntity, i, err)
		}
	}

	now := s.clock.Now()
	if list.ID == uuid.Nil {
		list.ID = uuid.New()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now
	}

	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db.DB, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := psql.
			Insert("word_lists").
			Columns(listColumns...).
			Values(list.ID, list.UserID, list.Name, list.Description, list.CreatedAt).
			ToSql()
		if err != nil {
			return fmt.Errorf("build list insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if IsUniqueViolation(err) {
				return MapUniqueViolation(err, "word list", store.ErrListExists)
			}
			return store.NewStoreError("word_list", "create", "failed to insert list", MapError(err))
		}

		if len(words) == 0 {
			return nil
		}

		insert := psql.
			Insert("words").
			Columns("id", "list_id", "term", "definition", "part_of_speech", "example", "created_at")
		for i := range words {
			w := &words[i]
			if w.ID == uuid.Nil {
				w.ID = uuid.New()
			}
			if w.CreatedAt.IsZero() {
				w.CreatedAt = now
			}
			w.ListID = list.ID
			insert = insert.Values(w.ID, w.ListID, w.Term, w.Definition, w.PartOfSpeech, w.Example, w.CreatedAt)
		}

		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build words insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return store.NewStoreError("word", "create", "failed to insert words", MapError(err))
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create word list",
			slog.String("name", list.Name),
			slog.String("error", err.Error()))
		return err
	}

	log.Info("created word list",
		slog.String("list_id", list.ID.String()),
		slog.Int("words", len(words)))
	return nil
}
