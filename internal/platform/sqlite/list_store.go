package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/platform/clock"
	"github.com/phrazzld/vocab-srs/internal/platform/logger"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// SQLiteListStore implements store.ListStore on SQLite.
type SQLiteListStore struct {
	db     *sql.DB
	logger *slog.Logger
	clock  clock.Clock
}

// NewSQLiteListStore creates a list store. CreateList opens its own
// transaction, so db must be a connection pool rather than a transaction.
func NewSQLiteListStore(db *sql.DB, log *slog.Logger) *SQLiteListStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &SQLiteListStore{
		db:     db,
		logger: log.With(slog.String("component", "list_store")),
		clock:  clock.System(),
	}
}

var _ store.ListStore = (*SQLiteListStore)(nil)

// WithClock makes the store stamp missing timestamps from c.
func (s *SQLiteListStore) WithClock(c clock.Clock) *SQLiteListStore {
	s.clock = c
	return s
}

var listColumns = []string{"id", "user_id", "name", "description", "created_at"}

// ListByUser implements store.ListStore.
func (s *SQLiteListStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error) {
	query, args, err := builder.
		Select(listColumns...).
		From("word_lists").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("word_list", "list", "failed to query lists", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	lists := []domain.WordList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, store.NewStoreError("word_list", "list", "failed to scan list", MapError(err))
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("word_list", "list", "failed to read lists", MapError(err))
	}
	return lists, nil
}

// GetList implements store.ListStore.
func (s *SQLiteListStore) GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error) {
	query, args, err := builder.
		Select(listColumns...).
		From("word_lists").
		Where(sq.Eq{"id": listID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	l, err := scanList(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrListNotFound
		}
		return nil, store.NewStoreError("word_list", "get", "failed to get list", MapError(err))
	}
	return l, nil
}

// CreateList implements store.ListStore. Missing IDs and creation times are
// filled in on list and words.
func (s *SQLiteListStore) CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error {
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

	err := store.RunInTransaction(logger.WithLogger(ctx, log), s.db, func(ctx context.Context, tx *sql.Tx) error {
		query, args, err := builder.
			Insert("word_lists").
			Columns(listColumns...).
			Values(list.ID, list.UserID, list.Name, list.Description, toUnix(list.CreatedAt)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build list insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if IsUniqueViolation(err) {
				return store.ErrListExists
			}
			return store.NewStoreError("word_list", "create", "failed to insert list", MapError(err))
		}

		if len(words) == 0 {
			return nil
		}

		insert := builder.
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
			insert = insert.Values(w.ID, w.ListID, w.Term, w.Definition, w.PartOfSpeech, w.Example, toUnix(w.CreatedAt))
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row rowScanner) (*domain.WordList, error) {
	var (
		l       domain.WordList
		created int64
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &created); err != nil {
		return nil, err
	}
	l.CreatedAt = fromUnix(created)
	return &l, nil
}
