package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
)

// DefaultDueLimit is the number of due words fetched when no limit is given.
const DefaultDueLimit = 20

// ItemSource reads words together with the reviewer's schedule states.
// Words the user never reviewed come back with a nil Schedule.
type ItemSource interface {
	// FetchReviewItems returns every word of listID, ordered by term.
	// Returns ErrListNotFound if the list does not exist or is not owned by userID.
	FetchReviewItems(ctx context.Context, userID, listID uuid.UUID) ([]domain.ReviewItem, error)

	// FetchDueItems returns up to limit words of any list owned by userID
	// whose next review is at or before now, most overdue first.
	// A non-positive limit means DefaultDueLimit.
	FetchDueItems(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.ReviewItem, error)
}

// ScheduleWriter stores schedule states.
type ScheduleWriter interface {
	// UpsertSchedule creates or replaces the state keyed by (userID, wordID)
	// and returns the stored row. CreatedAt is kept from an existing row.
	// Returns ErrWordNotFound if the word does not exist and ErrInvalidEntity
	// if the state fails validation.
	UpsertSchedule(
		ctx context.Context,
		userID, wordID uuid.UUID,
		state *domain.ScheduleState,
	) (*domain.ScheduleState, error)
}

// ProgressStore is the full read/write view of a user's review progress.
type ProgressStore interface {
	ItemSource
	ScheduleWriter

	// ListProgress returns every schedule state of userID along with the
	// list each word belongs to.
	ListProgress(ctx context.Context, userID uuid.UUID) ([]domain.ProgressRecord, error)
}

// ListStore reads and creates word lists.
type ListStore interface {
	// ListByUser returns the lists owned by userID ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)

	// GetList returns one list. Returns ErrListNotFound if it does not
	// exist or is not owned by userID.
	GetList(ctx context.Context, userID, listID uuid.UUID) (*domain.WordList, error)

	// CreateList stores a list and its words atomically.
	// Returns ErrListExists if userID already has a list with that name.
	CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error
}
