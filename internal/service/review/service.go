// Package review runs review sessions on behalf of API callers. It loads
// review items from storage, keeps live sessions in memory keyed by session
// ID, and derives progress summaries from stored schedule states.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
	"github.com/phrazzld/vocab-srs/internal/session"
)

// Service manages review sessions and progress reporting.
type Service interface {
	// StartSession loads every word of listID and starts a session over them.
	// Returns store.ErrListNotFound if the list is unknown to userID and
	// session.ErrEmptyList if it has no words.
	StartSession(ctx context.Context, userID, listID uuid.UUID, mode session.Mode) (*session.Snapshot, error)

	// StartDueSession starts a session over the user's due words, most
	// overdue first. Returns ErrNothingDue when no word is due.
	StartDueSession(ctx context.Context, userID uuid.UUID, mode session.Mode) (*session.Snapshot, error)

	// GetSession returns the current state of a session.
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error)

	// SubmitJudgment grades the current word. The schedule write continues
	// in the background; the returned Submission's Persisted future reports
	// its outcome.
	SubmitJudgment(ctx context.Context, userID, sessionID uuid.UUID, j session.Judgment) (*SubmitResult, error)

	// Advance moves the cursor one word forward or back.
	Advance(ctx context.Context, userID, sessionID uuid.UUID, dir session.Direction) (*session.Snapshot, error)

	// ResetSession restarts a session over the same words.
	ResetSession(ctx context.Context, userID, sessionID uuid.UUID) (*session.Snapshot, error)

	// EndSession discards a session. Writes already issued still complete.
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// Overview summarizes the user's progress.
	Overview(ctx context.Context, userID uuid.UUID) (*domain.Overview, error)

	// Lists returns the user's word lists.
	Lists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)

	// SuggestedLists returns the lists the user has studied the most.
	SuggestedLists(ctx context.Context, userID uuid.UUID) ([]domain.WordList, error)

	// CreateList stores a new list with its words.
	CreateList(ctx context.Context, list *domain.WordList, words []domain.Word) error
}

// SubmitResult is the outcome of SubmitJudgment.
type SubmitResult struct {
	Submission *session.Submission
	Session    session.Snapshot
}

// Common error types for the review service
var (
	// ErrSessionNotFound indicates that no live session has the given ID.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrSessionNotOwned indicates that the session belongs to another user.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrNothingDue indicates that the user has no words due for review.
	ErrNothingDue = errors.New("no words due for review")
)

// ServiceError wraps errors from the review service with the operation
// that failed, so callers can use errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session", "overview")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
