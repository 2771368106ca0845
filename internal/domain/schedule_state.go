package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Scheduling defaults shared by the scheduler and the stores.
const (
	// MinEaseFactor is the floor every ease factor update is clamped to.
	MinEaseFactor = 1.3

	// DefaultEaseFactor is the ease factor of a word that was never reviewed.
	DefaultEaseFactor = 2.5

	// DefaultMasteryThreshold is the number of consecutive successful recalls
	// after which a word counts as mastered.
	DefaultMasteryThreshold = 5
)

// Common validation errors for ScheduleState
var (
	ErrEmptyScheduleUserID = errors.New("schedule state user ID cannot be empty")
	ErrEmptyScheduleWordID = errors.New("schedule state word ID cannot be empty")
)

// ScheduleState tracks a user's spaced repetition progress for a single word.
type ScheduleState struct {
	UserID         uuid.UUID `json:"user_id"`
	WordID         uuid.UUID `json:"word_id"`
	EaseFactor     float64   `json:"ease_factor"`      // Interval growth multiplier, never below 1.3
	Interval       int       `json:"interval"`         // Days until the next review
	Repetitions    int       `json:"repetitions"`      // Consecutive successful recalls since the last lapse
	NextReviewAt   time.Time `json:"next_review_at"`   // When the word becomes due
	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero until the first review
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewScheduleState returns the state of a word that was never reviewed. The
// word is due immediately.
func NewScheduleState(userID, wordID uuid.UUID) ScheduleState {
	return ScheduleState{
		UserID:     userID,
		WordID:     wordID,
		EaseFactor: DefaultEaseFactor,
	}
}

// Validate checks identifiers and numeric invariants. Stores call it before
// writing a state.
func (s *ScheduleState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyScheduleUserID
	}
	if s.WordID == uuid.Nil {
		return ErrEmptyScheduleWordID
	}
	return s.ValidateNumbers()
}

// ValidateNumbers checks only the numeric invariants, which is all the
// scheduler needs.
func (s *ScheduleState) ValidateNumbers() error {
	if s.EaseFactor < MinEaseFactor {
		return fmt.Errorf("%w: ease factor %.2f below %.2f", ErrInvalidScheduleState, s.EaseFactor, MinEaseFactor)
	}
	if s.Interval < 0 {
		return fmt.Errorf("%w: negative interval %d", ErrInvalidScheduleState, s.Interval)
	}
	if s.Repetitions < 0 {
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidScheduleState, s.Repetitions)
	}
	return nil
}

// IsReviewed reports whether the word has been graded at least once.
func (s *ScheduleState) IsReviewed() bool {
	return !s.LastReviewedAt.IsZero()
}

// IsDue reports whether the word should be reviewed at now.
func (s *ScheduleState) IsDue(now time.Time) bool {
	return !s.NextReviewAt.After(now)
}

// IsMastered reports whether the streak of successful recalls reached threshold.
func (s *ScheduleState) IsMastered(threshold int) bool {
	return s.Repetitions >= threshold
}
