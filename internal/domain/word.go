package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for lists and words
var (
	ErrEmptyListName       = errors.New("word list name cannot be empty")
	ErrEmptyListUserID     = errors.New("word list user ID cannot be empty")
	ErrEmptyWordTerm       = errors.New("word term cannot be empty")
	ErrEmptyWordDefinition = errors.New("word definition cannot be empty")
)

// WordList is a user-owned collection of words.
type WordList struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks that the list has an owner and a name.
func (l *WordList) Validate() error {
	if l.UserID == uuid.Nil {
		return ErrEmptyListUserID
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyListName
	}
	return nil
}

// Word is a term and its definition inside a list.
type Word struct {
	ID           uuid.UUID `json:"id"`
	ListID       uuid.UUID `json:"list_id"`
	Term         string    `json:"term"`
	Definition   string    `json:"definition"`
	PartOfSpeech string    `json:"part_of_speech,omitempty"`
	Example      string    `json:"example,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks that the word has a term and a definition.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Term) == "" {
		return ErrEmptyWordTerm
	}
	if strings.TrimSpace(w.Definition) == "" {
		return ErrEmptyWordDefinition
	}
	return nil
}

// ReviewItem pairs a word with the reviewer's scheduling state for it.
// Schedule is nil when the word was never reviewed.
type ReviewItem struct {
	Word     Word           `json:"word"`
	Schedule *ScheduleState `json:"schedule,omitempty"`
}

// Clone returns a deep copy so callers can mutate the schedule freely.
func (i ReviewItem) Clone() ReviewItem {
	out := ReviewItem{Word: i.Word}
	if i.Schedule != nil {
		s := *i.Schedule
		out.Schedule = &s
	}
	return out
}

// ProgressRecord is a schedule state together with the list its word
// belongs to. Progress summaries are computed from these.
type ProgressRecord struct {
	State  ScheduleState
	ListID uuid.UUID
}
