package session

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/phrazzld/vocab-srs/internal/domain"
)

// Common session errors
var (
	// ErrEmptyList is returned by Start when there is nothing to review.
	ErrEmptyList = errors.New("cannot start a session with an empty list")

	// ErrNotInProgress is returned by operations that need a running session.
	ErrNotInProgress = errors.New("session is not in progress")

	// ErrNoList is returned by Reset when no list was ever selected.
	ErrNoList = errors.New("no list selected")

	// ErrWrongMode is returned when an operation is not available in the
	// session's mode, such as free navigation during a quiz.
	ErrWrongMode = errors.New("operation not available in this mode")

	// ErrInvalidMode is returned for an unknown mode name.
	ErrInvalidMode = errors.New("invalid session mode")

	// ErrInvalidDirection is returned for a direction other than Forward or Backward.
	ErrInvalidDirection = errors.New("invalid direction")

	// ErrSubmissionInFlight is returned when a judgment arrives while another
	// one for the same session is still being processed. The second
	// judgment is dropped.
	ErrSubmissionInFlight = errors.New("another judgment is being processed")
)

// State is the lifecycle state of a review session.
type State int

// Session states
const (
	AwaitingListSelection State = iota
	InProgress
	Completed
)

// String returns the state's wire name.
func (s State) String() string {
	switch s {
	case AwaitingListSelection:
		return "awaiting_list_selection"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode selects how words are presented.
type Mode string

// Session modes
const (
	ModeFlashcards Mode = "flashcards"
	ModeQuiz       Mode = "quiz"
)

// ParseMode converts a case-insensitive mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFlashcards:
		return ModeFlashcards, nil
	case ModeQuiz:
		return ModeQuiz, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFlashcards || m == ModeQuiz
}

// Direction is a flashcard navigation step.
type Direction int

// Navigation directions
const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Judgment is the reviewer's verdict on one word: either a binary
// knew-it/didn't-know answer or a 0-5 grade.
type Judgment struct {
	quality domain.Quality
	binary  bool
}

// Recall returns a binary judgment. It is graded 5 when the word was known
// and 2 otherwise.
func Recall(knew bool) Judgment {
	return Judgment{quality: domain.QualityFromRecall(knew), binary: true}
}

// Grade returns a fine-grained judgment. The grade is validated when the
// judgment is submitted.
func Grade(quality int) Judgment {
	return Judgment{quality: domain.Quality(quality)}
}

// Quality returns the grade the scheduler sees.
func (j Judgment) Quality() domain.Quality { return j.quality }

// IsBinary reports whether the judgment came from a knew-it/didn't-know answer.
func (j Judgment) IsBinary() bool { return j.binary }

// Correct reports whether the judgment counts as a correct answer.
func (j Judgment) Correct() bool { return j.quality.IsPass() }

// Score is the final result of a completed session.
type Score struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewScore computes a score, rounding the percentage to the nearest integer
// (halves round up).
func NewScore(correct, total int) Score {
	s := Score{Correct: correct, Total: total}
	if total > 0 {
		s.Percentage = int(math.Round(float64(correct) / float64(total) * 100))
	}
	return s
}

// Aggregates are the running statistics of a session. Mastered counts the
// words judged since the last Start or Reset that reached the mastery
// threshold.
type Aggregates struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
	Mastered int `json:"mastered"`
}
