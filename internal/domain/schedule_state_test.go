package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewScheduleState(t *testing.T) {
	userID := uuid.New()
	wordID := uuid.New()

	state := NewScheduleState(userID, wordID)

	if state.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, state.UserID)
	}
	if state.WordID != wordID {
		t.Errorf("Expected word ID %s, got %s", wordID, state.WordID)
	}
	if state.EaseFactor != 2.5 {
		t.Errorf("Expected ease factor 2.5, got %f", state.EaseFactor)
	}
	if state.Interval != 0 || state.Repetitions != 0 {
		t.Errorf("Expected zero interval and repetitions, got %d and %d", state.Interval, state.Repetitions)
	}
	if state.IsReviewed() {
		t.Error("Expected a fresh state to be unreviewed")
	}
	if !state.IsDue(time.Now()) {
		t.Error("Expected a fresh state to be due immediately")
	}
	if err := state.Validate(); err != nil {
		t.Errorf("Expected fresh state to be valid, got %v", err)
	}
}

func TestScheduleStateValidate(t *testing.T) {
	valid := NewScheduleState(uuid.New(), uuid.New())

	testCases := []struct {
		name     string
		mutate   func(s *ScheduleState)
		expected error
	}{
		{"valid", func(s *ScheduleState) {}, nil},
		{"missing user", func(s *ScheduleState) { s.UserID = uuid.Nil }, ErrEmptyScheduleUserID},
		{"missing word", func(s *ScheduleState) { s.WordID = uuid.Nil }, ErrEmptyScheduleWordID},
		{"ease below floor", func(s *ScheduleState) { s.EaseFactor = 1.29 }, ErrInvalidScheduleState},
		{"ease at floor", func(s *ScheduleState) { s.EaseFactor = 1.3 }, nil},
		{"negative interval", func(s *ScheduleState) { s.Interval = -1 }, ErrInvalidScheduleState},
		{"negative repetitions", func(s *ScheduleState) { s.Repetitions = -1 }, ErrInvalidScheduleState},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := valid
			tc.mutate(&s)
			err := s.Validate()
			if tc.expected == nil && err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if tc.expected != nil && !errors.Is(err, tc.expected) {
				t.Fatalf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestScheduleStateIsMastered(t *testing.T) {
	s := NewScheduleState(uuid.New(), uuid.New())
	s.Repetitions = 4
	if s.IsMastered(DefaultMasteryThreshold) {
		t.Error("Expected 4 repetitions not to be mastered")
	}
	s.Repetitions = 5
	if !s.IsMastered(DefaultMasteryThreshold) {
		t.Error("Expected 5 repetitions to be mastered")
	}
}

func TestQuality(t *testing.T) {
	if QualityFromRecall(true) != 5 {
		t.Errorf("Expected knew-it to map to 5, got %d", QualityFromRecall(true))
	}
	if QualityFromRecall(false) != 2 {
		t.Errorf("Expected didn't-know to map to 2, got %d", QualityFromRecall(false))
	}
	if QualityFromRecall(false).IsPass() {
		t.Error("Expected didn't-know to be a lapse")
	}

	for q := Quality(0); q <= 5; q++ {
		if err := q.Validate(); err != nil {
			t.Errorf("Expected quality %d to be valid, got %v", q, err)
		}
	}
	for _, q := range []Quality{-1, 6, 100} {
		if err := q.Validate(); !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Expected ErrInvalidQuality for %d, got %v", q, err)
		}
	}
}

func TestReviewItemClone(t *testing.T) {
	userID := uuid.New()
	word := Word{ID: uuid.New(), Term: "ephemeral"}

	if (ReviewItem{Word: word}).Clone().Schedule != nil {
		t.Error("Expected an unreviewed item to clone without a schedule")
	}

	existing := NewScheduleState(userID, word.ID)
	existing.Repetitions = 3
	item := ReviewItem{Word: word, Schedule: &existing}

	clone := item.Clone()
	clone.Schedule.Repetitions = 9
	if item.Schedule.Repetitions != 3 {
		t.Error("Expected Clone to deep copy the schedule")
	}
}

func TestWordListAndWordValidate(t *testing.T) {
	list := WordList{UserID: uuid.New(), Name: "GRE"}
	if err := list.Validate(); err != nil {
		t.Errorf("Expected valid list, got %v", err)
	}
	list.Name = "  "
	if err := list.Validate(); !errors.Is(err, ErrEmptyListName) {
		t.Errorf("Expected ErrEmptyListName, got %v", err)
	}
	list.UserID = uuid.Nil
	if err := list.Validate(); !errors.Is(err, ErrEmptyListUserID) {
		t.Errorf("Expected ErrEmptyListUserID, got %v", err)
	}

	word := Word{Term: "laconic", Definition: "using few words"}
	if err := word.Validate(); err != nil {
		t.Errorf("Expected valid word, got %v", err)
	}
	word.Definition = ""
	if err := word.Validate(); !errors.Is(err, ErrEmptyWordDefinition) {
		t.Errorf("Expected ErrEmptyWordDefinition, got %v", err)
	}
	word.Term = ""
	if err := word.Validate(); !errors.Is(err, ErrEmptyWordTerm) {
		t.Errorf("Expected ErrEmptyWordTerm, got %v", err)
	}
}
