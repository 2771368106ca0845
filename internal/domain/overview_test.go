package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func record(listID uuid.UUID, lastReviewed time.Time, repetitions int) ProgressRecord {
	s := NewScheduleState(uuid.New(), uuid.New())
	s.LastReviewedAt = lastReviewed
	s.Repetitions = repetitions
	return ProgressRecord{State: s, ListID: listID}
}

func TestComputeOverview(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	listID := uuid.New()

	records := []ProgressRecord{
		record(listID, now.Add(-time.Hour), 5),     // today, mastered
		record(listID, now.Add(-2*time.Hour), 1),   // today, same day
		record(listID, now.AddDate(0, 0, -1), 6),   // yesterday, mastered
		record(listID, now.AddDate(0, 0, -29), 0),  // oldest day inside the window
		record(listID, now.AddDate(0, 0, -30), 2),  // outside the window
		record(listID, time.Time{}, 0),             // never reviewed
		record(listID, now.AddDate(0, 0, -10).Add(-time.Minute), 4),
	}

	overview := ComputeOverview(records, now, 0, 0)

	if overview.DailyGoal != DefaultDailyGoal {
		t.Errorf("Expected default daily goal %d, got %d", DefaultDailyGoal, overview.DailyGoal)
	}
	if overview.TotalWords != 7 {
		t.Errorf("Expected 7 total words, got %d", overview.TotalWords)
	}
	if overview.WordsReviewedToday != 2 {
		t.Errorf("Expected 2 words reviewed today, got %d", overview.WordsReviewedToday)
	}
	if overview.MasteredWords != 2 {
		t.Errorf("Expected 2 mastered words, got %d", overview.MasteredWords)
	}
	// today, yesterday, -10 and -29 days
	if overview.StreakDays != 4 {
		t.Errorf("Expected 4 streak days, got %d", overview.StreakDays)
	}
}

func TestComputeOverviewEmpty(t *testing.T) {
	overview := ComputeOverview(nil, time.Now(), 30, 5)
	if overview != (Overview{DailyGoal: 30}) {
		t.Errorf("Expected empty overview with goal 30, got %+v", overview)
	}
}

func TestSuggestLists(t *testing.T) {
	a := WordList{ID: uuid.New(), Name: "a"}
	b := WordList{ID: uuid.New(), Name: "b"}
	c := WordList{ID: uuid.New(), Name: "c"}
	d := WordList{ID: uuid.New(), Name: "d"}

	now := time.Now()
	records := []ProgressRecord{
		record(b.ID, now, 0),
		record(c.ID, now, 0),
		record(c.ID, now, 0),
		record(c.ID, now, 0),
		record(d.ID, now, 0),
	}

	suggested := SuggestLists([]WordList{a, b, c, d}, records, 0)
	if len(suggested) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggested))
	}
	if suggested[0].ID != c.ID {
		t.Errorf("Expected list c first, got %s", suggested[0].Name)
	}
	// b and d tie; b comes first in the input.
	if suggested[1].ID != b.ID {
		t.Errorf("Expected list b second, got %s", suggested[1].Name)
	}

	if got := SuggestLists([]WordList{a}, records, 2); len(got) != 0 {
		t.Errorf("Expected no suggestions for untracked lists, got %d", len(got))
	}
}
