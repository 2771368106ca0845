package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Progress summary defaults.
const (
	DefaultDailyGoal = 20

	// StreakWindowDays is how far back distinct review days are counted.
	StreakWindowDays = 30

	// DefaultSuggestedLists is how many lists SuggestLists returns by default.
	DefaultSuggestedLists = 2
)

// Overview summarizes a user's learning progress.
type Overview struct {
	DailyGoal          int `json:"daily_goal"`
	WordsReviewedToday int `json:"words_reviewed_today"`
	StreakDays         int `json:"streak_days"`
	TotalWords         int `json:"total_words"`
	MasteredWords      int `json:"mastered_words"`
}

// ComputeOverview derives the progress summary from every tracked word of a
// user. Calendar days are taken in now's location.
//
// StreakDays counts the distinct days with at least one review among today
// and the StreakWindowDays-1 days before it.
func ComputeOverview(records []ProgressRecord, now time.Time, dailyGoal, masteryThreshold int) Overview {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	if masteryThreshold <= 0 {
		masteryThreshold = DefaultMasteryThreshold
	}

	today := startOfDay(now)
	windowStart := today.AddDate(0, 0, -(StreakWindowDays - 1))

	overview := Overview{
		DailyGoal:  dailyGoal,
		TotalWords: len(records),
	}

	days := make(map[time.Time]struct{})
	for _, r := range records {
		if r.State.IsMastered(masteryThreshold) {
			overview.MasteredWords++
		}
		if !r.State.IsReviewed() {
			continue
		}
		day := startOfDay(r.State.LastReviewedAt.In(now.Location()))
		if !day.Before(today) {
			overview.WordsReviewedToday++
		}
		if !day.Before(windowStart) && !day.After(today) {
			days[day] = struct{}{}
		}
	}
	overview.StreakDays = len(days)

	return overview
}

// SuggestLists ranks lists by how many of their words the user is tracking
// and returns at most limit of them. Lists without tracked words are left
// out; ties keep the order of lists.
func SuggestLists(lists []WordList, records []ProgressRecord, limit int) []WordList {
	if limit <= 0 {
		limit = DefaultSuggestedLists
	}

	counts := make(map[uuid.UUID]int, len(lists))
	for _, r := range records {
		if r.ListID != uuid.Nil {
			counts[r.ListID]++
		}
	}

	ranked := make([]WordList, 0, len(lists))
	for _, l := range lists {
		if counts[l.ID] > 0 {
			ranked = append(ranked, l)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i].ID] > counts[ranked[j].ID]
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
