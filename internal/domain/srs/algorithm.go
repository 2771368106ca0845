package srs

import (
	"math"
	"time"

	"github.com/phrazzld/vocab-srs/internal/domain"
)

// easeDelta is the SM-2 ease adjustment for a passing grade:
// 0.1 - d*(0.08 + d*0.02) with d = 5 - quality.
// It is +0.1 for a perfect grade, 0 for 4 and -0.14 for 3.
func easeDelta(quality domain.Quality) float64 {
	d := float64(domain.QualityPerfect - quality)
	return 0.1 - d*(0.08+d*0.02)
}

// calculateNewEaseFactor determines the ease factor after a review.
//
// Lapses subtract params.LapsePenalty; passing grades apply easeDelta. The
// result never drops below params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	var newEF float64
	if quality < params.LapseThreshold {
		newEF = currentEF - params.LapsePenalty
	} else {
		newEF = currentEF + easeDelta(quality)
	}

	return math.Max(params.MinEaseFactor, newEF)
}

// calculateNewInterval determines the number of days until the next review.
//
// Algorithm behavior:
//   - Lapse: params.LapseInterval, regardless of history
//   - First successful recall (repetitions == 0): params.FirstInterval
//   - Second successful recall (repetitions == 1): params.SecondInterval
//   - Otherwise: round(currentInterval * easeFactor), rounding half away
//     from zero, and never less than one day
//
// easeFactor is the already updated ease factor, so a word graded 3 grows
// more slowly than one graded 5 from the same state.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	quality domain.Quality,
	params *Params,
) int {
	if quality < params.LapseThreshold {
		return params.LapseInterval
	}

	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	}

	interval := int(math.Round(float64(currentInterval) * easeFactor))
	if interval < 1 {
		// A corrupted zero interval with repetitions >= 2 would otherwise stick.
		interval = 1
	}
	return interval
}

// calculateNextReviewDate converts an interval into the next due time.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextState creates a new ScheduleState from prior and a grade.
//
// prior is never modified. Identifiers and CreatedAt are carried over;
// LastReviewedAt and UpdatedAt are set to now.
func calculateNextState(
	prior *domain.ScheduleState,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.ScheduleState {
	next := *prior

	next.EaseFactor = calculateNewEaseFactor(prior.EaseFactor, quality, params)
	next.Interval = calculateNewInterval(
		prior.Interval,
		prior.Repetitions,
		next.EaseFactor,
		quality,
		params,
	)

	if quality < params.LapseThreshold {
		next.Repetitions = 0
	} else {
		next.Repetitions = prior.Repetitions + 1
	}

	next.NextReviewAt = calculateNextReviewDate(next.Interval, now)
	next.LastReviewedAt = now
	next.UpdatedAt = now
	if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}

	return &next
}
