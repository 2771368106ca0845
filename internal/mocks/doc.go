// Package mocks provides shared test doubles for the store, auth and review
// service interfaces.
//
// Each mock exposes one function field per interface method so a test sets
// only the behavior it needs:
//
//	svc := &mocks.MockReviewService{
//	    OverviewFn: func(ctx context.Context, userID uuid.UUID) (*domain.Overview, error) {
//	        return &domain.Overview{DailyGoal: 20}, nil
//	    },
//	}
//
// MockProgressStore and MockListStore fall back to a small in-memory store
// when a function field is nil.
package mocks
