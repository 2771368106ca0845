package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vocab-srs/internal/domain"
)

// Common errors
var (
	ErrNilState    = errors.New("schedule state cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations
type Service interface {
	// ComputeNextSchedule computes the state that follows a 0-5 grade.
	// prior is left untouched; invalid grades or states are rejected.
	ComputeNextSchedule(
		prior *domain.ScheduleState,
		quality domain.Quality,
		now time.Time,
	) (*domain.ScheduleState, error)

	// ComputeNextScheduleFromRecall maps a knew-it/didn't-know judgment onto
	// a grade (5 or 2) and computes the next state with the same algorithm.
	ComputeNextScheduleFromRecall(
		prior *domain.ScheduleState,
		knew bool,
		now time.Time,
	) (*domain.ScheduleState, error)

	// PostponeReview pushes the next review time forward by a number of days
	PostponeReview(
		prior *domain.ScheduleState,
		days int,
		now time.Time,
	) (*domain.ScheduleState, error)

	// IsMastered reports whether a state reached the mastery threshold
	IsMastered(state *domain.ScheduleState) bool

	// FreshState returns the state of a word that was never reviewed,
	// starting at the configured initial ease factor.
	FreshState(userID, wordID uuid.UUID) domain.ScheduleState
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

var _ Service = (*defaultService)(nil)

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// ComputeNextSchedule implements Service
func (s *defaultService) ComputeNextSchedule(
	prior *domain.ScheduleState,
	quality domain.Quality,
	now time.Time,
) (*domain.ScheduleState, error) {
	if prior == nil {
		return nil, ErrNilState
	}
	if err := quality.Validate(); err != nil {
		return nil, err
	}
	if err := prior.ValidateNumbers(); err != nil {
		return nil, err
	}

	return calculateNextState(prior, quality, now, s.params), nil
}

// ComputeNextScheduleFromRecall implements Service
func (s *defaultService) ComputeNextScheduleFromRecall(
	prior *domain.ScheduleState,
	knew bool,
	now time.Time,
) (*domain.ScheduleState, error) {
	return s.ComputeNextSchedule(prior, domain.QualityFromRecall(knew), now)
}

// PostponeReview implements Service
func (s *defaultService) PostponeReview(
	prior *domain.ScheduleState,
	days int,
	now time.Time,
) (*domain.ScheduleState, error) {
	if prior == nil {
		return nil, ErrNilState
	}
	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *prior
	base := prior.NextReviewAt
	if base.IsZero() {
		base = now
	}
	next.NextReviewAt = base.AddDate(0, 0, days)
	next.UpdatedAt = now

	return &next, nil
}

// IsMastered implements Service
func (s *defaultService) IsMastered(state *domain.ScheduleState) bool {
	if state == nil {
		return false
	}
	return state.IsMastered(s.params.MasteryThreshold)
}

// FreshState implements Service
func (s *defaultService) FreshState(userID, wordID uuid.UUID) domain.ScheduleState {
	state := domain.NewScheduleState(userID, wordID)
	state.EaseFactor = s.params.InitialEaseFactor
	return state
}
