package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a recall quality rating falls outside
	// the accepted 0-5 range. Callers are expected to reject the rating before
	// any scheduling state is touched.
	ErrInvalidQuality = errors.New("invalid quality")

	// ErrInvalidScheduleState is returned when a schedule state violates its
	// numeric invariants (ease floor, non-negative interval and repetitions).
	ErrInvalidScheduleState = errors.New("invalid schedule state")
)
