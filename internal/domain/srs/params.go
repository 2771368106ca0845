package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/vocab-srs/internal/domain"
)

// ErrInvalidParams is returned when scheduler parameters are inconsistent.
var ErrInvalidParams = errors.New("invalid srs parameters")

// Params defines all configurable parameters for the scheduling algorithm
type Params struct {
	// Ease factor limits
	MinEaseFactor     float64
	InitialEaseFactor float64

	// Lapse handling
	LapseThreshold domain.Quality // grades below this reset the word
	LapsePenalty   float64        // subtracted from the ease factor on a lapse
	LapseInterval  int            // days until a lapsed word is due again

	// Intervals for the first two successful recalls
	FirstInterval  int
	SecondInterval int

	// Consecutive successful recalls after which a word counts as mastered
	MasteryThreshold int
}

// ParamsConfig allows overriding the default parameters. Zero values keep
// the defaults.
type ParamsConfig struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	LapsePenalty      float64
	FirstInterval     int
	SecondInterval    int
	MasteryThreshold  int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     domain.MinEaseFactor,
		InitialEaseFactor: domain.DefaultEaseFactor,

		LapseThreshold: domain.QualityPassThreshold,
		LapsePenalty:   0.2,
		LapseInterval:  1,

		FirstInterval:  1,
		SecondInterval: 6,

		MasteryThreshold: domain.DefaultMasteryThreshold,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.LapsePenalty > 0 {
		params.LapsePenalty = config.LapsePenalty
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MasteryThreshold > 0 {
		params.MasteryThreshold = config.MasteryThreshold
	}

	return params
}

// Validate checks that the parameters can drive the algorithm.
func (p *Params) Validate() error {
	switch {
	case p.MinEaseFactor < domain.MinEaseFactor:
		return fmt.Errorf("%w: min ease factor %.2f below the stored floor %.2f",
			ErrInvalidParams, p.MinEaseFactor, domain.MinEaseFactor)
	case p.InitialEaseFactor < p.MinEaseFactor:
		return fmt.Errorf("%w: initial ease factor %.2f below minimum %.2f",
			ErrInvalidParams, p.InitialEaseFactor, p.MinEaseFactor)
	case p.LapseInterval < 1 || p.FirstInterval < 1 || p.SecondInterval < 1:
		return fmt.Errorf("%w: intervals must be at least one day", ErrInvalidParams)
	case p.MasteryThreshold < 1:
		return fmt.Errorf("%w: mastery threshold must be at least 1", ErrInvalidParams)
	}
	return nil
}
