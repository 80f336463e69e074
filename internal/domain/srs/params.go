package srs

import "github.com/phrazzld/lingua-api/internal/domain"

// Params defines the configurable parameters of the scheduler.
type Params struct {
	// MinEaseFactor is the lower bound the ease factor is clamped to.
	MinEaseFactor float64

	// FirstInterval and SecondInterval are the intervals, in days, assigned
	// on the first and second consecutive successful reviews.
	FirstInterval  int
	SecondInterval int

	// LapseInterval is the interval assigned after an unsuccessful review.
	LapseInterval int

	// PassingQuality is the lowest quality that counts as a successful
	// recall for scheduling purposes.
	PassingQuality int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	FirstInterval  int
	SecondInterval int
	LapseInterval  int
}

// NewDefaultParams returns the standard SM-2 parameters.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:  domain.MinEaseFactor,
		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
		PassingQuality: domain.GradeGood.Quality(),
	}
}

// NewParams creates a new Params instance, overriding defaults with any
// positive values in config.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
