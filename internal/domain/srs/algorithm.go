package srs

import (
	"math"
	"time"

	"github.com/phrazzld/lingua-api/internal/domain"
)

// State is the scheduling state of a card before a review.
type State struct {
	EaseFactor float64
	Interval   int
	Repetition int
}

// StateOf extracts the scheduling state from a card.
func StateOf(card *domain.Card) State {
	return State{
		EaseFactor: card.EaseFactor,
		Interval:   card.Interval,
		Repetition: card.Repetition,
	}
}

// Result is the scheduling state of a card after a review.
type Result struct {
	EaseFactor   float64
	Interval     int
	Repetition   int
	NextReviewAt time.Time
	Status       domain.Status
}

// Schedule converts the result into the form applied to a card.
func (r Result) Schedule() domain.Schedule {
	return domain.Schedule{
		EaseFactor:   r.EaseFactor,
		Interval:     r.Interval,
		Repetition:   r.Repetition,
		NextReviewAt: r.NextReviewAt,
	}
}

// Schedule computes the next scheduling state for a card graded at now,
// using the default parameters. It is pure: the same inputs always give the
// same output.
func Schedule(state State, grade domain.Grade, now time.Time) (Result, error) {
	return schedule(state, grade, now, NewDefaultParams())
}

func schedule(state State, grade domain.Grade, now time.Time, params *Params) (Result, error) {
	if !grade.Valid() {
		return Result{}, ErrInvalidGrade
	}
	q := grade.Quality()

	interval, repetition := calculateNewInterval(state, q, params)
	ease := calculateNewEaseFactor(state.EaseFactor, q, params)

	return Result{
		EaseFactor:   ease,
		Interval:     interval,
		Repetition:   repetition,
		NextReviewAt: calculateNextReviewDate(interval, now),
		Status:       domain.DeriveStatus(repetition, interval),
	}, nil
}

// calculateNewInterval determines the new interval and repetition count.
//
// A passing quality advances the repetition count and grows the interval:
// the first pass gets params.FirstInterval, the second params.SecondInterval,
// and every later pass multiplies the current interval by the current
// (pre-update) ease factor, rounded half away from zero. A failing quality
// resets the repetition count and drops the interval to params.LapseInterval.
func calculateNewInterval(state State, q int, params *Params) (interval, repetition int) {
	if q < params.PassingQuality {
		return params.LapseInterval, 0
	}

	switch state.Repetition {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(state.Interval) * state.EaseFactor))
	}
	if interval < 1 {
		interval = 1
	}

	return interval, state.Repetition + 1
}

// calculateNewEaseFactor applies the SM-2 ease update using the 0..3
// quality of the grade against the classic 5-point anchor. On this scale
// every grade lowers the ease (easy by 0.14, good by 0.32), and the result
// never drops below params.MinEaseFactor.
func calculateNewEaseFactor(current float64, q int, params *Params) float64 {
	d := float64(5 - q)
	next := current + 0.1 - d*(0.08+d*0.02)
	return math.Max(params.MinEaseFactor, next)
}

// calculateNextReviewDate places the next review interval calendar days
// after now.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}
