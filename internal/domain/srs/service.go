package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/lingua-api/internal/domain"
)

// Common errors
var (
	ErrNilCard      = errors.New("card cannot be nil")
	ErrInvalidGrade = domain.ErrInvalidGrade
)

// Service defines the interface for scheduling operations
type Service interface {
	// CalculateNextReview computes the schedule a card moves to when it is
	// graded at now. The card itself is not modified.
	CalculateNextReview(card *domain.Card, grade domain.Grade, now time.Time) (Result, error)

	// VocabularyReviewInterval returns the number of days until a mastered
	// vocabulary word should be reviewed again.
	VocabularyReviewInterval(reviewCount int, accuracy float64) int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements Service.
func (s *defaultService) CalculateNextReview(
	card *domain.Card,
	grade domain.Grade,
	now time.Time,
) (Result, error) {
	if card == nil {
		return Result{}, ErrNilCard
	}
	return schedule(StateOf(card), grade, now, s.params)
}

// VocabularyReviewInterval implements Service.
func (s *defaultService) VocabularyReviewInterval(reviewCount int, accuracy float64) int {
	return VocabularyReviewInterval(reviewCount, accuracy)
}
