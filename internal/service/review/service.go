package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
)

// Service grades flashcards and lists the cards due for review.
type Service interface {
	// SubmitReview records a graded review of a card.
	//
	// Within a single transaction it locks the card, moves it to the schedule
	// computed by the scheduler, updates its counters and history, appends an
	// immutable review record and folds the review into the owner's progress
	// for the deck's language.
	//
	// Returns:
	//   - (*Outcome, nil): the updated card and the experience gained
	//   - (nil, ErrInvalidInput): grade or time spent is invalid; nothing is read
	//   - (nil, ErrCardNotFound): the card does not exist, is not owned by
	//     userID or has been deactivated
	//   - (nil, error): wrapping store.ErrConflict when a concurrent review
	//     won the race, or any persistence failure
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		grade domain.Grade,
		timeSpent int,
	) (*Outcome, error)

	// GetDueCards returns the user's active cards with a next review time at
	// or before now, oldest first. A zero limit uses the configured default
	// and larger limits are capped at the configured maximum.
	GetDueCards(ctx context.Context, userID uuid.UUID, query DueCardsQuery) ([]*domain.Card, error)
}

// Outcome is the result of a submitted review.
type Outcome struct {
	Card                *domain.Card
	ExperienceGained    int
	DaysUntilNextReview int
}

// DueCardsQuery narrows a due-card listing.
type DueCardsQuery struct {
	DeckID *uuid.UUID
	Limit  int
}

// Limits bounds due-card listings.
type Limits struct {
	DefaultDueLimit int
	MaxDueLimit     int
}

// DefaultLimits returns the default listing bounds.
func DefaultLimits() Limits {
	return Limits{DefaultDueLimit: 20, MaxDueLimit: 100}
}

var (
	// ErrInvalidInput indicates a malformed review submission or query.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCardNotFound indicates the card does not exist or is not
	// reviewable by the requesting user.
	ErrCardNotFound = errors.New("card not found")
)

// ServiceError wraps errors from the review service with the operation that
// failed, so callers can use errors.As instead of string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewGetDueCardsError returns a ServiceError for the get_due_cards operation.
func NewGetDueCardsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "get_due_cards", Message: message, Err: err}
}

// Option configures the service.
type Option func(*serviceImpl)

// WithClock replaces time.Now as the source of the review time.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) {
		s.now = now
	}
}

// WithLimits sets the due-card listing bounds. Non-positive values keep the
// defaults.
func WithLimits(limits Limits) Option {
	return func(s *serviceImpl) {
		if limits.MaxDueLimit > 0 {
			s.limits.MaxDueLimit = limits.MaxDueLimit
		}
		if limits.DefaultDueLimit > 0 {
			s.limits.DefaultDueLimit = min(limits.DefaultDueLimit, s.limits.MaxDueLimit)
		}
	}
}
