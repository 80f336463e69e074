package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrReviewCardIDEmpty is returned when a review record lacks its card.
var ErrReviewCardIDEmpty = errors.New("review card ID cannot be empty")

// ReviewRecord is the immutable audit entry written once per graded review.
type ReviewRecord struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	CardID             uuid.UUID `json:"card_id"`
	DeckID             uuid.UUID `json:"deck_id"`
	Grade              Grade     `json:"grade"`
	TimeSpent          int       `json:"time_spent"`
	PreviousEaseFactor float64   `json:"previous_ease_factor"`
	NewEaseFactor      float64   `json:"new_ease_factor"`
	PreviousInterval   int       `json:"previous_interval"`
	NewInterval        int       `json:"new_interval"`
	ReviewedAt         time.Time `json:"reviewed_at"`
}

// NewReviewRecord captures the transition of card from the given previous
// ease and interval to its current state.
func NewReviewRecord(
	card *Card,
	grade Grade,
	timeSpent int,
	previousEase float64,
	previousInterval int,
	now time.Time,
) (*ReviewRecord, error) {
	if card == nil || card.ID == uuid.Nil {
		return nil, ErrReviewCardIDEmpty
	}
	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}

	return &ReviewRecord{
		ID:                 uuid.New(),
		UserID:             card.UserID,
		CardID:             card.ID,
		DeckID:             card.DeckID,
		Grade:              grade,
		TimeSpent:          timeSpent,
		PreviousEaseFactor: previousEase,
		NewEaseFactor:      card.EaseFactor,
		PreviousInterval:   previousInterval,
		NewInterval:        card.Interval,
		ReviewedAt:         now,
	}, nil
}
