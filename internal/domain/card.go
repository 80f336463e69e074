package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default scheduling state for a freshly created card.
const (
	DefaultEaseFactor = 2.5
	DefaultInterval   = 1
	MinEaseFactor     = 1.3

	// MasteredIntervalDays is the interval at which a card in review is
	// considered mastered.
	MasteredIntervalDays = 21
	// ReviewRepetitions is the consecutive-correct count after which a card
	// leaves the learning phase.
	ReviewRepetitions = 3

	maxPriority = 10
)

// Card-specific validation errors
var (
	ErrCardIDEmpty       = errors.New("card ID cannot be empty")
	ErrCardUserIDEmpty   = errors.New("card user ID cannot be empty")
	ErrCardDeckIDEmpty   = errors.New("card deck ID cannot be empty")
	ErrCardFrontEmpty    = errors.New("card front cannot be empty")
	ErrCardBackEmpty     = errors.New("card back cannot be empty")
	ErrInvalidPriority   = errors.New("card priority must be between 0 and 10")
	ErrInvalidEase       = errors.New("ease factor must be at least 1.3")
	ErrInvalidInterval   = errors.New("interval must be at least 1 once a card has been repeated")
	ErrInvalidRepetition = errors.New("repetition cannot be negative")
)

// Status is the coarse learning bucket of a card. It is always derived from
// the repetition count and interval and is never stored independently.
type Status string

// Possible status values
const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusReview   Status = "review"
	StatusMastered Status = "mastered"
)

// DeriveStatus computes the status bucket for the given scheduling state.
func DeriveStatus(repetition, interval int) Status {
	switch {
	case repetition == 0:
		return StatusNew
	case repetition < ReviewRepetitions:
		return StatusLearning
	case interval < MasteredIntervalDays:
		return StatusReview
	default:
		return StatusMastered
	}
}

// ReviewHistoryEntry is one grading event in a card's history.
type ReviewHistoryEntry struct {
	ReviewedAt       time.Time `json:"reviewed_at"`
	Grade            Grade     `json:"grade"`
	TimeSpent        int       `json:"time_spent"`
	PreviousInterval int       `json:"previous_interval"`
	NewInterval      int       `json:"new_interval"`
}

// Schedule is the scheduling state a card moves to after a graded review.
type Schedule struct {
	EaseFactor   float64
	Interval     int
	Repetition   int
	NextReviewAt time.Time
}

// Status returns the status bucket implied by the schedule.
func (s Schedule) Status() Status {
	return DeriveStatus(s.Repetition, s.Interval)
}

// Card is a flashcard owned by a user inside a deck, together with its
// spaced-repetition review state.
type Card struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	DeckID         uuid.UUID            `json:"deck_id"`
	VocabularyID   *uuid.UUID           `json:"vocabulary_id,omitempty"`
	Front          string               `json:"front"`
	Back           string               `json:"back"`
	Notes          string               `json:"notes,omitempty"`
	Hints          []string             `json:"hints,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	Difficulty     Difficulty           `json:"difficulty"`
	Priority       int                  `json:"priority"`
	EaseFactor     float64              `json:"ease_factor"`
	Interval       int                  `json:"interval"`
	Repetition     int                  `json:"repetition"`
	NextReviewAt   time.Time            `json:"next_review_at"`
	LastReviewedAt *time.Time           `json:"last_reviewed_at,omitempty"`
	ReviewCount    int                  `json:"review_count"`
	CorrectCount   int                  `json:"correct_count"`
	IncorrectCount int                  `json:"incorrect_count"`
	History        []ReviewHistoryEntry `json:"history"`
	Active         bool                 `json:"active"`
	Version        int                  `json:"-"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// CardContent holds the user-editable parts of a card.
type CardContent struct {
	Front        string
	Back         string
	Notes        string
	Hints        []string
	Tags         []string
	Difficulty   Difficulty
	Priority     int
	VocabularyID *uuid.UUID
}

// NewCard creates a new active Card in the given deck with default
// scheduling state. The card is due for review immediately.
func NewCard(userID, deckID uuid.UUID, content CardContent) (*Card, error) {
	now := time.Now().UTC()
	difficulty := content.Difficulty
	if difficulty == "" {
		difficulty = DifficultyBeginner
	}
	card := &Card{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       deckID,
		VocabularyID: content.VocabularyID,
		Front:        strings.TrimSpace(content.Front),
		Back:         strings.TrimSpace(content.Back),
		Notes:        content.Notes,
		Hints:        content.Hints,
		Tags:         content.Tags,
		Difficulty:   difficulty,
		Priority:     content.Priority,
		EaseFactor:   DefaultEaseFactor,
		Interval:     DefaultInterval,
		Repetition:   0,
		NextReviewAt: now,
		History:      []ReviewHistoryEntry{},
		Active:       true,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Status returns the card's derived status bucket.
func (c *Card) Status() Status {
	return DeriveStatus(c.Repetition, c.Interval)
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}
	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}
	if c.Front == "" {
		return NewValidationError("front", "cannot be empty", ErrCardFrontEmpty)
	}
	if c.Back == "" {
		return NewValidationError("back", "cannot be empty", ErrCardBackEmpty)
	}
	if c.Priority < 0 || c.Priority > maxPriority {
		return NewValidationError("priority", "must be between 0 and 10", ErrInvalidPriority)
	}
	if !c.Difficulty.Valid() {
		return NewValidationError("difficulty", "is not a known difficulty", ErrInvalidDifficulty)
	}
	if c.EaseFactor < MinEaseFactor {
		return ErrInvalidEase
	}
	if c.Repetition < 0 {
		return ErrInvalidRepetition
	}
	if c.Repetition > 0 && c.Interval < 1 {
		return ErrInvalidInterval
	}
	return nil
}

// ApplyReview moves the card to the given schedule and records the review:
// counters are incremented and a history entry is appended. The previous
// interval is taken from the card before the update.
func (c *Card) ApplyReview(s Schedule, grade Grade, timeSpent int, now time.Time) {
	previousInterval := c.Interval

	c.EaseFactor = s.EaseFactor
	c.Interval = s.Interval
	c.Repetition = s.Repetition
	c.NextReviewAt = s.NextReviewAt
	reviewedAt := now
	c.LastReviewedAt = &reviewedAt
	c.ReviewCount++
	if grade.CountsAsCorrect() {
		c.CorrectCount++
	} else {
		c.IncorrectCount++
	}

	c.History = append(c.History, ReviewHistoryEntry{
		ReviewedAt:       now,
		Grade:            grade,
		TimeSpent:        timeSpent,
		PreviousInterval: previousInterval,
		NewInterval:      s.Interval,
	})
	c.UpdatedAt = now
}

// Deactivate soft-deletes the card. Inactive cards are excluded from
// review selection and cannot be reviewed.
func (c *Card) Deactivate(now time.Time) {
	c.Active = false
	c.UpdatedAt = now
}
