package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/review"
)

// CreateDeckRequest defines the payload for creating a deck.
type CreateDeckRequest struct {
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Language    string   `json:"language"    validate:"required,max=32"`
	Category    string   `json:"category"    validate:"required,max=50"`
	Difficulty  string   `json:"difficulty"  validate:"omitempty,oneof=beginner intermediate advanced"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags"        validate:"max=20,dive,max=50"`
	Color       string   `json:"color"       validate:"omitempty,hexcolor"`
}

// toInput converts the request to a service input.
func (r CreateDeckRequest) toInput() service.DeckInput {
	return service.DeckInput{
		Name:        r.Name,
		Description: r.Description,
		Language:    r.Language,
		Category:    r.Category,
		Difficulty:  domain.Difficulty(r.Difficulty),
		IsPublic:    r.IsPublic,
		Tags:        r.Tags,
		Color:       r.Color,
	}
}

// DeckResponse is the JSON representation of a deck.
type DeckResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	IsPublic    bool      `json:"is_public"`
	Tags        []string  `json:"tags,omitempty"`
	CardCount   int       `json:"card_count"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func deckToResponse(d *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Language:    d.Language,
		Category:    d.Category,
		Difficulty:  string(d.Difficulty),
		IsPublic:    d.IsPublic,
		Tags:        d.Tags,
		CardCount:   d.CardCount,
		Color:       d.Color,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// CreateCardRequest defines the payload for adding a card to a deck.
type CreateCardRequest struct {
	Front        string     `json:"front"         validate:"required,max=1000"`
	Back         string     `json:"back"          validate:"required,max=1000"`
	Notes        string     `json:"notes"         validate:"max=2000"`
	Hints        []string   `json:"hints"         validate:"max=10,dive,max=200"`
	Tags         []string   `json:"tags"          validate:"max=20,dive,max=50"`
	Difficulty   string     `json:"difficulty"    validate:"omitempty,oneof=beginner intermediate advanced"`
	Priority     int        `json:"priority"      validate:"gte=0,lte=10"`
	VocabularyID *uuid.UUID `json:"vocabulary_id"`
}

func (r CreateCardRequest) toContent() domain.CardContent {
	return domain.CardContent{
		Front:        r.Front,
		Back:         r.Back,
		Notes:        r.Notes,
		Hints:        r.Hints,
		Tags:         r.Tags,
		Difficulty:   domain.Difficulty(r.Difficulty),
		Priority:     r.Priority,
		VocabularyID: r.VocabularyID,
	}
}

// CardResponse is the JSON representation of a card and its review state.
type CardResponse struct {
	ID             uuid.UUID  `json:"id"`
	DeckID         uuid.UUID  `json:"deck_id"`
	VocabularyID   *uuid.UUID `json:"vocabulary_id,omitempty"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Notes          string     `json:"notes,omitempty"`
	Hints          []string   `json:"hints,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	Difficulty     string     `json:"difficulty"`
	Priority       int        `json:"priority"`
	Status         string     `json:"status"`
	EaseFactor     float64    `json:"ease_factor"`
	Interval       int        `json:"interval"`
	Repetition     int        `json:"repetition"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	ReviewCount    int        `json:"review_count"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func cardToResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:             c.ID,
		DeckID:         c.DeckID,
		VocabularyID:   c.VocabularyID,
		Front:          c.Front,
		Back:           c.Back,
		Notes:          c.Notes,
		Hints:          c.Hints,
		Tags:           c.Tags,
		Difficulty:     string(c.Difficulty),
		Priority:       c.Priority,
		Status:         string(c.Status()),
		EaseFactor:     c.EaseFactor,
		Interval:       c.Interval,
		Repetition:     c.Repetition,
		NextReviewAt:   c.NextReviewAt,
		LastReviewedAt: c.LastReviewedAt,
		ReviewCount:    c.ReviewCount,
		CorrectCount:   c.CorrectCount,
		IncorrectCount: c.IncorrectCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// DueCardsResponse lists cards due for review.
type DueCardsResponse struct {
	Cards []CardResponse `json:"cards"`
	Count int            `json:"count"`
}

// SubmitReviewRequest defines the payload for grading a card.
type SubmitReviewRequest struct {
	Grade     string `json:"grade"      validate:"required,oneof=again hard good easy"`
	TimeSpent *int   `json:"time_spent" validate:"required,gte=0"`
}

// SubmitReviewResponse reports the card's new schedule after a review.
type SubmitReviewResponse struct {
	CardID              uuid.UUID `json:"card_id"`
	Status              string    `json:"status"`
	EaseFactor          float64   `json:"ease_factor"`
	Interval            int       `json:"interval"`
	Repetition          int       `json:"repetition"`
	NextReviewAt        time.Time `json:"next_review_at"`
	ExperienceGained    int       `json:"experience_gained"`
	DaysUntilNextReview int       `json:"days_until_next_review"`
}

func outcomeToResponse(o *review.Outcome) SubmitReviewResponse {
	return SubmitReviewResponse{
		CardID:              o.Card.ID,
		Status:              string(o.Card.Status()),
		EaseFactor:          o.Card.EaseFactor,
		Interval:            o.Card.Interval,
		Repetition:          o.Card.Repetition,
		NextReviewAt:        o.Card.NextReviewAt,
		ExperienceGained:    o.ExperienceGained,
		DaysUntilNextReview: o.DaysUntilNextReview,
	}
}

// RecordVocabularyRequest records one vocabulary answer.
type RecordVocabularyRequest struct {
	Language  string    `json:"language"   validate:"required,max=32"`
	WordID    uuid.UUID `json:"word_id"    validate:"required"`
	Correct   bool      `json:"correct"`
	TimeSpent int       `json:"time_spent" validate:"gte=0"`
}

// RecordRuleRequest records one grammar or punctuation answer.
type RecordRuleRequest struct {
	Language  string    `json:"language"   validate:"required,max=32"`
	RuleID    uuid.UUID `json:"rule_id"    validate:"required"`
	Correct   bool      `json:"correct"`
	Points    int       `json:"points"     validate:"gte=0"`
	TimeSpent int       `json:"time_spent" validate:"gte=0"`
}

// RecordQuizRequest records a completed quiz.
type RecordQuizRequest struct {
	Language       string     `json:"language"        validate:"required,max=32"`
	QuizID         *uuid.UUID `json:"quiz_id"`
	CorrectCount   int        `json:"correct_count"   validate:"gte=0,ltefield=TotalQuestions"`
	TotalQuestions int        `json:"total_questions" validate:"gt=0"`
	TotalPoints    int        `json:"total_points"    validate:"gte=0"`
	TimeSpent      int        `json:"time_spent"      validate:"gte=0"`
	Difficulty     string     `json:"difficulty"      validate:"omitempty,oneof=beginner intermediate advanced"`
}

func (r RecordQuizRequest) toSubmission() service.QuizSubmission {
	return service.QuizSubmission{
		QuizID:         r.QuizID,
		CorrectCount:   r.CorrectCount,
		TotalQuestions: r.TotalQuestions,
		TotalPoints:    r.TotalPoints,
		TimeSpent:      r.TimeSpent,
		Difficulty:     domain.Difficulty(r.Difficulty),
	}
}

// VocabularyReviewResponse lists mastered words due for refresh.
type VocabularyReviewResponse struct {
	Language string                  `json:"language"`
	Words    []progress.MasteredWord `json:"words"`
	Count    int                     `json:"count"`
}
