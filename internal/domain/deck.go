package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDeckColor is used when a deck is created without a color.
const DefaultDeckColor = "#3B82F6"

// Difficulty is the declared difficulty of a deck or card.
type Difficulty string

// Possible difficulty values
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// Deck validation errors
var (
	ErrDeckIDEmpty       = errors.New("deck ID cannot be empty")
	ErrDeckUserIDEmpty   = errors.New("deck user ID cannot be empty")
	ErrDeckNameEmpty     = errors.New("deck name cannot be empty")
	ErrDeckLanguageEmpty = errors.New("deck language cannot be empty")
	ErrDeckCategoryEmpty = errors.New("deck category cannot be empty")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// Deck groups a user's flashcards for one language.
type Deck struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Language    string     `json:"language"`
	Category    string     `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	IsPublic    bool       `json:"is_public"`
	Tags        []string   `json:"tags,omitempty"`
	CardCount   int        `json:"card_count"`
	Color       string     `json:"color"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewDeck creates a deck for the user. The language is normalized to
// lower case and missing optional fields get their defaults.
func NewDeck(userID uuid.UUID, name, language, category string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		Language:   NormalizeLanguage(language),
		Category:   strings.TrimSpace(category),
		Difficulty: DifficultyBeginner,
		Color:      DefaultDeckColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}
	if d.UserID == uuid.Nil {
		return ErrDeckUserIDEmpty
	}
	if d.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrDeckNameEmpty)
	}
	if d.Language == "" {
		return NewValidationError("language", "cannot be empty", ErrDeckLanguageEmpty)
	}
	if d.Category == "" {
		return NewValidationError("category", "cannot be empty", ErrDeckCategoryEmpty)
	}
	if !d.Difficulty.Valid() {
		return NewValidationError("difficulty", "is not a known difficulty", ErrInvalidDifficulty)
	}
	return nil
}

// NormalizeLanguage lower-cases and trims a language key.
func NormalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
