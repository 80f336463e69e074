package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck owned by userID.
	// Returns ErrDeckNotFound if the deck does not exist or belongs to
	// another user.
	GetByID(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// IncrementCardCount adds delta to the deck's card count, never going
	// below zero. Returns ErrDeckNotFound if the deck does not exist.
	IncrementCardCount(ctx context.Context, deckID uuid.UUID, delta int) error

	// WithTx returns a DeckStore that runs its queries in tx.
	WithTx(tx *sql.Tx) DeckStore
}
