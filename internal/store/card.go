package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
)

// DueCardsFilter selects the cards due for review.
type DueCardsFilter struct {
	UserID uuid.UUID
	DeckID *uuid.UUID // optional
	Now    time.Time
	Limit  int
}

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves an active card owned by userID.
	// Returns ErrCardNotFound if the card does not exist, is owned by
	// someone else or has been deactivated.
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// GetForUpdate is GetByID with the card row locked until the surrounding
	// transaction ends. It MUST be called on a store obtained from WithTx.
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// Update writes the card's scheduling state, counters and history.
	// The write only succeeds when the stored version equals card.Version;
	// on success card.Version is incremented. Returns ErrConflict on a
	// version mismatch and ErrCardNotFound when the card is gone.
	Update(ctx context.Context, card *domain.Card) error

	// Deactivate soft-deletes an active card owned by userID and returns it.
	// Returns ErrCardNotFound if there is no such active card.
	Deactivate(ctx context.Context, userID, cardID uuid.UUID, now time.Time) (*domain.Card, error)

	// ListDue returns active cards with NextReviewAt <= filter.Now ordered
	// by NextReviewAt, oldest first.
	ListDue(ctx context.Context, filter DueCardsFilter) ([]*domain.Card, error)

	// WithTx returns a CardStore that runs its queries in tx.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       card, err := cardStore.WithTx(tx).GetForUpdate(ctx, userID, cardID)
	//       ...
	//   })
	WithTx(tx *sql.Tx) CardStore
}
