package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
)

const deckColumns = `id, user_id, name, description, language, category, difficulty,
	is_public, tags, card_count, color, created_at, updated_at`

// PostgresDeckStore implements store.DeckStore.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	tags, err := marshalJSONB(deck.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode deck tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decks (`+deckColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		deck.ID, deck.UserID, deck.Name, deck.Description, deck.Language, deck.Category,
		string(deck.Difficulty), deck.IsPublic, tags, deck.CardCount, deck.Color,
		deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		s.logger.Error("failed to create deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "create", "failed to insert deck", MapError(err))
	}
	return nil
}

// GetByID implements store.DeckStore.
func (s *PostgresDeckStore) GetByID(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	var (
		deck       domain.Deck
		difficulty string
		tags       []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT `+deckColumns+`
		FROM decks
		WHERE id = $1 AND user_id = $2`,
		deckID, userID,
	).Scan(
		&deck.ID, &deck.UserID, &deck.Name, &deck.Description, &deck.Language, &deck.Category,
		&difficulty, &deck.IsPublic, &tags, &deck.CardCount, &deck.Color,
		&deck.CreatedAt, &deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "get", "failed to load deck", MapError(err))
	}

	deck.Difficulty = domain.Difficulty(difficulty)
	if err := unmarshalJSONB(tags, &deck.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode deck tags: %w", err)
	}
	return &deck, nil
}

// IncrementCardCount implements store.DeckStore.
func (s *PostgresDeckStore) IncrementCardCount(ctx context.Context, deckID uuid.UUID, delta int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE decks
		SET card_count = GREATEST(card_count + $2, 0), updated_at = NOW()
		WHERE id = $1`,
		deckID, delta,
	)
	if err != nil {
		return store.NewStoreError("deck", "update", "failed to update card count", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}
