package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// DeckInput describes a deck to create.
type DeckInput struct {
	Name        string
	Description string
	Language    string
	Category    string
	Difficulty  domain.Difficulty
	IsPublic    bool
	Tags        []string
	Color       string
}

// CardService manages decks and the cards in them.
type CardService interface {
	// CreateDeck creates a deck owned by userID.
	CreateDeck(ctx context.Context, userID uuid.UUID, input DeckInput) (*domain.Deck, error)

	// CreateCard adds a card to a deck owned by userID and increments the
	// deck's card count in the same transaction.
	// Returns ErrDeckNotFound when the deck is missing or not owned.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// CreateCards adds several cards to one deck atomically. Used by the
	// spreadsheet importer.
	CreateCards(ctx context.Context, userID, deckID uuid.UUID, contents []domain.CardContent) ([]*domain.Card, error)

	// GetCard returns an active card owned by userID.
	// Returns ErrCardNotFound when there is no such card.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// DeactivateCard soft-deletes a card and decrements its deck's card
	// count. Returns ErrCardNotFound when there is no such active card.
	DeactivateCard(ctx context.Context, userID, cardID uuid.UUID) error
}

type cardServiceImpl struct {
	uow    store.UnitOfWork
	cards  store.CardStore
	now    func() time.Time
	logger *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(uow store.UnitOfWork, cards store.CardStore, logger *slog.Logger) (CardService, error) {
	if uow == nil {
		return nil, domain.NewValidationError("uow", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		uow:    uow,
		cards:  cards,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateDeck implements CardService.CreateDeck
func (s *cardServiceImpl) CreateDeck(ctx context.Context, userID uuid.UUID, input DeckInput) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, input.Name, input.Language, input.Category)
	if err != nil {
		return nil, err
	}
	deck.Description = input.Description
	deck.IsPublic = input.IsPublic
	deck.Tags = input.Tags
	if input.Difficulty != "" {
		deck.Difficulty = input.Difficulty
	}
	if input.Color != "" {
		deck.Color = input.Color
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx store.Stores) error {
		return tx.Decks.Create(ctx, deck)
	})
	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewCardServiceError("create_deck", "failed to save deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("language", deck.Language))
	return deck, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	cards, err := s.CreateCards(ctx, userID, deckID, []domain.CardContent{content})
	if err != nil {
		return nil, err
	}
	return cards[0], nil
}

// CreateCards implements CardService.CreateCards
func (s *cardServiceImpl) CreateCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	contents []domain.CardContent,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(contents) == 0 {
		return nil, fmt.Errorf("%w: no cards to create", ErrInvalidInput)
	}

	cards := make([]*domain.Card, 0, len(contents))
	for i, content := range contents {
		card, err := domain.NewCard(userID, deckID, content)
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		cards = append(cards, card)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx store.Stores) error {
		if _, err := tx.Decks.GetByID(ctx, userID, deckID); err != nil {
			if store.IsNotFoundError(err) {
				return ErrDeckNotFound
			}
			return fmt.Errorf("failed to get deck: %w", err)
		}
		for _, card := range cards {
			if err := tx.Cards.Create(ctx, card); err != nil {
				return fmt.Errorf("failed to create card: %w", err)
			}
		}
		if err := tx.Decks.IncrementCardCount(ctx, deckID, len(cards)); err != nil {
			return fmt.Errorf("failed to update deck card count: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, err
		}
		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.Int("card_count", len(cards)))
		return nil, NewCardServiceError("create_cards", "failed to save cards", err)
	}

	log.Debug("cards created",
		slog.String("deck_id", deckID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, userID, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		return nil, NewCardServiceError("get_card", "failed to get card", err)
	}
	return card, nil
}

// DeactivateCard implements CardService.DeactivateCard
func (s *cardServiceImpl) DeactivateCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.uow.Do(ctx, func(ctx context.Context, tx store.Stores) error {
		card, err := tx.Cards.Deactivate(ctx, userID, cardID, s.now())
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to deactivate card: %w", err)
		}
		if err := tx.Decks.IncrementCardCount(ctx, card.DeckID, -1); err != nil {
			return fmt.Errorf("failed to update deck card count: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return err
		}
		log.Error("failed to deactivate card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return NewCardServiceError("deactivate_card", "failed to deactivate card", err)
	}

	log.Info("card deactivated", slog.String("card_id", cardID.String()))
	return nil
}
