package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// CardStore is a testify mock of store.CardStore. WithTx returns the
// receiver so expectations set on it apply inside transactions too.
type CardStore struct {
	mock.Mock
}

var _ store.CardStore = (*CardStore)(nil)

// Create is a mock implementation of store.CardStore.Create
func (m *CardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

// GetByID is a mock implementation of store.CardStore.GetByID
func (m *CardStore) GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetForUpdate is a mock implementation of store.CardStore.GetForUpdate
func (m *CardStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.CardStore.Update
func (m *CardStore) Update(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

// Deactivate is a mock implementation of store.CardStore.Deactivate
func (m *CardStore) Deactivate(ctx context.Context, userID, cardID uuid.UUID, now time.Time) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID, now)
	if card, ok := args.Get(0).(*domain.Card); ok {
		return card, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListDue is a mock implementation of store.CardStore.ListDue
func (m *CardStore) ListDue(ctx context.Context, filter store.DueCardsFilter) ([]*domain.Card, error) {
	args := m.Called(ctx, filter)
	if cards, ok := args.Get(0).([]*domain.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

// WithTx returns m.
func (m *CardStore) WithTx(*sql.Tx) store.CardStore {
	return m
}

// DeckStore is a testify mock of store.DeckStore.
type DeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*DeckStore)(nil)

// Create is a mock implementation of store.DeckStore.Create
func (m *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

// GetByID is a mock implementation of store.DeckStore.GetByID
func (m *DeckStore) GetByID(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, userID, deckID)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

// IncrementCardCount is a mock implementation of store.DeckStore.IncrementCardCount
func (m *DeckStore) IncrementCardCount(ctx context.Context, deckID uuid.UUID, delta int) error {
	return m.Called(ctx, deckID, delta).Error(0)
}

// WithTx returns m.
func (m *DeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}

// ReviewStore is a testify mock of store.ReviewStore.
type ReviewStore struct {
	mock.Mock
}

var _ store.ReviewStore = (*ReviewStore)(nil)

// Create is a mock implementation of store.ReviewStore.Create
func (m *ReviewStore) Create(ctx context.Context, record *domain.ReviewRecord) error {
	return m.Called(ctx, record).Error(0)
}

// WithTx returns m.
func (m *ReviewStore) WithTx(*sql.Tx) store.ReviewStore {
	return m
}

// ProgressStore is a testify mock of store.ProgressStore.
type ProgressStore struct {
	mock.Mock
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Get is a mock implementation of store.ProgressStore.Get
func (m *ProgressStore) Get(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error) {
	args := m.Called(ctx, userID, language)
	if p, ok := args.Get(0).(*progress.UserProgress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetOrCreateForUpdate is a mock implementation of store.ProgressStore.GetOrCreateForUpdate
func (m *ProgressStore) GetOrCreateForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	language string,
) (*progress.UserProgress, error) {
	args := m.Called(ctx, userID, language)
	if p, ok := args.Get(0).(*progress.UserProgress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.ProgressStore.Update
func (m *ProgressStore) Update(ctx context.Context, p *progress.UserProgress) error {
	return m.Called(ctx, p).Error(0)
}

// WithTx returns m.
func (m *ProgressStore) WithTx(*sql.Tx) store.ProgressStore {
	return m
}
