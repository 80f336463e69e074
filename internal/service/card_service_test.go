package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/mocks"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cardFixture struct {
	userID uuid.UUID
	deck   *domain.Deck
	cards  *mocks.CardStore
	decks  *mocks.DeckStore
	uow    *mocks.UnitOfWork
	svc    service.CardService
}

func newCardFixture(t *testing.T) *cardFixture {
	t.Helper()

	userID := uuid.New()
	f := &cardFixture{
		userID: userID,
		deck:   &domain.Deck{ID: uuid.New(), UserID: userID, Name: "Verbs", Language: "french", Category: "grammar"},
		cards:  &mocks.CardStore{},
		decks:  &mocks.DeckStore{},
	}
	f.uow = &mocks.UnitOfWork{Stores: store.Stores{Cards: f.cards, Decks: f.decks}}

	svc, err := service.NewCardService(f.uow, f.cards, nil)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewCardService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := service.NewCardService(nil, &mocks.CardStore{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewCardService(&mocks.UnitOfWork{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateDeck(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults and normalizes language", func(t *testing.T) {
		f := newCardFixture(t)
		f.decks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deck")).Return(nil)

		deck, err := f.svc.CreateDeck(context.Background(), f.userID, service.DeckInput{
			Name:     "  Food  ",
			Language: " Spanish ",
			Category: "vocabulary",
		})

		require.NoError(t, err)
		assert.Equal(t, "Food", deck.Name)
		assert.Equal(t, "spanish", deck.Language)
		assert.Equal(t, domain.DifficultyBeginner, deck.Difficulty)
		assert.Equal(t, domain.DefaultDeckColor, deck.Color)
		assert.Equal(t, f.userID, deck.UserID)
		f.decks.AssertExpectations(t)
	})

	t.Run("keeps explicit options", func(t *testing.T) {
		f := newCardFixture(t)
		f.decks.On("Create", mock.Anything, mock.Anything).Return(nil)

		deck, err := f.svc.CreateDeck(context.Background(), f.userID, service.DeckInput{
			Name:       "Subjunctive",
			Language:   "spanish",
			Category:   "grammar",
			Difficulty: domain.DifficultyAdvanced,
			Color:      "#000000",
			IsPublic:   true,
			Tags:       []string{"verbs"},
		})

		require.NoError(t, err)
		assert.Equal(t, domain.DifficultyAdvanced, deck.Difficulty)
		assert.Equal(t, "#000000", deck.Color)
		assert.True(t, deck.IsPublic)
		assert.Equal(t, []string{"verbs"}, deck.Tags)
	})

	t.Run("rejects invalid input before saving", func(t *testing.T) {
		f := newCardFixture(t)

		_, err := f.svc.CreateDeck(context.Background(), f.userID, service.DeckInput{
			Name:       "Deck",
			Language:   "spanish",
			Category:   "grammar",
			Difficulty: domain.Difficulty("impossible"),
		})

		assert.ErrorIs(t, err, domain.ErrInvalidDifficulty)
		assert.Zero(t, f.uow.Calls)
	})

	t.Run("missing name", func(t *testing.T) {
		f := newCardFixture(t)

		_, err := f.svc.CreateDeck(context.Background(), f.userID, service.DeckInput{Language: "spanish", Category: "x"})

		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "name", vErr.Field)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newCardFixture(t)
		dbErr := errors.New("disk full")
		f.decks.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		_, err := f.svc.CreateDeck(context.Background(), f.userID, service.DeckInput{
			Name: "Deck", Language: "spanish", Category: "grammar",
		})

		assert.ErrorIs(t, err, dbErr)
		var svcErr *service.CardServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_deck", svcErr.Operation)
	})
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("creates card and increments deck count", func(t *testing.T) {
		f := newCardFixture(t)
		f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
		f.cards.On("Create", mock.Anything, mock.AnythingOfType("*domain.Card")).Return(nil)
		f.decks.On("IncrementCardCount", mock.Anything, f.deck.ID, 1).Return(nil)

		card, err := f.svc.CreateCard(context.Background(), f.userID, f.deck.ID, domain.CardContent{
			Front: " bonjour ",
			Back:  "hello",
		})

		require.NoError(t, err)
		assert.Equal(t, "bonjour", card.Front)
		assert.Equal(t, f.deck.ID, card.DeckID)
		assert.Equal(t, domain.StatusNew, card.Status())
		assert.Equal(t, domain.DefaultEaseFactor, card.EaseFactor)
		assert.True(t, card.Active)
		f.decks.AssertExpectations(t)
		f.cards.AssertExpectations(t)
	})

	t.Run("deck not owned", func(t *testing.T) {
		f := newCardFixture(t)
		f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(nil, store.ErrDeckNotFound)

		_, err := f.svc.CreateCard(context.Background(), f.userID, f.deck.ID, domain.CardContent{Front: "a", Back: "b"})

		assert.ErrorIs(t, err, service.ErrDeckNotFound)
		f.cards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.decks.AssertNotCalled(t, "IncrementCardCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid content", func(t *testing.T) {
		f := newCardFixture(t)

		_, err := f.svc.CreateCard(context.Background(), f.userID, f.deck.ID, domain.CardContent{Front: "a"})

		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
		assert.Zero(t, f.uow.Calls)
	})
}

func TestCreateCards_Batch(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
	f.cards.On("Create", mock.Anything, mock.Anything).Return(nil).Times(3)
	f.decks.On("IncrementCardCount", mock.Anything, f.deck.ID, 3).Return(nil)

	cards, err := f.svc.CreateCards(context.Background(), f.userID, f.deck.ID, []domain.CardContent{
		{Front: "un", Back: "one"},
		{Front: "deux", Back: "two"},
		{Front: "trois", Back: "three"},
	})

	require.NoError(t, err)
	assert.Len(t, cards, 3)
	assert.Equal(t, 1, f.uow.Calls)
	f.cards.AssertExpectations(t)
	f.decks.AssertExpectations(t)

	_, err = f.svc.CreateCards(context.Background(), f.userID, f.deck.ID, nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	f := newCardFixture(t)
	card := &domain.Card{ID: uuid.New(), UserID: f.userID}
	missing := uuid.New()
	f.cards.On("GetByID", mock.Anything, f.userID, card.ID).Return(card, nil)
	f.cards.On("GetByID", mock.Anything, f.userID, missing).Return(nil, store.ErrCardNotFound)

	got, err := f.svc.GetCard(context.Background(), f.userID, card.ID)
	require.NoError(t, err)
	assert.Same(t, card, got)

	_, err = f.svc.GetCard(context.Background(), f.userID, missing)
	assert.ErrorIs(t, err, service.ErrCardNotFound)
}

func TestDeactivateCard(t *testing.T) {
	t.Parallel()

	t.Run("soft deletes and decrements deck count", func(t *testing.T) {
		f := newCardFixture(t)
		card := &domain.Card{ID: uuid.New(), UserID: f.userID, DeckID: f.deck.ID}
		f.cards.On("Deactivate", mock.Anything, f.userID, card.ID, mock.AnythingOfType("time.Time")).Return(card, nil)
		f.decks.On("IncrementCardCount", mock.Anything, f.deck.ID, -1).Return(nil)

		err := f.svc.DeactivateCard(context.Background(), f.userID, card.ID)

		require.NoError(t, err)
		f.cards.AssertExpectations(t)
		f.decks.AssertExpectations(t)
	})

	t.Run("unknown card", func(t *testing.T) {
		f := newCardFixture(t)
		cardID := uuid.New()
		f.cards.On("Deactivate", mock.Anything, f.userID, cardID, mock.Anything).Return(nil, store.ErrCardNotFound)

		err := f.svc.DeactivateCard(context.Background(), f.userID, cardID)

		assert.ErrorIs(t, err, service.ErrCardNotFound)
		f.decks.AssertNotCalled(t, "IncrementCardCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("count update failure", func(t *testing.T) {
		f := newCardFixture(t)
		card := &domain.Card{ID: uuid.New(), UserID: f.userID, DeckID: f.deck.ID}
		dbErr := errors.New("boom")
		f.cards.On("Deactivate", mock.Anything, f.userID, card.ID, mock.Anything).Return(card, nil)
		f.decks.On("IncrementCardCount", mock.Anything, f.deck.ID, -1).Return(dbErr)

		err := f.svc.DeactivateCard(context.Background(), f.userID, card.ID)

		assert.ErrorIs(t, err, dbErr)
		var svcErr *service.CardServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "deactivate_card", svcErr.Operation)
	})
}
