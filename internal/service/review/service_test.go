package review_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/domain/srs"
	"github.com/phrazzld/lingua-api/internal/mocks"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/service/review"
	"github.com/phrazzld/lingua-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	userID    uuid.UUID
	deck      *domain.Deck
	card      *domain.Card
	progress  *progress.UserProgress
	cards     *mocks.CardStore
	decks     *mocks.DeckStore
	reviews   *mocks.ReviewStore
	progStore *mocks.ProgressStore
	uow       *mocks.UnitOfWork
	svc       review.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	deck := &domain.Deck{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Spanish basics",
		Language: "spanish",
		Category: "vocabulary",
	}
	card := &domain.Card{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       deck.ID,
		Front:        "hola",
		Back:         "hello",
		Difficulty:   domain.DifficultyBeginner,
		EaseFactor:   domain.DefaultEaseFactor,
		Interval:     domain.DefaultInterval,
		NextReviewAt: fixedNow.Add(-time.Hour),
		History:      []domain.ReviewHistoryEntry{},
		Active:       true,
		Version:      1,
	}

	f := &fixture{
		userID:    userID,
		deck:      deck,
		card:      card,
		progress:  progress.New(userID, deck.Language),
		cards:     &mocks.CardStore{},
		decks:     &mocks.DeckStore{},
		reviews:   &mocks.ReviewStore{},
		progStore: &mocks.ProgressStore{},
	}
	f.uow = &mocks.UnitOfWork{Stores: store.Stores{
		Cards:    f.cards,
		Decks:    f.decks,
		Reviews:  f.reviews,
		Progress: f.progStore,
	}}

	log, _ := logger.NewBufferLogger()
	svc, err := review.NewService(f.uow, f.cards, srs.NewDefaultService(), log,
		review.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	f.svc = svc
	return f
}

// expectHappyPath wires every store call SubmitReview makes.
func (f *fixture) expectHappyPath() {
	f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
	f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
	f.cards.On("Update", mock.Anything, f.card).Return(nil)
	f.reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReviewRecord")).Return(nil)
	f.progStore.On("GetOrCreateForUpdate", mock.Anything, f.userID, "spanish").Return(f.progress, nil)
	f.progStore.On("Update", mock.Anything, f.progress).Return(nil)
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.cards.AssertExpectations(t)
	f.decks.AssertExpectations(t)
	f.reviews.AssertExpectations(t)
	f.progStore.AssertExpectations(t)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	cards := &mocks.CardStore{}
	uow := &mocks.UnitOfWork{}
	scheduler := srs.NewDefaultService()

	_, err := review.NewService(nil, cards, scheduler, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = review.NewService(uow, nil, scheduler, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = review.NewService(uow, cards, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := review.NewService(uow, cards, scheduler, nil)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestSubmitReview_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		grade          domain.Grade
		wantInterval   int
		wantRepetition int
		wantStatus     domain.Status
		wantExperience int
		wantCorrect    int
		wantIncorrect  int
	}{
		{"again", domain.GradeAgain, 1, 0, domain.StatusNew, 1, 0, 1},
		{"hard counts as correct but resets repetition", domain.GradeHard, 1, 0, domain.StatusNew, 3, 1, 0},
		{"good", domain.GradeGood, 1, 1, domain.StatusLearning, 5, 1, 0},
		{"easy", domain.GradeEasy, 1, 1, domain.StatusLearning, 8, 1, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.expectHappyPath()

			outcome, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, tc.grade, 12)
			require.NoError(t, err)

			card := outcome.Card
			assert.Equal(t, tc.wantInterval, card.Interval)
			assert.Equal(t, tc.wantRepetition, card.Repetition)
			assert.Equal(t, tc.wantStatus, card.Status())
			assert.Equal(t, tc.wantExperience, outcome.ExperienceGained)
			assert.Equal(t, 1, outcome.DaysUntilNextReview)
			assert.Equal(t, fixedNow.AddDate(0, 0, 1), card.NextReviewAt)
			assert.Equal(t, 1, card.ReviewCount)
			assert.Equal(t, tc.wantCorrect, card.CorrectCount)
			assert.Equal(t, tc.wantIncorrect, card.IncorrectCount)
			assert.Less(t, card.EaseFactor, domain.DefaultEaseFactor)

			require.Len(t, card.History, 1)
			assert.Equal(t, tc.grade, card.History[0].Grade)
			assert.Equal(t, 12, card.History[0].TimeSpent)

			assert.Equal(t, tc.wantExperience, f.progress.Flashcard.Experience)
			assert.Equal(t, tc.wantExperience, f.progress.TotalExperience)
			assert.Equal(t, 1, f.progress.Flashcard.CardsReviewed)
			assert.Equal(t, 12, f.progress.Flashcard.TotalTimeSpent)
			require.Len(t, f.progress.Flashcard.Decks, 1)
			assert.Equal(t, f.deck.ID, f.progress.Flashcard.Decks[0].DeckID)

			assert.Equal(t, 1, f.uow.Calls)
			f.assertExpectations(t)
		})
	}
}

func TestSubmitReview_WritesReviewRecord(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.card.Repetition = 2
	f.card.Interval = 6
	f.card.EaseFactor = 2.5

	var record *domain.ReviewRecord
	f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
	f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
	f.cards.On("Update", mock.Anything, f.card).Return(nil)
	f.reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.ReviewRecord")).
		Run(func(args mock.Arguments) { record = args.Get(1).(*domain.ReviewRecord) }).
		Return(nil)
	f.progStore.On("GetOrCreateForUpdate", mock.Anything, f.userID, "spanish").Return(f.progress, nil)
	f.progStore.On("Update", mock.Anything, f.progress).Return(nil)

	outcome, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, domain.GradeGood, 30)
	require.NoError(t, err)

	// round(6 * 2.5) with the ease from before the update
	assert.Equal(t, 15, outcome.Card.Interval)
	assert.Equal(t, 3, outcome.Card.Repetition)
	assert.Equal(t, domain.StatusReview, outcome.Card.Status())
	assert.Equal(t, 15, outcome.DaysUntilNextReview)

	require.NotNil(t, record)
	assert.Equal(t, f.card.ID, record.CardID)
	assert.Equal(t, f.userID, record.UserID)
	assert.Equal(t, domain.GradeGood, record.Grade)
	assert.Equal(t, 2.5, record.PreviousEaseFactor)
	assert.InDelta(t, 2.18, record.NewEaseFactor, 1e-9)
	assert.Equal(t, 6, record.PreviousInterval)
	assert.Equal(t, 15, record.NewInterval)
	assert.Equal(t, fixedNow, record.ReviewedAt)

	require.Len(t, outcome.Card.History, 1)
	assert.Equal(t, 6, outcome.Card.History[0].PreviousInterval)
	assert.Equal(t, 15, outcome.Card.History[0].NewInterval)
}

func TestSubmitReview_SameGradeTwiceIsNotIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectHappyPath()

	first, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, domain.GradeGood, 5)
	require.NoError(t, err)
	firstInterval, firstRepetition := first.Card.Interval, first.Card.Repetition

	second, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, domain.GradeGood, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, firstInterval)
	assert.Equal(t, 6, second.Card.Interval)
	assert.Equal(t, firstRepetition+1, second.Card.Repetition)
	assert.Len(t, second.Card.History, 2)
	assert.Equal(t, 10, f.progress.Flashcard.Experience)
}

func TestSubmitReview_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		grade     domain.Grade
		timeSpent int
		wantErr   error
	}{
		{"unknown grade", domain.Grade("perfect"), 10, domain.ErrInvalidGrade},
		{"empty grade", domain.Grade(""), 10, domain.ErrInvalidGrade},
		{"negative time spent", domain.GradeGood, -1, domain.ErrInvalidTimeSpent},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			outcome, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, tc.grade, tc.timeSpent)

			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, review.ErrInvalidInput)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Zero(t, f.uow.Calls, "no I/O before validation passes")
		})
	}
}

func TestSubmitReview_CardNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(nil, store.ErrCardNotFound)

	outcome, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, domain.GradeGood, 5)

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, review.ErrCardNotFound)
	f.assertExpectations(t)
	f.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.progStore.AssertNotCalled(t, "GetOrCreateForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReview_Failures(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")

	tests := []struct {
		name    string
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name: "begin fails",
			setup: func(f *fixture) {
				f.uow.BeginErr = store.ErrTransactionFailed
			},
			wantErr: store.ErrTransactionFailed,
		},
		{
			name: "version conflict on card update",
			setup: func(f *fixture) {
				f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
				f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
				f.cards.On("Update", mock.Anything, f.card).Return(store.ErrConflict)
			},
			wantErr: store.ErrConflict,
		},
		{
			name: "review record write fails",
			setup: func(f *fixture) {
				f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
				f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
				f.cards.On("Update", mock.Anything, f.card).Return(nil)
				f.reviews.On("Create", mock.Anything, mock.Anything).Return(dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "progress save fails",
			setup: func(f *fixture) {
				f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
				f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(f.deck, nil)
				f.cards.On("Update", mock.Anything, f.card).Return(nil)
				f.reviews.On("Create", mock.Anything, mock.Anything).Return(nil)
				f.progStore.On("GetOrCreateForUpdate", mock.Anything, f.userID, "spanish").Return(f.progress, nil)
				f.progStore.On("Update", mock.Anything, f.progress).Return(dbErr)
			},
			wantErr: dbErr,
		},
		{
			name: "deck lookup fails",
			setup: func(f *fixture) {
				f.cards.On("GetForUpdate", mock.Anything, f.userID, f.card.ID).Return(f.card, nil)
				f.decks.On("GetByID", mock.Anything, f.userID, f.deck.ID).Return(nil, store.ErrDeckNotFound)
			},
			wantErr: store.ErrDeckNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tc.setup(f)

			outcome, err := f.svc.SubmitReview(context.Background(), f.userID, f.card.ID, domain.GradeGood, 5)

			assert.Nil(t, outcome)
			assert.ErrorIs(t, err, tc.wantErr)
			var svcErr *review.ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "submit_review", svcErr.Operation)
			f.assertExpectations(t)
		})
	}
}

func TestGetDueCards(t *testing.T) {
	t.Parallel()

	deckID := uuid.New()

	tests := []struct {
		name      string
		query     review.DueCardsQuery
		wantLimit int
		wantDeck  *uuid.UUID
	}{
		{"default limit", review.DueCardsQuery{}, 20, nil},
		{"explicit limit", review.DueCardsQuery{Limit: 5}, 5, nil},
		{"limit capped", review.DueCardsQuery{Limit: 500}, 100, nil},
		{"deck filter", review.DueCardsQuery{DeckID: &deckID, Limit: 3}, 3, &deckID},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			want := store.DueCardsFilter{
				UserID: f.userID,
				DeckID: tc.wantDeck,
				Now:    fixedNow,
				Limit:  tc.wantLimit,
			}
			f.cards.On("ListDue", mock.Anything, want).Return([]*domain.Card{f.card}, nil)

			cards, err := f.svc.GetDueCards(context.Background(), f.userID, tc.query)

			require.NoError(t, err)
			assert.Equal(t, []*domain.Card{f.card}, cards)
			f.cards.AssertExpectations(t)
		})
	}
}

func TestGetDueCards_Errors(t *testing.T) {
	t.Parallel()

	t.Run("negative limit", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetDueCards(context.Background(), f.userID, review.DueCardsQuery{Limit: -1})
		assert.ErrorIs(t, err, review.ErrInvalidInput)
		f.cards.AssertNotCalled(t, "ListDue", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		dbErr := errors.New("timeout")
		f.cards.On("ListDue", mock.Anything, mock.Anything).Return(nil, dbErr)

		_, err := f.svc.GetDueCards(context.Background(), f.userID, review.DueCardsQuery{})

		assert.ErrorIs(t, err, dbErr)
		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get_due_cards", svcErr.Operation)
	})
}

func TestWithLimits(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	svc, err := review.NewService(f.uow, f.cards, srs.NewDefaultService(), nil,
		review.WithClock(func() time.Time { return fixedNow }),
		review.WithLimits(review.Limits{DefaultDueLimit: 10, MaxDueLimit: 50}))
	require.NoError(t, err)

	f.cards.On("ListDue", mock.Anything, mock.MatchedBy(func(filter store.DueCardsFilter) bool {
		return filter.Limit == 10
	})).Return([]*domain.Card{}, nil).Once()
	f.cards.On("ListDue", mock.Anything, mock.MatchedBy(func(filter store.DueCardsFilter) bool {
		return filter.Limit == 50
	})).Return([]*domain.Card{}, nil).Once()

	_, err = svc.GetDueCards(context.Background(), f.userID, review.DueCardsQuery{})
	require.NoError(t, err)
	_, err = svc.GetDueCards(context.Background(), f.userID, review.DueCardsQuery{Limit: 75})
	require.NoError(t, err)

	f.cards.AssertExpectations(t)
}
