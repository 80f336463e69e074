package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/service"
	"github.com/phrazzld/lingua-api/internal/service/review"
)

// MockCardService implements service.CardService for testing
type MockCardService struct {
	CreateDeckFn     func(ctx context.Context, userID uuid.UUID, input service.DeckInput) (*domain.Deck, error)
	CreateCardFn     func(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	CreateCardsFn    func(ctx context.Context, userID, deckID uuid.UUID, contents []domain.CardContent) ([]*domain.Card, error)
	GetCardFn        func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	DeactivateCardFn func(ctx context.Context, userID, cardID uuid.UUID) error

	// Default return values
	Deck         *domain.Deck
	Card         *domain.Card
	DefaultError error
}

var _ service.CardService = (*MockCardService)(nil)

// CreateDeck implements the CardService.CreateDeck method
func (m *MockCardService) CreateDeck(ctx context.Context, userID uuid.UUID, input service.DeckInput) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, userID, input)
	}
	return m.Deck, m.DefaultError
}

// CreateCard implements the CardService.CreateCard method
func (m *MockCardService) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, deckID, content)
	}
	return m.Card, m.DefaultError
}

// CreateCards implements the CardService.CreateCards method
func (m *MockCardService) CreateCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	contents []domain.CardContent,
) ([]*domain.Card, error) {
	if m.CreateCardsFn != nil {
		return m.CreateCardsFn(ctx, userID, deckID, contents)
	}
	if m.DefaultError != nil {
		return nil, m.DefaultError
	}
	return []*domain.Card{m.Card}, nil
}

// GetCard implements the CardService.GetCard method
func (m *MockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	if m.GetCardFn != nil {
		return m.GetCardFn(ctx, userID, cardID)
	}
	return m.Card, m.DefaultError
}

// DeactivateCard implements the CardService.DeactivateCard method
func (m *MockCardService) DeactivateCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeactivateCardFn != nil {
		return m.DeactivateCardFn(ctx, userID, cardID)
	}
	return m.DefaultError
}

// MockReviewService implements review.Service for testing
type MockReviewService struct {
	SubmitReviewFn func(ctx context.Context, userID, cardID uuid.UUID, grade domain.Grade, timeSpent int) (*review.Outcome, error)
	GetDueCardsFn  func(ctx context.Context, userID uuid.UUID, query review.DueCardsQuery) ([]*domain.Card, error)

	Outcome      *review.Outcome
	Cards        []*domain.Card
	DefaultError error
}

var _ review.Service = (*MockReviewService)(nil)

// SubmitReview implements the review.Service.SubmitReview method
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	timeSpent int,
) (*review.Outcome, error) {
	if m.SubmitReviewFn != nil {
		return m.SubmitReviewFn(ctx, userID, cardID, grade, timeSpent)
	}
	return m.Outcome, m.DefaultError
}

// GetDueCards implements the review.Service.GetDueCards method
func (m *MockReviewService) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	query review.DueCardsQuery,
) ([]*domain.Card, error) {
	if m.GetDueCardsFn != nil {
		return m.GetDueCardsFn(ctx, userID, query)
	}
	return m.Cards, m.DefaultError
}

// MockProgressService implements service.ProgressService for testing
type MockProgressService struct {
	GetFn                    func(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error)
	RecordVocabularyFn       func(ctx context.Context, userID uuid.UUID, language string, answer service.VocabularyAnswer) (*progress.UserProgress, error)
	RecordRuleFn             func(ctx context.Context, userID uuid.UUID, language string, skill progress.Skill, answer service.RuleAnswer) (*progress.UserProgress, error)
	RecordQuizFn             func(ctx context.Context, userID uuid.UUID, language string, quiz service.QuizSubmission) (*progress.UserProgress, error)
	VocabularyDueForReviewFn func(ctx context.Context, userID uuid.UUID, language string, limit int) ([]progress.MasteredWord, error)

	Progress     *progress.UserProgress
	Words        []progress.MasteredWord
	DefaultError error
}

var _ service.ProgressService = (*MockProgressService)(nil)

// Get implements the ProgressService.Get method
func (m *MockProgressService) Get(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, language)
	}
	return m.Progress, m.DefaultError
}

// RecordVocabulary implements the ProgressService.RecordVocabulary method
func (m *MockProgressService) RecordVocabulary(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	answer service.VocabularyAnswer,
) (*progress.UserProgress, error) {
	if m.RecordVocabularyFn != nil {
		return m.RecordVocabularyFn(ctx, userID, language, answer)
	}
	return m.Progress, m.DefaultError
}

// RecordRule implements the ProgressService.RecordRule method
func (m *MockProgressService) RecordRule(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	skill progress.Skill,
	answer service.RuleAnswer,
) (*progress.UserProgress, error) {
	if m.RecordRuleFn != nil {
		return m.RecordRuleFn(ctx, userID, language, skill, answer)
	}
	return m.Progress, m.DefaultError
}

// RecordQuiz implements the ProgressService.RecordQuiz method
func (m *MockProgressService) RecordQuiz(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	quiz service.QuizSubmission,
) (*progress.UserProgress, error) {
	if m.RecordQuizFn != nil {
		return m.RecordQuizFn(ctx, userID, language, quiz)
	}
	return m.Progress, m.DefaultError
}

// VocabularyDueForReview implements the ProgressService.VocabularyDueForReview method
func (m *MockProgressService) VocabularyDueForReview(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	limit int,
) ([]progress.MasteredWord, error) {
	if m.VocabularyDueForReviewFn != nil {
		return m.VocabularyDueForReviewFn(ctx, userID, language, limit)
	}
	return m.Words, m.DefaultError
}
