package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/domain/srs"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
)

const day = 24 * time.Hour

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	uow        store.UnitOfWork
	cards      store.CardStore
	srsService srs.Service
	limits     Limits
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates the review Service. uow provides the transactional
// stores for SubmitReview; cards serves the read-only due-card listing.
func NewService(
	uow store.UnitOfWork,
	cards store.CardStore,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) (Service, error) {
	if uow == nil {
		return nil, domain.NewValidationError("uow", "cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, domain.NewValidationError("cards", "cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &serviceImpl{
		uow:        uow,
		cards:      cards,
		srsService: srsService,
		limits:     DefaultLimits(),
		now:        func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("component", "review_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
	timeSpent int,
) (*Outcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
	)

	if !grade.Valid() {
		log.Warn("invalid review grade", slog.String("grade", string(grade)))
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, domain.ErrInvalidGrade, grade)
	}
	if timeSpent < 0 {
		log.Warn("negative time spent", slog.Int("time_spent", timeSpent))
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidTimeSpent)
	}

	now := s.now()
	var outcome *Outcome

	err := s.uow.Do(ctx, func(ctx context.Context, tx store.Stores) error {
		card, err := tx.Cards.GetForUpdate(ctx, userID, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		deck, err := tx.Decks.GetByID(ctx, userID, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to get deck %s: %w", card.DeckID, err)
		}

		previousEase, previousInterval := card.EaseFactor, card.Interval

		result, err := s.srsService.CalculateNextReview(card, grade, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}
		card.ApplyReview(result.Schedule(), grade, timeSpent, now)

		if err := tx.Cards.Update(ctx, card); err != nil {
			return fmt.Errorf("failed to update card: %w", err)
		}

		record, err := domain.NewReviewRecord(card, grade, timeSpent, previousEase, previousInterval, now)
		if err != nil {
			return fmt.Errorf("failed to build review record: %w", err)
		}
		if err := tx.Reviews.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create review record: %w", err)
		}

		experience := progress.FlashcardExperience(grade)

		p, err := tx.Progress.GetOrCreateForUpdate(ctx, userID, deck.Language)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if err := p.ApplyFlashcardEvent(progress.FlashcardEvent{
			Experience: experience,
			TimeSpent:  timeSpent,
			Grade:      grade,
			DeckID:     deck.ID,
		}, now); err != nil {
			return fmt.Errorf("failed to apply flashcard event: %w", err)
		}
		if err := tx.Progress.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}

		outcome = &Outcome{
			Card:                card,
			ExperienceGained:    experience,
			DaysUntilNextReview: daysUntil(card.NextReviewAt, now),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			log.Debug("card not found for review")
			return nil, err
		}
		if store.IsConflictError(err) {
			log.Warn("concurrent review detected", slog.String("error", err.Error()))
		} else {
			log.Error("failed to submit review", slog.String("error", err.Error()))
		}
		return nil, NewSubmitReviewError("failed to submit review", err)
	}

	log.Debug("review submitted",
		slog.String("grade", string(grade)),
		slog.Float64("ease_factor", outcome.Card.EaseFactor),
		slog.Int("interval", outcome.Card.Interval),
		slog.String("status", string(outcome.Card.Status())),
		slog.Time("next_review_at", outcome.Card.NextReviewAt),
		slog.Int("experience_gained", outcome.ExperienceGained))

	return outcome, nil
}

// GetDueCards implements Service.GetDueCards.
func (s *serviceImpl) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	query DueCardsQuery,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if query.Limit < 0 {
		return nil, fmt.Errorf("%w: limit cannot be negative", ErrInvalidInput)
	}
	limit := query.Limit
	if limit == 0 {
		limit = s.limits.DefaultDueLimit
	}
	limit = min(limit, s.limits.MaxDueLimit)

	cards, err := s.cards.ListDue(ctx, store.DueCardsFilter{
		UserID: userID,
		DeckID: query.DeckID,
		Now:    s.now(),
		Limit:  limit,
	})
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGetDueCardsError("failed to list due cards", err)
	}

	log.Debug("listed due cards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)),
		slog.Int("limit", limit))
	return cards, nil
}

// daysUntil returns the whole days from now to t, rounded up.
func daysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now)) / float64(day)))
}
