package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/platform/logger"
	"github.com/phrazzld/lingua-api/internal/store"
)

// VocabularyAnswer is one answered vocabulary exercise.
type VocabularyAnswer struct {
	WordID    uuid.UUID
	Correct   bool
	TimeSpent int
}

// RuleAnswer is one answered grammar or punctuation exercise.
type RuleAnswer struct {
	RuleID    uuid.UUID
	Correct   bool
	Points    int
	TimeSpent int
}

// QuizSubmission is a completed quiz.
type QuizSubmission struct {
	QuizID         *uuid.UUID
	CorrectCount   int
	TotalQuestions int
	TotalPoints    int
	TimeSpent      int
	Difficulty     domain.Difficulty
}

// ProgressService reads and updates per-language learner progress for the
// practice skills other than flashcards, which are updated by review
// submissions.
type ProgressService interface {
	// Get returns the user's progress in language. A user with no recorded
	// activity gets the default record, which is not persisted.
	Get(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error)

	// RecordVocabulary folds a vocabulary answer into progress.
	RecordVocabulary(ctx context.Context, userID uuid.UUID, language string, answer VocabularyAnswer) (*progress.UserProgress, error)

	// RecordRule folds a grammar or punctuation answer into progress.
	RecordRule(
		ctx context.Context,
		userID uuid.UUID,
		language string,
		skill progress.Skill,
		answer RuleAnswer,
	) (*progress.UserProgress, error)

	// RecordQuiz folds a completed quiz into progress.
	RecordQuiz(ctx context.Context, userID uuid.UUID, language string, quiz QuizSubmission) (*progress.UserProgress, error)

	// VocabularyDueForReview lists mastered words whose review interval has
	// elapsed. A non-positive limit returns all of them.
	VocabularyDueForReview(ctx context.Context, userID uuid.UUID, language string, limit int) ([]progress.MasteredWord, error)
}

type progressServiceImpl struct {
	uow      store.UnitOfWork
	progress store.ProgressStore
	now      func() time.Time
	logger   *slog.Logger
}

var _ ProgressService = (*progressServiceImpl)(nil)

// NewProgressService creates a new ProgressService.
func NewProgressService(
	uow store.UnitOfWork,
	progressStore store.ProgressStore,
	logger *slog.Logger,
) (ProgressService, error) {
	if uow == nil {
		return nil, domain.NewValidationError("uow", "cannot be nil", domain.ErrValidation)
	}
	if progressStore == nil {
		return nil, domain.NewValidationError("progressStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		uow:      uow,
		progress: progressStore,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "progress_service")),
	}, nil
}

// Get implements ProgressService.Get
func (s *progressServiceImpl) Get(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error) {
	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	p, err := s.progress.Get(ctx, userID, language)
	if err != nil {
		if store.IsNotFoundError(err) {
			return progress.New(userID, language), nil
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("language", language))
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

// RecordVocabulary implements ProgressService.RecordVocabulary
func (s *progressServiceImpl) RecordVocabulary(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	answer VocabularyAnswer,
) (*progress.UserProgress, error) {
	event := progress.VocabularyEvent{
		Experience: progress.VocabularyExperience(answer.Correct),
		TimeSpent:  answer.TimeSpent,
		Correct:    answer.Correct,
		WordID:     answer.WordID,
	}
	return s.record(ctx, userID, language, progress.SkillVocabulary, func(p *progress.UserProgress, now time.Time) error {
		return p.ApplyVocabularyEvent(event, now)
	})
}

// RecordRule implements ProgressService.RecordRule
func (s *progressServiceImpl) RecordRule(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	skill progress.Skill,
	answer RuleAnswer,
) (*progress.UserProgress, error) {
	if skill != progress.SkillGrammar && skill != progress.SkillPunctuation {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidInput, progress.ErrUnknownSkill, skill)
	}
	if answer.Points < 0 {
		return nil, fmt.Errorf("%w: points cannot be negative", ErrInvalidInput)
	}
	event := progress.RuleEvent{
		Experience: progress.RuleExperience(answer.Correct, answer.Points),
		TimeSpent:  answer.TimeSpent,
		Correct:    answer.Correct,
		RuleID:     answer.RuleID,
	}
	return s.record(ctx, userID, language, skill, func(p *progress.UserProgress, now time.Time) error {
		return p.ApplyRuleEvent(skill, event, now)
	})
}

// RecordQuiz implements ProgressService.RecordQuiz
func (s *progressServiceImpl) RecordQuiz(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	quiz QuizSubmission,
) (*progress.UserProgress, error) {
	if quiz.TotalQuestions <= 0 || quiz.CorrectCount < 0 || quiz.CorrectCount > quiz.TotalQuestions {
		return nil, fmt.Errorf("%w: correct count must be between 0 and the number of questions", ErrInvalidInput)
	}
	if quiz.TotalPoints < 0 {
		return nil, fmt.Errorf("%w: points cannot be negative", ErrInvalidInput)
	}
	if quiz.Difficulty != "" && !quiz.Difficulty.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidDifficulty)
	}
	event := progress.QuizEvent{
		Experience: progress.QuizExperience(quiz.CorrectCount, quiz.TotalQuestions, quiz.TotalPoints),
		TimeSpent:  quiz.TimeSpent,
		Score:      float64(quiz.CorrectCount) * 100 / float64(quiz.TotalQuestions),
		Difficulty: quiz.Difficulty,
		QuizID:     quiz.QuizID,
	}
	return s.record(ctx, userID, language, progress.SkillQuiz, func(p *progress.UserProgress, now time.Time) error {
		return p.ApplyQuizEvent(event, now)
	})
}

// VocabularyDueForReview implements ProgressService.VocabularyDueForReview
func (s *progressServiceImpl) VocabularyDueForReview(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	limit int,
) ([]progress.MasteredWord, error) {
	p, err := s.Get(ctx, userID, language)
	if err != nil {
		return nil, err
	}
	return p.WordsDueForReview(s.now(), limit), nil
}

// record runs apply against the locked progress row and saves the result.
func (s *progressServiceImpl) record(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	skill progress.Skill,
	apply func(p *progress.UserProgress, now time.Time) error,
) (*progress.UserProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	language, err := normalizeLanguage(language)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var updated *progress.UserProgress
	err = s.uow.Do(ctx, func(ctx context.Context, tx store.Stores) error {
		p, err := tx.Progress.GetOrCreateForUpdate(ctx, userID, language)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if err := apply(p, now); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if err := tx.Progress.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			log.Warn("rejected progress event",
				slog.String("error", err.Error()),
				slog.String("skill", string(skill)))
			return nil, err
		}
		log.Error("failed to record progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("skill", string(skill)))
		return nil, err
	}

	log.Debug("progress recorded",
		slog.String("user_id", userID.String()),
		slog.String("language", language),
		slog.String("skill", string(skill)),
		slog.Int("total_experience", updated.TotalExperience))
	return updated, nil
}

func normalizeLanguage(language string) (string, error) {
	language = domain.NormalizeLanguage(language)
	if language == "" {
		return "", fmt.Errorf("%w: language is required", ErrInvalidInput)
	}
	return language, nil
}
