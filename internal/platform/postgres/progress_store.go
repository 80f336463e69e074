package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
	"github.com/phrazzld/lingua-api/internal/store"
)

const progressColumns = `id, user_id, language, overall_level, total_experience, skills,
	version, created_at, updated_at`

// skillsDocument is the JSONB layout of the skills column.
type skillsDocument struct {
	Flashcard   progress.FlashcardProgress  `json:"flashcard"`
	Vocabulary  progress.VocabularyProgress `json:"vocabulary"`
	Grammar     progress.RuleProgress       `json:"grammar"`
	Punctuation progress.RuleProgress       `json:"punctuation"`
	Quiz        progress.QuizProgress       `json:"quiz"`
}

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

// Get implements store.ProgressStore.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	language string,
) (*progress.UserProgress, error) {
	return s.get(ctx, userID, domain.NormalizeLanguage(language), "")
}

// GetOrCreateForUpdate implements store.ProgressStore.
func (s *PostgresProgressStore) GetOrCreateForUpdate(
	ctx context.Context,
	userID uuid.UUID,
	language string,
) (*progress.UserProgress, error) {
	defaults := progress.New(userID, language)
	skills, err := json.Marshal(skillsOf(defaults))
	if err != nil {
		return nil, fmt.Errorf("failed to encode default skills: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_progress (`+progressColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, language) DO NOTHING`,
		defaults.ID, defaults.UserID, defaults.Language, defaults.OverallLevel,
		defaults.TotalExperience, skills, defaults.Version, defaults.CreatedAt, defaults.UpdatedAt,
	)
	if err != nil {
		return nil, store.NewStoreError("progress", "upsert", "failed to create default progress", MapError(err))
	}

	return s.get(ctx, userID, defaults.Language, " FOR UPDATE")
}

func (s *PostgresProgressStore) get(
	ctx context.Context,
	userID uuid.UUID,
	language string,
	lock string,
) (*progress.UserProgress, error) {
	var (
		p      progress.UserProgress
		skills []byte
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT `+progressColumns+`
		FROM user_progress
		WHERE user_id = $1 AND language = $2`+lock,
		userID, language,
	).Scan(
		&p.ID, &p.UserID, &p.Language, &p.OverallLevel, &p.TotalExperience, &skills,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, store.NewStoreError("progress", "get", "failed to load progress", MapError(err))
	}

	var doc skillsDocument
	if err := json.Unmarshal(skills, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode progress skills: %w", err)
	}
	p.Flashcard = doc.Flashcard
	p.Vocabulary = doc.Vocabulary
	p.Grammar = doc.Grammar
	p.Punctuation = doc.Punctuation
	p.Quiz = doc.Quiz

	return &p, nil
}

// Update implements store.ProgressStore.
func (s *PostgresProgressStore) Update(ctx context.Context, p *progress.UserProgress) error {
	skills, err := json.Marshal(skillsOf(p))
	if err != nil {
		return fmt.Errorf("failed to encode progress skills: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_progress
		SET overall_level = $3, total_experience = $4, skills = $5, updated_at = $6,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		p.ID, p.Version, p.OverallLevel, p.TotalExperience, skills, p.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("progress", "update", "failed to update progress", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.Warn("progress version conflict",
				slog.String("user_id", p.UserID.String()),
				slog.String("language", p.Language))
			return fmt.Errorf("%w: progress %s", store.ErrConflict, p.ID)
		}
		return err
	}

	p.Version++
	return nil
}

func skillsOf(p *progress.UserProgress) skillsDocument {
	return skillsDocument{
		Flashcard:   p.Flashcard,
		Vocabulary:  p.Vocabulary,
		Grammar:     p.Grammar,
		Punctuation: p.Punctuation,
		Quiz:        p.Quiz,
	}
}
