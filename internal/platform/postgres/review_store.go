package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
)

// PostgresReviewStore implements store.ReviewStore.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the ReviewStore interface.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx implements store.ReviewStore.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}

// Create implements store.ReviewStore.
func (s *PostgresReviewStore) Create(ctx context.Context, record *domain.ReviewRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_reviews (
			id, user_id, card_id, deck_id, grade, time_spent,
			previous_ease_factor, new_ease_factor, previous_interval, new_interval, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		record.ID, record.UserID, record.CardID, record.DeckID, string(record.Grade), record.TimeSpent,
		record.PreviousEaseFactor, record.NewEaseFactor, record.PreviousInterval, record.NewInterval,
		record.ReviewedAt,
	)
	if err != nil {
		s.logger.Error("failed to create review record",
			slog.String("card_id", record.CardID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("review", "create", "failed to insert review record", MapError(err))
	}
	return nil
}
