package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/phrazzld/lingua-api/internal/store"
)

const cardColumns = `id, user_id, deck_id, vocabulary_id, front, back, notes, hints, tags,
	difficulty, priority, ease_factor, interval_days, repetition, next_review_at,
	last_reviewed_at, review_count, correct_count, incorrect_count, review_history,
	is_active, version, created_at, updated_at`

// psql builds PostgreSQL-flavoured statements.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	hints, tags, history, err := marshalCardCollections(card)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		card.ID, card.UserID, card.DeckID, nullUUID(card.VocabularyID),
		card.Front, card.Back, card.Notes, hints, tags,
		string(card.Difficulty), card.Priority, card.EaseFactor, card.Interval, card.Repetition,
		card.NextReviewAt, card.LastReviewedAt, card.ReviewCount, card.CorrectCount,
		card.IncorrectCount, history, card.Active, card.Version, card.CreatedAt, card.UpdatedAt,
		string(card.Status()),
	)
	if err != nil {
		s.logger.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("card", "create", "failed to insert card", MapError(err))
	}

	return nil
}

// GetByID implements store.CardStore.
func (s *PostgresCardStore) GetByID(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, userID, cardID, "")
}

// GetForUpdate implements store.CardStore.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, userID, cardID, " FOR UPDATE")
}

func (s *PostgresCardStore) get(ctx context.Context, userID, cardID uuid.UUID, lock string) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE id = $1 AND user_id = $2 AND is_active`+lock,
		cardID, userID,
	)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "get", "failed to load card", MapError(err))
	}
	return card, nil
}

// Update implements store.CardStore.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	hints, tags, history, err := marshalCardCollections(card)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards SET
			front = $3, back = $4, notes = $5, hints = $6, tags = $7,
			difficulty = $8, priority = $9, ease_factor = $10, interval_days = $11,
			repetition = $12, status = $13, next_review_at = $14, last_reviewed_at = $15,
			review_count = $16, correct_count = $17, incorrect_count = $18,
			review_history = $19, is_active = $20, updated_at = $21,
			version = version + 1
		WHERE id = $1 AND version = $2`,
		card.ID, card.Version,
		card.Front, card.Back, card.Notes, hints, tags,
		string(card.Difficulty), card.Priority, card.EaseFactor, card.Interval,
		card.Repetition, string(card.Status()), card.NextReviewAt, card.LastReviewedAt,
		card.ReviewCount, card.CorrectCount, card.IncorrectCount,
		history, card.Active, card.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("card", "update", "failed to update card", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			return err
		}
		return s.conflictOrMissing(ctx, card.ID)
	}

	card.Version++
	return nil
}

// conflictOrMissing tells a stale version apart from a deleted row after an
// update matched nothing.
func (s *PostgresCardStore) conflictOrMissing(ctx context.Context, cardID uuid.UUID) error {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cards WHERE id = $1)`, cardID).Scan(&exists)
	if err != nil {
		return store.NewStoreError("card", "update", "failed to check card existence", MapError(err))
	}
	if !exists {
		return store.ErrCardNotFound
	}
	s.logger.Warn("card version conflict", slog.String("card_id", cardID.String()))
	return fmt.Errorf("%w: card %s", store.ErrConflict, cardID)
}

// Deactivate implements store.CardStore.
func (s *PostgresCardStore) Deactivate(
	ctx context.Context,
	userID, cardID uuid.UUID,
	now time.Time,
) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE cards
		SET is_active = FALSE, updated_at = $3, version = version + 1
		WHERE id = $1 AND user_id = $2 AND is_active
		RETURNING `+cardColumns,
		cardID, userID, now,
	)

	card, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, store.NewStoreError("card", "deactivate", "failed to deactivate card", MapError(err))
	}
	return card, nil
}

// ListDue implements store.CardStore.
func (s *PostgresCardStore) ListDue(ctx context.Context, filter store.DueCardsFilter) ([]*domain.Card, error) {
	query := psql.Select(cardColumns).
		From("cards").
		Where(sq.Eq{"user_id": filter.UserID, "is_active": true}).
		Where(sq.LtOrEq{"next_review_at": filter.Now}).
		OrderBy("next_review_at ASC", "priority DESC", "id ASC")
	if filter.DeckID != nil {
		query = query.Where(sq.Eq{"deck_id": *filter.DeckID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build due cards query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, store.NewStoreError("card", "list_due", "failed to query due cards", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list_due", "failed to scan card", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list_due", "failed to iterate cards", MapError(err))
	}

	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card                 domain.Card
		vocabularyID         uuid.NullUUID
		difficulty           string
		lastReviewedAt       sql.NullTime
		hints, tags, history []byte
	)

	err := row.Scan(
		&card.ID, &card.UserID, &card.DeckID, &vocabularyID,
		&card.Front, &card.Back, &card.Notes, &hints, &tags,
		&difficulty, &card.Priority, &card.EaseFactor, &card.Interval, &card.Repetition,
		&card.NextReviewAt, &lastReviewedAt, &card.ReviewCount, &card.CorrectCount,
		&card.IncorrectCount, &history, &card.Active, &card.Version,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.Difficulty = domain.Difficulty(difficulty)
	if vocabularyID.Valid {
		id := vocabularyID.UUID
		card.VocabularyID = &id
	}
	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		card.LastReviewedAt = &t
	}
	if err := unmarshalJSONB(hints, &card.Hints); err != nil {
		return nil, fmt.Errorf("failed to decode card hints: %w", err)
	}
	if err := unmarshalJSONB(tags, &card.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode card tags: %w", err)
	}
	if err := unmarshalJSONB(history, &card.History); err != nil {
		return nil, fmt.Errorf("failed to decode review history: %w", err)
	}
	if card.History == nil {
		card.History = []domain.ReviewHistoryEntry{}
	}

	return &card, nil
}

func marshalCardCollections(card *domain.Card) (hints, tags, history []byte, err error) {
	if hints, err = marshalJSONB(card.Hints); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode card hints: %w", err)
	}
	if tags, err = marshalJSONB(card.Tags); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode card tags: %w", err)
	}
	if history, err = marshalJSONB(card.History); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode review history: %w", err)
	}
	return hints, tags, history, nil
}

// marshalJSONB encodes v for a JSONB column, storing nil slices as [].
func marshalJSONB[T any](v []T) ([]byte, error) {
	if v == nil {
		v = []T{}
	}
	return json.Marshal(v)
}

func unmarshalJSONB(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
