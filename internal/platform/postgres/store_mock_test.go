package postgres

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain"
	"github.com/stretchr/testify/require"
)

var cardColumnNames = []string{
	"id", "user_id", "deck_id", "vocabulary_id", "front", "back", "notes", "hints", "tags",
	"difficulty", "priority", "ease_factor", "interval_days", "repetition", "next_review_at",
	"last_reviewed_at", "review_count", "correct_count", "incorrect_count", "review_history",
	"is_active", "version", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), uuid.New(), domain.CardContent{
		Front: "la manzana",
		Back:  "the apple",
		Tags:  []string{"food"},
	})
	require.NoError(t, err)
	return card
}

func cardRow(card *domain.Card, history string) []driver.Value {
	var last any
	if card.LastReviewedAt != nil {
		last = *card.LastReviewedAt
	}
	return []driver.Value{
		card.ID.String(), card.UserID.String(), card.DeckID.String(), nil,
		card.Front, card.Back, card.Notes, []byte(`[]`), []byte(`["food"]`),
		string(card.Difficulty), int64(card.Priority), card.EaseFactor, int64(card.Interval),
		int64(card.Repetition), card.NextReviewAt, last, int64(card.ReviewCount),
		int64(card.CorrectCount), int64(card.IncorrectCount), []byte(history),
		card.Active, int64(card.Version), card.CreatedAt, card.UpdatedAt,
	}
}

var fixedNow = time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)
