package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-api/internal/domain/progress"
)

// ProgressStore persists the per-(user, language) progress aggregate.
type ProgressStore interface {
	// Get returns the progress for userID in language.
	// Returns ErrProgressNotFound if none has been recorded yet.
	Get(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error)

	// GetOrCreateForUpdate inserts the default progress record when absent
	// and returns the record with its row locked until the surrounding
	// transaction ends. It MUST be called on a store obtained from WithTx.
	GetOrCreateForUpdate(ctx context.Context, userID uuid.UUID, language string) (*progress.UserProgress, error)

	// Update writes the aggregate back with a version check; on success
	// p.Version is incremented. Returns ErrConflict on a version mismatch.
	Update(ctx context.Context, p *progress.UserProgress) error

	// WithTx returns a ProgressStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ProgressStore
}
