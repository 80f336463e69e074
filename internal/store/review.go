package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingua-api/internal/domain"
)

// ReviewStore persists the append-only review audit log.
type ReviewStore interface {
	// Create appends a review record.
	Create(ctx context.Context, record *domain.ReviewRecord) error

	// WithTx returns a ReviewStore that runs its queries in tx.
	WithTx(tx *sql.Tx) ReviewStore
}
