package store

import (
	"context"
	"database/sql"
)

// Stores bundles the stores a service operation may touch.
type Stores struct {
	Cards    CardStore
	Decks    DeckStore
	Reviews  ReviewStore
	Progress ProgressStore
}

// WithTx returns a copy of s with every non-nil store bound to tx.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	bound := Stores{}
	if s.Cards != nil {
		bound.Cards = s.Cards.WithTx(tx)
	}
	if s.Decks != nil {
		bound.Decks = s.Decks.WithTx(tx)
	}
	if s.Reviews != nil {
		bound.Reviews = s.Reviews.WithTx(tx)
	}
	if s.Progress != nil {
		bound.Progress = s.Progress.WithTx(tx)
	}
	return bound
}

// UnitOfWork runs a function against stores that share one transaction.
// Everything written through tx commits when fn returns nil and rolls back
// otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error
}

// SQLUnitOfWork is the UnitOfWork backed by a *sql.DB.
type SQLUnitOfWork struct {
	db     *sql.DB
	stores Stores
}

var _ UnitOfWork = (*SQLUnitOfWork)(nil)

// NewUnitOfWork returns a UnitOfWork that binds stores to transactions
// opened on db.
func NewUnitOfWork(db *sql.DB, stores Stores) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db, stores: stores}
}

// Do implements UnitOfWork.
func (u *SQLUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error {
	return RunInTransaction(ctx, u.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, u.stores.WithTx(tx))
	})
}
