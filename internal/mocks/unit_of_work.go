package mocks

import (
	"context"

	"github.com/phrazzld/lingua-api/internal/store"
)

// UnitOfWork runs functions directly against Stores without a database.
// BeginErr, when set, is returned before fn runs. Calls counts invocations
// of Do.
type UnitOfWork struct {
	Stores   store.Stores
	BeginErr error
	Calls    int
}

var _ store.UnitOfWork = (*UnitOfWork)(nil)

// Do implements store.UnitOfWork.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx store.Stores) error) error {
	u.Calls++
	if u.BeginErr != nil {
		return u.BeginErr
	}
	return fn(ctx, u.Stores)
}
