package store

import (
	"errors"
	"fmt"
)

// Sentinels shared by every store implementation. Entity-specific
// not-found errors wrap ErrNotFound so a single errors.Is check covers them.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrConflict means the write was based on a stale version of the row.
	ErrConflict = errors.New("entity was modified concurrently")

	ErrTransactionFailed = errors.New("transaction failed")

	ErrCardNotFound     = fmt.Errorf("%w: card", ErrNotFound)
	ErrDeckNotFound     = fmt.Errorf("%w: deck", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: user progress", ErrNotFound)
)

func IsNotFoundError(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }
func IsConflictError(err error) bool  { return errors.Is(err, ErrConflict) }

// StoreError records which store operation failed on which entity.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
