package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/lingua-api/internal/store"
)

// SQLSTATE codes the stores care about.
const (
	uniqueViolationCode      = "23505"
	foreignKeyViolationCode  = "23503"
	checkViolationCode       = "23514"
	notNullViolationCode     = "23502"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
	lockNotAvailableCode     = "55P03"
)

// pgErrorKinds maps SQLSTATE codes onto store sentinels.
var pgErrorKinds = map[string]error{
	uniqueViolationCode:      store.ErrDuplicate,
	foreignKeyViolationCode:  store.ErrInvalidEntity,
	checkViolationCode:       store.ErrInvalidEntity,
	notNullViolationCode:     store.ErrInvalidEntity,
	serializationFailureCode: store.ErrConflict,
	deadlockDetectedCode:     store.ErrConflict,
	lockNotAvailableCode:     store.ErrConflict,
}

// MapError translates a driver error into the store error vocabulary so
// callers can branch with errors.Is. Errors without a mapping pass through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	kind, ok := pgErrorKinds[pgErr.Code]
	if !ok {
		return err
	}

	switch {
	case pgErr.ConstraintName != "":
		return fmt.Errorf("%w: constraint %s: %v", kind, pgErr.ConstraintName, err)
	case pgErr.Code == notNullViolationCode && pgErr.ColumnName != "":
		return fmt.Errorf("%w: column %s: %v", kind, pgErr.ColumnName, err)
	default:
		return fmt.Errorf("%w: %v", kind, err)
	}
}

// CheckRowsAffected returns notFound (store.ErrNotFound when nil) if the
// statement touched no rows. Version-guarded updates pass store.ErrConflict.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("no result to check")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}
