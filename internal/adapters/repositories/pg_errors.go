package repositories

import (
	"cargo-tracking-service/internal/platform/sentinel"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation  = "23503"
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// classify tags constraint and serialization failures as sentinel.ErrConflict
// so callers can tell a rejected write from a broken connection.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation, pgUniqueViolation, pgSerializationFailure:
		return fmt.Errorf("%w: %s: %w", sentinel.ErrConflict, pgErr.ConstraintName, err)
	}
	return err
}
