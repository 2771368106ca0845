package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/vocab-srs/internal/store"
)

// SQLSTATE codes the stores react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// invalidEntityCodes describe rows the schema refuses, keyed by code with
// the label used in the mapped error.
var invalidEntityCodes = map[string]string{
	codeForeignKeyViolation: "foreign key violation",
	codeCheckViolation:      "check constraint violation",
	codeNotNullViolation:    "not null violation",
}

// MapError maps a database error to a store error. The original error text
// is kept in the message; errors without a specific mapping become
// store.ErrStorage.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if pgErr, ok := asPgError(err); ok {
		if pgErr.Code == codeUniqueViolation {
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}
		if label, ok := invalidEntityCodes[pgErr.Code]; ok {
			return fmt.Errorf("%w: %s (%s): %v", store.ErrInvalidEntity, label, subject(pgErr), err)
		}
	}

	return fmt.Errorf("%w: %v", store.ErrStorage, err)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// which the stores see when a schedule references a word that is gone.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// MapUniqueViolation returns specific wrapped around err when err is a
// unique violation, or a generic store.ErrDuplicate naming entity when
// specific is nil. Any other error is returned unchanged.
func MapUniqueViolation(err error, entity string, specific error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	if specific != nil {
		return fmt.Errorf("%w: %v", specific, err)
	}
	return fmt.Errorf("%w: %s already exists: %v", store.ErrDuplicate, entity, err)
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	ok := errors.As(err, &pgErr)
	return pgErr, ok
}

func hasCode(err error, code string) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == code
}

// subject names what a constraint error is about: the column for not-null
// violations, the constraint otherwise.
func subject(pgErr *pgconn.PgError) string {
	if pgErr.Code == codeNotNullViolation {
		return pgErr.ColumnName
	}
	return pgErr.ConstraintName
}
