package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return pgErrorCode(err) == "23505" // unique_violation
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return pgErrorCode(err) == "23503" // foreign_key_violation
}

// IsPgCheckViolation checks if error is a CHECK constraint violation
func IsPgCheckViolation(err error) bool {
	return pgErrorCode(err) == "23514" // check_violation
}

// IsPgInvalidTextError checks if a parameter failed to parse, e.g. a
// malformed uuid
func IsPgInvalidTextError(err error) bool {
	return pgErrorCode(err) == "22P02" // invalid_text_representation
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
