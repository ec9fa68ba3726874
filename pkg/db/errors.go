package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation raised by
// Postgres (pgx or lib/pq) or SQLite. When column is provided the violation must
// mention it; both "users_email_key" and "users.email" match "email".
func IsUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation && matchesConstraint(pgxErr.ConstraintName+" "+pgxErr.Message, column)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && matchesConstraint(pqErr.Constraint+" "+pqErr.Message, column)
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return matchesConstraint(msg, column)
	}
	return false
}

func matchesConstraint(haystack, column string) bool {
	if column == "" {
		return true
	}
	return strings.Contains(haystack, column)
}
