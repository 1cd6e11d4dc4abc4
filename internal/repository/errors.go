package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Postgres error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// constraintViolation returns the constraint name when err is a Postgres
// error with the given code.
func constraintViolation(err error, code string) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == code {
		return pqErr.Constraint, true
	}
	return "", false
}

func isUniqueViolation(err error) (string, bool) {
	return constraintViolation(err, pgUniqueViolation)
}

func isForeignKeyViolation(err error) (string, bool) {
	return constraintViolation(err, pgForeignKeyViolation)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term anywhere, with LIKE
// wildcards in term taken literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
