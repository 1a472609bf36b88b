package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Translate maps persistence-layer errors onto the domain taxonomy so
// callers only ever see the sentinels above.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if IsDuplicateKey(err) {
		return ErrConflict
	}

	return err
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
// Postgres says "duplicate key value violates unique constraint",
// SQLite (tests) says "UNIQUE constraint failed".
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
