// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"jotter/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// GORM's TranslateError covers the common case; the pgconn check catches
// drivers/paths where translation is not applied.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// translateError converts store-level failures into the typed taxonomy:
// missing rows become NotFoundError, unique-constraint races become
// ConflictError, anything else an internal error.
func translateError(err error, resource string, id interface{}) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case isDuplicateKey(err):
		return models.NewConflictError(resource + " already exists")
	default:
		return models.NewInternalError(err)
	}
}
