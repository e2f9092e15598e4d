package repository

import (
	"errors"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors, walking the
// error chain. Unmapped errors are returned unchanged.
//
// Duplicate-key and foreign-key translation needs gorm.Config.TranslateError.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	for currentErr := err; currentErr != nil; currentErr = errors.Unwrap(currentErr) {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(currentErr, gorm.ErrForeignKeyViolated):
			return domain.ErrValidation
		}
	}
	return err
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(row).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}

// NotFoundAs maps a not-found error to the given coded error and any other
// error through MapGormErrorToDomain.
func NotFoundAs(err error, notFound error) error {
	mapped := MapGormErrorToDomain(err)
	if errors.Is(mapped, domain.ErrNotFound) {
		return notFound
	}
	return mapped
}
