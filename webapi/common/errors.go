package common

import (
	"errors"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/gofiber/fiber/v2"
)

const (
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeBadRequest        = "BAD_REQUEST"
)

// ErrorStatus maps an error to its HTTP status. Coded domain errors keep
// their code; anything unknown becomes a 500 whose cause is not exposed.
func ErrorStatus(err error) (int, *domain.Error) {
	var de *domain.Error
	if errors.As(err, &de) {
		return statusOf(de.Kind()), de
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, domain.NewError(nil, fiberCode(fe.Code), fe.Message)
	}
	return fiber.StatusInternalServerError,
		domain.NewError(nil, CodeInternal, "Une erreur interne est survenue")
}

func statusOf(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrValidation), errors.Is(kind, domain.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(kind, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, domain.ErrAlreadyExists), errors.Is(kind, domain.ErrConcurrentModification):
		return fiber.StatusConflict
	case errors.Is(kind, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusUnauthorized:
		return CodeUnauthorized
	case fiber.StatusForbidden:
		return CodeForbidden
	case fiber.StatusTooManyRequests:
		return CodeRateLimitExceeded
	case fiber.StatusBadRequest:
		return CodeBadRequest
	}
	if status >= fiber.StatusInternalServerError {
		return CodeInternal
	}
	return CodeBadRequest
}

// ErrorJSON writes err in the error envelope.
func ErrorJSON(c *fiber.Ctx, err error) error {
	status, de := ErrorStatus(err)
	var details any
	if len(de.Details) > 0 {
		details = de.Details
	}
	return ErrorResponseJSON(c, status, de.Code, de.Message, details)
}

// ErrorHandler is the fiber error handler of the application.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return ErrorJSON(c, err)
}
