package domain

import (
	"errors"
	"maps"
)

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrConflict is returned when an operation is not allowed in the current state
	ErrConflict = errors.New("state conflict")
	// ErrConcurrentModification is returned when an optimistic version check fails
	ErrConcurrentModification = errors.New("concurrent modification")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
)

// Error is a coded business error. Code is the stable machine-readable
// identifier exposed to API clients; kind is one of the sentinels above.
//
// errors.Is matches an *Error against its kind sentinel and against any
// other *Error carrying the same Code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
	kind    error
}

// NewError creates a coded error of the given kind.
func NewError(kind error, code, message string) *Error {
	return &Error{Code: code, Message: message, kind: kind}
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// Kind returns the sentinel this error belongs to.
func (e *Error) Kind() error {
	return e.kind
}

// WithDetails returns a copy of e with the given details merged in.
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+len(details))
	maps.Copy(cp.Details, e.Details)
	maps.Copy(cp.Details, details)
	return &cp
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// NewValidationError builds a VALIDATION_ERROR carrying field -> message details.
func NewValidationError(fields map[string]string) *Error {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &Error{
		Code:    "VALIDATION_ERROR",
		Message: "Les données fournies sont invalides",
		Details: details,
		kind:    ErrValidation,
	}
}

// ErrVersionConflict is returned when a row changed between read and write.
var ErrVersionConflict = NewError(
	ErrConcurrentModification,
	"CONCURRENT_MODIFICATION",
	"La ressource a été modifiée par une autre opération",
)
