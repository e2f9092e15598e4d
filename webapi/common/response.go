// Package common holds the response envelope, error mapping, request
// binding and shared middleware of the HTTP API.
package common

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope of every successful answer.
type Response struct {
	Success    bool            `json:"success"`
	Data       any             `json:"data"`
	Message    string          `json:"message,omitempty"`
	Pagination *dto.Pagination `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	Path       string          `json:"path"`
	TraceID    string          `json:"traceId"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	TraceID   string    `json:"traceId"`
}

// ErrorResponse is the envelope of every failed answer.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// SuccessResponseJSON writes data wrapped in the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Path(),
		TraceID:   TraceID(c),
	})
}

// PaginatedResponseJSON writes one page of a listing.
func PaginatedResponseJSON(c *fiber.Ctx, message string, data any, p dto.Pagination) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success:    true,
		Data:       data,
		Message:    message,
		Pagination: &p,
		Timestamp:  time.Now().UTC(),
		Path:       c.Path(),
		TraceID:    TraceID(c),
	})
}

// ErrorResponseJSON writes an error envelope with an explicit code.
func ErrorResponseJSON(c *fiber.Ctx, status int, code, message string, details any) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorBody{
			Code:      code,
			Message:   message,
			Details:   details,
			Timestamp: time.Now().UTC(),
			Path:      c.Path(),
			TraceID:   TraceID(c),
		},
	})
}

// TraceID returns the request id assigned by the requestid middleware.
func TraceID(c *fiber.Ctx) string {
	if id, ok := c.Locals(RequestIDKey).(string); ok {
		return id
	}
	return c.GetRespHeader(HeaderRequestID)
}
