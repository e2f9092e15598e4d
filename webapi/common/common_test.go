package common

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg *config.RateLimit) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestID(), Version(), RequestLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if cfg != nil {
		app.Use(RateLimiter(cfg))
	}
	return app
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{account.ErrAccountNotFound, fiber.StatusNotFound, "COMPTE_NOT_FOUND"},
		{account.ErrAccountNotActive, fiber.StatusBadRequest, "ACCOUNT_NOT_ACTIVE"},
		{account.ErrInvalidAccountType, fiber.StatusBadRequest, "INVALID_ACCOUNT_TYPE"},
		{domain.ErrVersionConflict, fiber.StatusConflict, "CONCURRENT_MODIFICATION"},
		{domain.NewValidationError(map[string]string{"x": "y"}), fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{fiber.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{errors.New("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range cases {
		status, de := ErrorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.Equal(t, tc.code, de.Code)
	}
}

func TestEnvelope(t *testing.T) {
	t.Parallel()
	app := newApp(nil)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponseJSON(c, fiber.StatusOK, "fine", fiber.Map{"a": 1})
	})
	app.Get("/ko", func(c *fiber.Ctx) error {
		return ErrorJSON(c, account.ErrAccountNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "trace-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, APIVersion, resp.Header.Get(HeaderAPIVersion))
	assert.Equal(t, "trace-1", resp.Header.Get(HeaderRequestID))
	ok := decode[Response](t, resp)
	assert.True(t, ok.Success)
	assert.Equal(t, "fine", ok.Message)
	assert.Equal(t, "/ok", ok.Path)
	assert.Equal(t, "trace-1", ok.TraceID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ko", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	ko := decode[ErrorResponse](t, resp)
	assert.False(t, ko.Success)
	assert.Equal(t, "COMPTE_NOT_FOUND", ko.Error.Code)
	assert.NotEmpty(t, ko.Error.TraceID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, CodeNotFound, decode[ErrorResponse](t, resp).Error.Code)
}

type openInput struct {
	Type  string `json:"type" validate:"required,oneof=epargne courant"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestBindAndValidate(t *testing.T) {
	t.Parallel()
	app := newApp(nil)
	app.Post("/", func(c *fiber.Ctx) error {
		in, err := BindAndValidate[openInput](c)
		if err != nil {
			return ErrorJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "", in)
	})
	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"type":"epargne"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = post(`{"type":"cheque","email":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	details := body.Error.Details.(map[string]any)
	assert.Contains(t, details, "type")
	assert.Contains(t, details, "email")

	resp = post(`{not json`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()
	app := newApp(&config.RateLimit{MaxRequests: 2, Window: time.Minute})
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusOK, call("1.1.1.1"))
	assert.Equal(t, fiber.StatusOK, call("1.1.1.1"))
	assert.Equal(t, fiber.StatusTooManyRequests, call("1.1.1.1"))
	assert.Equal(t, fiber.StatusOK, call("2.2.2.2"))
}
