// Package testutils builds a fully wired application backed by a private
// SQLite database and an in-memory archive for HTTP handler tests.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraarchive "github.com/amirasaad/bankmanager/infra/archive"
	"github.com/amirasaad/bankmanager/infra/lock"
	infranotification "github.com/amirasaad/bankmanager/infra/notification"
	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/app"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Env is a running test application.
type Env struct {
	App   *app.App
	Fiber *fiber.App
	Store *infraarchive.MemoryStore
}

// Config returns an application config suited to tests.
func Config() *config.App {
	return &config.App{
		Env:       "test",
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Minute},
		Auth:      &config.Auth{Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		Archive:   &config.Archive{Timeout: 5 * time.Second},
		Scheduler: &config.Scheduler{
			ArchiveSchedule:   "0 2 * * *",
			UnarchiveSchedule: "30 2 * * *",
			Timezone:          "UTC",
			LockTTL:           time.Hour,
		},
		Account: &config.Account{DefaultCurrency: "FCFA", MinInitialBalance: 10000},
	}
}

// New wires an application on a fresh SQLite database.
func New(t testing.TB) *Env {
	t.Helper()
	return NewWithDB(t, testutil.NewDB(t), Config())
}

// NewWithDB wires an application on db.
func NewWithDB(t testing.TB, db *gorm.DB, cfg *config.App) *Env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := infraarchive.NewMemoryStore()
	deps := &app.Deps{
		Uow:          infrarepo.NewUoW(db),
		ArchiveStore: store,
		Locker:       lock.NewMemory(),
		Notifier:     infranotification.NewLog(logger),
		Logger:       logger,
	}
	a := app.New(deps, cfg)
	return &Env{App: a, Fiber: webapi.SetupApp(a), Store: store}
}

// AdminToken seeds an admin and returns a token obtained through the
// login endpoint.
func (e *Env) AdminToken(t testing.TB) string {
	t.Helper()
	_, err := e.App.AdminService.EnsureDefault(context.Background(), "Admin", "admin@bankmanager.sn", "password123")
	require.NoError(t, err)
	resp := MakeRequest(e.Fiber, http.MethodPost, "/api/v1/auth/login",
		`{"email":"admin@bankmanager.sn","password":"password123"}`, "")
	body := Decode[map[string]any](t, resp)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "login failed: %v", body)
	return data["token"].(string)
}

// MakeRequest sends a JSON request to app. An empty token sends no
// Authorization header.
func MakeRequest(app *fiber.App, method, path, body, token string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err)
	}
	return resp
}

// Decode reads and closes the response body.
func Decode[T any](t testing.TB, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
