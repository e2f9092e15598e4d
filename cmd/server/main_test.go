package main_test

import (
	"net/http"
	"testing"

	"github.com/amirasaad/bankmanager/webapi/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRootRoute(t *testing.T) {
	env := testutils.New(t)

	resp := testutils.MakeRequest(env.Fiber, http.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "v1", resp.Header.Get("X-API-Version"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServerSwaggerDoc(t *testing.T) {
	env := testutils.New(t)

	resp := testutils.MakeRequest(env.Fiber, http.MethodGet, "/swagger/doc.json", "", "")
	doc := testutils.Decode[map[string]any](t, resp)
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api/v1", doc["basePath"])
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/comptes/{numero}/bloquer")
	assert.Contains(t, paths, "/auth/login")
}
