package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Setenv("APP_ENV", "test")
	t.Setenv("AUTH_JWT_SECRET", "cli-test-secret")
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "bank.db"))
	t.Setenv("REDIS_URL", "")
	t.Setenv("ARCHIVE_URL", "")
	t.Setenv("NOTIFICATION_KAFKA_BROKERS", "")
	t.Setenv("LOG_FORMAT", "text")
}

func TestRunCommands(t *testing.T) {
	setEnv(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, run(ctx, "setup-database", &out))
	assert.Contains(t, out.String(), "Migrations applied")
	assert.Contains(t, out.String(), "Default admin created: admin@bankmanager.sn")

	out.Reset()
	require.NoError(t, run(ctx, "setup-database", &out))
	assert.Contains(t, out.String(), "Default admin already present")

	out.Reset()
	require.NoError(t, run(ctx, "recompute-balances", &out))
	assert.Equal(t, "Recomputed 0 balances\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, "archive-expired", &out))
	assert.Equal(t, "Archived: 0, partial: 0, skipped: 0, failed: 0\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, "unarchive-expired", &out))
	assert.Equal(t, "Restored: 0, skipped: 0, failed: 0\n", out.String())
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), "deposit", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "deposit"`)
}
