package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_TryLock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	release, ok, err := m.TryLock(ctx, "archive", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = m.TryLock(ctx, "archive", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "held lock cannot be taken")

	_, ok, _ = m.TryLock(ctx, "unarchive", time.Hour)
	assert.True(t, ok, "locks are per name")

	release()
	release2, ok, _ := m.TryLock(ctx, "archive", time.Hour)
	require.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok, _ = m.TryLock(ctx, "archive", time.Hour)
	assert.True(t, ok, "expired lock is taken over")

	release2()
	_, ok, _ = m.TryLock(ctx, "archive", time.Hour)
	assert.False(t, ok, "stale release leaves the new holder alone")
}
