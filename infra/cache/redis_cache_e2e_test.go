//go:build e2e

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisRecordCache(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })
	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisRecordCache(client, "test:", discard())
	rec, err := c.Get(ctx, "C00000001")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, c.Set(ctx, "C00000001", &archive.Record{ID: "r1", NumeroCompte: "C00000001"}, time.Minute))
	rec, err = c.Get(ctx, "C00000001")
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)

	ttl, err := client.TTL(ctx, "test:archive:C00000001").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, c.Delete(ctx, "C00000001", "r1"))
	rec, err = c.Get(ctx, "C00000001")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
