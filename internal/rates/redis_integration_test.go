//go:build integration

package rates

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCacheRoundTrip(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	cache := NewRedisCache(client, "", time.Minute)

	_, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	fetched := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Store(ctx, Entry{Table: mustTable(t, 0.83), FetchedAt: fetched}))

	e, ok, err := cache.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.83, gbpOf(e.Table))
	assert.True(t, fetched.Equal(e.FetchedAt))

	ttl, err := client.TTL(ctx, DefaultRedisKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
