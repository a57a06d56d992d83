//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

func startRedis(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	})
	return client
}

func TestIdempotencyStore_SaveReplayAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := startRedis(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	missing, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: 7})
	require.NoError(t, err)

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(7), replayed.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", OrderID: 8})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, int64(7), existing.OrderID)

	ttl, err := client.TTL(ctx, "idem:order:create:k1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestIdempotencyStore_ClaimLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := startRedis(t)
	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	_, claimed, err := store.Claim(ctx, "k2", "h1")
	require.NoError(t, err)
	require.True(t, claimed)

	held, claimed, err := store.Claim(ctx, "k2", "h1")
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.True(t, held.Pending())

	assert.ErrorIs(t, store.Complete(ctx, "k2", "h2", 9), ports.ErrIdempotencyConflict)
	require.NoError(t, store.Complete(ctx, "k2", "h1", 9))

	require.NoError(t, store.Release(ctx, "k2", "h1"))
	done, err := store.Get(ctx, "k2")
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, int64(9), done.OrderID)
	ttl, err := client.TTL(ctx, "idem:order:create:k2").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, claimed, err = store.Claim(ctx, "k3", "h1")
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, store.Release(ctx, "k3", "h1"))
	_, claimed, err = store.Claim(ctx, "k3", "h2")
	require.NoError(t, err)
	assert.True(t, claimed)
}
