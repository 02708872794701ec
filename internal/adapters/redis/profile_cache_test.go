package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestProfileCache_SetAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCache(client)
	ctx := context.Background()

	profile := domainauth.UserProfile{
		ID:        42,
		Name:      "Ada",
		Email:     "ada@example.com",
		Role:      domainauth.RoleAdmin,
		Status:    domainauth.StatusActive,
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	require.NoError(t, cache.Set(ctx, "hash-1", profile, time.Minute))

	got, ok, err := cache.Get(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile.ID, got.ID)
	assert.Equal(t, profile.Role, got.Role)
	assert.True(t, profile.CreatedAt.Equal(got.CreatedAt))

	ttl, err := client.TTL(ctx, defaultProfilePrefix+"hash-1").Result()
	require.NoError(t, err)
	assert.InDelta(t, time.Minute.Seconds(), ttl.Seconds(), 2)
}

func TestProfileCache_Miss(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCache(client)

	_, ok, err := cache.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.Get(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCache_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCacheWithPrefix(client, "test:profile:")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "hash-2", domainauth.UserProfile{ID: 1, Role: domainauth.RoleUser}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "hash-2"))
	require.NoError(t, cache.Delete(ctx, ""))

	_, ok, err := cache.Get(ctx, "hash-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCache_CorruptEntryIsMiss(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCache(client)
	ctx := context.Background()
	require.NoError(t, client.Set(ctx, defaultProfilePrefix+"bad", "{not json", time.Minute).Err())

	_, ok, err := cache.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := client.Exists(ctx, defaultProfilePrefix+"bad").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestProfileCache_SetRejectsBadInput(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	cache := NewProfileCache(client)
	ctx := context.Background()

	require.Error(t, cache.Set(ctx, "", domainauth.UserProfile{}, time.Minute))
	require.Error(t, cache.Set(ctx, "k", domainauth.UserProfile{}, 0))
}
