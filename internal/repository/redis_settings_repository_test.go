package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisTestClient(t *testing.T) *redis.Client {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisSettingsRepository_RoundTrip(t *testing.T) {
	client := setupRedisTestClient(t)
	defer client.Close()

	repo := NewRedisSettingsRepository(client)
	ctx := context.Background()
	key := "test_custom_months"
	_ = repo.Delete(ctx, key)
	defer repo.Delete(ctx, key)

	got, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Set(ctx, key, []byte(`[{"id":"a"}]`)))

	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a"}]`), got)

	require.NoError(t, repo.Delete(ctx, key))
	got, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
