package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSettingsRepository is a key-value store over Redis, used instead of
// MySQL when CATALOG_STORE=redis
type RedisSettingsRepository struct {
	client *redis.Client
}

func NewRedisSettingsRepository(client *redis.Client) *RedisSettingsRepository {
	return &RedisSettingsRepository{client: client}
}

func settingsKey(key string) string {
	return fmt.Sprintf("settings:%s", key)
}

// Get returns the raw value stored under key, or nil when absent
func (r *RedisSettingsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, settingsKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return val, nil
}

// Set stores value under key without expiry
func (r *RedisSettingsRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, settingsKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (r *RedisSettingsRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, settingsKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
