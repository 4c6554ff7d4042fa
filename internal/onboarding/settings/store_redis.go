package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"neuroaccess/pkg/platform/sentinel"
)

const settingsKeyPrefix = "settings:"

// RedisStore shares runtime settings between authenticator instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, settingsKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores the value without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, settingsKeyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
