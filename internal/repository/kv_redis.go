package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnpath_backend/internal/util"

	"github.com/go-redis/redis/v8"
)

// RedisStore backs the progress document with a single Redis key.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", util.ErrKeyNotFound
	}
	if err != nil {
		return "", classifyRedisError(err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.Client.Set(ctx, key, value, 0).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return classifyRedisError(err)
	}
	return nil
}

func classifyRedisError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "OOM"):
		return fmt.Errorf("%w: %v", util.ErrStorageQuota, err)
	case strings.Contains(msg, "NOAUTH"), strings.Contains(msg, "NOPERM"), strings.Contains(msg, "READONLY"):
		return fmt.Errorf("%w: %v", util.ErrStorageDenied, err)
	default:
		return err
	}
}
