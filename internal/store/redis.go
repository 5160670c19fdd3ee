package store

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisKV stores each collection document as a plain Redis string value.
type RedisKV struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisKV creates a Redis-backed store.
func NewRedisKV(client *redis.Client, logger *zap.Logger) *RedisKV {
	return &RedisKV{
		client: client,
		logger: logger,
	}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	s.logger.Debug("Collection saved",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
	)

	return nil
}
