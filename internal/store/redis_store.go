package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore 基于 Redis 的访客存储
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore 创建 Redis 存储，ttl<=0 表示不过期
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func redisKey(visitorID, key string) string {
	return fmt.Sprintf("visitor:%s:%s", visitorID, key)
}

func (s *RedisStore) Get(ctx context.Context, visitorID, key string) (string, error) {
	v, err := s.client.Get(ctx, redisKey(visitorID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, visitorID, key, value string) error {
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, redisKey(visitorID, key), value, ttl).Err(); err != nil {
		s.logger.Error("写入访客存储失败",
			zap.String("visitorId", visitorID),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, visitorID, key string) error {
	if err := s.client.Del(ctx, redisKey(visitorID, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
