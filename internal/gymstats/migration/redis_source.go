package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSource is a legacy list kept as a single string value in redis.
type RedisSource struct {
	rdb redis.Cmdable
	key string
}

func NewRedisSource(rdb redis.Cmdable, key string) *RedisSource {
	if key == "" {
		key = LegacyKey
	}
	return &RedisSource{
		rdb: rdb,
		key: key,
	}
}

func (s *RedisSource) Name() string {
	return "redis:" + s.key
}

func (s *RedisSource) Load(ctx context.Context) ([]byte, bool, error) {
	blob, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return blob, true, nil
}

func (s *RedisSource) Remove(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
