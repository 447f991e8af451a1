package localstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the blob store with a shared on-site redis. Used when
// REDIS_STORE_ENABLED is set so several thin clients at one location
// read the same cache.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedisStore(rdb *redis.Client, ctx context.Context) *RedisStore {
	if ctx == nil {
		ctx = context.Background()
	}
	return &RedisStore{rdb: rdb, ctx: ctx}
}

func (s *RedisStore) Get(key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(s.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(key string, value []byte) error {
	// No expiry: collections live until rewritten or removed.
	return s.rdb.Set(s.ctx, key, value, 0).Err()
}

func (s *RedisStore) Remove(key string) error {
	return s.rdb.Del(s.ctx, key).Err()
}
