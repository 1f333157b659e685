package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps drafts in Redis as JSON with a sliding TTL.  Any API
// instance can continue a draft started on another.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore returns a store writing under prefix (e.g. "skylink:draft").
func NewRedisStore(rdb *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *RedisStore) key(id string) string     { return s.prefix + ":" + id }
func (s *RedisStore) lockKey(id string) string { return s.prefix + ":lock:" + id }

func (s *RedisStore) Get(ctx context.Context, id string) (Draft, error) {
	bs, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft %s: %w", id, err)
	}
	var d Draft
	if err := json.Unmarshal(bs, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, d Draft) error {
	bs, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}
	if err := s.rdb.Set(ctx, s.key(d.ID), bs, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id), s.lockKey(id)).Err()
}

func (s *RedisStore) Lock(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := s.rdb.SetNX(ctx, s.lockKey(id), time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return fmt.Errorf("lock draft %s: %w", id, err)
	}
	if !ok {
		return ErrPaymentInProgress
	}
	return nil
}

func (s *RedisStore) Unlock(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.lockKey(id)).Err()
}
