package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"log/slog"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/redis/go-redis/v9"
)

// RedisRecordCache implements RecordCache using Redis, so every API and
// scheduler process shares the same cached archive lookups.
type RedisRecordCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisRecordCache wraps an existing client. The caller owns the client.
func NewRedisRecordCache(
	client *redis.Client,
	prefix string,
	logger *slog.Logger,
) *RedisRecordCache {
	return &RedisRecordCache{client: client, prefix: prefix, logger: logger}
}

func (r *RedisRecordCache) key(key string) string {
	return r.prefix + "archive:" + key
}

func (r *RedisRecordCache) Get(ctx context.Context, key string) (*archive.Record, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Redis cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var rec archive.Record
	if err := json.Unmarshal(val, &rec); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	r.logger.Debug("Redis cache hit", "key", key)
	return &rec, nil
}

func (r *RedisRecordCache) Set(
	ctx context.Context,
	key string,
	rec *archive.Record,
	ttl time.Duration,
) error {
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	r.logger.Debug("Redis cache set", "key", key, "ttl", ttl)
	return nil
}

func (r *RedisRecordCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		r.logger.Error("Redis cache delete error", "keys", keys, "error", err)
		return err
	}
	r.logger.Debug("Redis cache delete", "keys", keys)
	return nil
}
