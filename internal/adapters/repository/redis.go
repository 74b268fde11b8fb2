package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/fantasybakes/internal/domain/model"
)

// redisClient is the subset of *redis.Client used by RedisStore.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps the season document as a JSON string under one key.
type RedisStore struct {
	client redisClient
	key    string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redisClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// Load fetches and decodes the document.
func (r *RedisStore) Load(ctx context.Context) (s *model.Season, err error) {
	defer func(start time.Time) { observe(BackendRedis, opLoad, start, err) }(time.Now())

	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, loadErr(BackendRedis, fmt.Errorf("%s: %w", r.key, errEmpty))
		}
		return nil, loadErr(BackendRedis, err)
	}
	s, err = decodeJSON(data)
	if err != nil {
		return nil, loadErr(BackendRedis, err)
	}
	return s, nil
}

// Save encodes and stores the document without expiry.
func (r *RedisStore) Save(ctx context.Context, s *model.Season) (err error) {
	defer func(start time.Time) { observe(BackendRedis, opSave, start, err) }(time.Now())

	data, err := encodeJSON(s)
	if err != nil {
		return saveErr(BackendRedis, err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return saveErr(BackendRedis, err)
	}
	return nil
}

// Close releases the client.
func (r *RedisStore) Close() error { return r.client.Close() }
