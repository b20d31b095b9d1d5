package database

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisStorageTimeout = 2 * time.Second

// RedisStorage adapts a Redis client to fiber.Storage so middleware state such as rate
// limit counters is shared between API replicas. Keys are namespaced by prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage wraps the client. The client's lifecycle stays with the caller.
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

// Get returns nil without error when the key does not exist.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageTimeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return value, err
}

// Set stores the value; a zero expiration keeps it forever.
func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageTimeout)
	defer cancel()

	return s.client.Set(ctx, s.key(key), val, exp).Err()
}

// Delete removes the key.
func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisStorageTimeout)
	defer cancel()

	return s.client.Del(ctx, s.key(key)).Err()
}

// Reset removes every key under the storage prefix.
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*redisStorageTimeout)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Close is a no-op; the shared client is closed on shutdown.
func (s *RedisStorage) Close() error {
	return nil
}
