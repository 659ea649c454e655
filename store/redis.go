// ABOUTME: Redis-backed KV store so several devices can share one CRM
// ABOUTME: Keys are namespaced by a prefix inside the target database
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisPrefix = "amil:"

type RedisStore struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects using a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisStore(client, prefix), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(k []byte) string {
	return s.prefix + string(k)
}

func (s *RedisStore) Get(key []byte) ([]byte, error) {
	val, err := s.client.Get(context.Background(), s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *RedisStore) Set(key, value []byte) error {
	return s.client.Set(context.Background(), s.key(key), value, 0).Err()
}

func (s *RedisStore) Delete(key []byte) error {
	return s.client.Del(context.Background(), s.key(key)).Err()
}

func (s *RedisStore) Keys() ([][]byte, error) {
	ctx := context.Background()
	var keys [][]byte
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, []byte(strings.TrimPrefix(iter.Val(), s.prefix)))
	}
	return keys, iter.Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
