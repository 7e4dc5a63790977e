// Package redis implements the engine's ModelStore on Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store persists profile models as JSON values in Redis.
type Store struct {
	rdb *redis.Client
}

// NewStore creates a Redis-backed model store from a connection URL.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb}, nil
}

// NewStoreFromClient wraps an existing redis.Client for use in tests.
func NewStoreFromClient(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
