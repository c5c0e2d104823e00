package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces record keys.
const DefaultRedisPrefix = "pixelgrid:record:"

// Redis keeps dashboard records as plain string keys.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis wraps a connected client. An empty prefix selects DefaultRedisPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if client == nil {
		panic("store.NewRedis: client is nil")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// OpenRedis parses a redis:// URL and connects.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedis(client, ""), nil
}

func (r *Redis) key(name string) string {
	return r.prefix + name
}

// Get returns the body of the named record.
func (r *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", name, err)
	}
	return data, nil
}

// Put replaces the named record. Records never expire.
func (r *Redis) Put(ctx context.Context, name string, body []byte) error {
	if err := r.client.Set(ctx, r.key(name), body, 0).Err(); err != nil {
		return fmt.Errorf("put record %q: %w", name, err)
	}
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
