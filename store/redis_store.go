package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps blobs as plain string keys in Redis. Every call is bounded by
// the configured timeout so an unreachable server fails fast.
type RedisKV struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisKV wraps an existing client. prefix is prepended to every key.
func NewRedisKV(client *redis.Client, prefix string, timeout time.Duration) *RedisKV {
	if client == nil {
		panic("store.NewRedisKV: client is nil")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &RedisKV{client: client, prefix: prefix, timeout: timeout}
}

// DialRedis connects to addr (a host:port or a redis:// URL) and verifies the
// connection with a PING.
func DialRedis(addr, password string, db int, prefix string, timeout time.Duration) (*RedisKV, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr, Password: password, DB: db}
	}
	client := redis.NewClient(opts)
	kv := NewRedisKV(client, prefix, timeout)

	ctx, cancel := kv.context()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return kv, nil
}

func (s *RedisKV) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns the value stored under key.
func (s *RedisKV) Get(key string) ([]byte, error) {
	ctx, cancel := s.context()
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set overwrites the value for key with no expiry.
func (s *RedisKV) Set(key string, value []byte) error {
	ctx, cancel := s.context()
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisKV) Close() error {
	return s.client.Close()
}
