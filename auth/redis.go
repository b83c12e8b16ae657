package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore resolves tokens from Redis string keys, optionally namespaced
// by Prefix.
type RedisStore struct {
	Client redis.UniversalClient
	Prefix string
}

// NewRedisStore connects to a single Redis node at addr.
func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisStore{Client: rdb, Prefix: prefix}
}

func (s *RedisStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	token, err := s.Client.Get(ctx, s.Prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

// Set stores token under key. A zero ttl keeps it until deleted.
func (s *RedisStore) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	return s.Client.Set(ctx, s.Prefix+key, token, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.Prefix+key).Err()
}

func (s *RedisStore) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
