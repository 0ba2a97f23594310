// Package redis implements the tag-indexed cache store on a redis backend.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
)

const tagPrefix = "tag:"

// Store is a redis-backed cache.Store.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New builds a Store from the given options.
func New(opts cache.Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	ttl := opts.DefaultTTL
	if ttl == 0 {
		ttl = cache.DefaultOptions().DefaultTTL
	}

	return &Store{client: client, ttl: ttl}
}

// Get returns the cached value for key, or cache.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", cache.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Set stores value under key and records the key in each tag's member set so
// MarkStale can find it later.
func (s *Store) Set(ctx context.Context, key string, value string, ttl time.Duration, tags ...string) error {
	if ttl == 0 {
		ttl = s.ttl
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagPrefix+tag, key)
		// Tag sets outlive their members slightly so stale keys never linger.
		pipe.Expire(ctx, tagPrefix+tag, ttl+time.Minute)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// MarkStale deletes every key recorded under each tag, then the tag set itself.
func (s *Store) MarkStale(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := s.client.SMembers(ctx, tagPrefix+tag).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if err := s.client.Del(ctx, tagPrefix+tag).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
