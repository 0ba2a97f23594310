// Package cache defines the tag-based response cache used by read paths and
// the invalidation sink used after each mutation. Cached entries are grouped
// under string tags keyed by entity id; marking a tag stale drops every entry
// recorded under it so the next read recomputes from postgres.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
)

// Invalidator marks named cache partitions dirty. Mutating services depend on
// this interface only.
type Invalidator interface {
	MarkStale(ctx context.Context, tags ...string) error
}

// Store is a tag-indexed response cache. Set records the entry under each of
// the given tags; MarkStale removes every entry recorded under a tag.
type Store interface {
	Invalidator

	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration, tags ...string) error

	Close() error
}

// Options configures a cache store.
type Options struct {
	DefaultTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		DefaultTTL: time.Hour,
	}
}
