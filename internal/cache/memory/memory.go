// Package memory implements the tag-indexed cache store in process memory.
// It backs tests and deployments without a redis instance.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ksb-dev-1/careerly-new/internal/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is an in-memory cache.Store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	tags    map[string]map[string]struct{}
	ttl     time.Duration
	closed  bool
}

// New builds an empty store.
func New(opts cache.Options) *Store {
	ttl := opts.DefaultTTL
	if ttl == 0 {
		ttl = cache.DefaultOptions().DefaultTTL
	}
	return &Store{
		entries: make(map[string]entry),
		tags:    make(map[string]map[string]struct{}),
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or cache.ErrNotFound.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", cache.ErrClosed
	}
	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", cache.ErrNotFound
	}
	return e.value, nil
}

// Set stores value under key and records the key under each tag.
func (s *Store) Set(_ context.Context, key string, value string, ttl time.Duration, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return cache.ErrClosed
	}
	if ttl == 0 {
		ttl = s.ttl
	}
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	for _, tag := range tags {
		if s.tags[tag] == nil {
			s.tags[tag] = make(map[string]struct{})
		}
		s.tags[tag][key] = struct{}{}
	}
	return nil
}

// MarkStale deletes every key recorded under each tag.
func (s *Store) MarkStale(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return cache.ErrClosed
	}
	for _, tag := range tags {
		for key := range s.tags[tag] {
			delete(s.entries, key)
		}
		delete(s.tags, tag)
	}
	return nil
}

// Close drops all entries and rejects further use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.tags = nil
	s.closed = true
	return nil
}
