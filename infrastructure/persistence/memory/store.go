package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"destek-backend/application/ports"
)

// Store is an in-memory KeyValueStore with TTL support, used for local
// development and tests.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
}

type item struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{items: make(map[string]item)}
}

// Get retrieves a value, honoring expiry
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	if !it.expiresAt.IsZero() && time.Now().After(it.expiresAt) {
		return nil, ports.ErrKeyNotFound
	}

	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Put stores a value with an optional TTL
func (s *Store) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	it := item{value: stored}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}
	s.items[key] = it
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// ListKeys returns all live keys with the given prefix
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	var keys []string
	for key, it := range s.items {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}
