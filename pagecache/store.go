// Package pagecache holds analysis results keyed by page URL.
package pagecache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	timestamp time.Time
}

// Store is an unbounded URL-keyed cache. Writes are last-writer-wins.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
}

// New creates an empty store.
func New[T any]() *Store[T] {
	return &Store[T]{entries: make(map[string]entry[T])}
}

// Key hashes the full URL, query string included.
func Key(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

// Get returns the cached value for url.
func (s *Store[T]) Get(url string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[Key(url)]
	return e.value, ok
}

// Set stores value for url, replacing any previous entry.
func (s *Store[T]) Set(url string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(url)] = entry[T]{value: value, timestamp: time.Now()}
}

// StoredAt reports when the entry for url was written.
func (s *Store[T]) StoredAt(url string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[Key(url)]
	return e.timestamp, ok
}

// Delete removes the entries for the given URLs.
func (s *Store[T]) Delete(urls ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range urls {
		delete(s.entries, Key(u))
	}
}

// Clear drops every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry[T])
}

// Len returns the number of cached URLs.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
