// Package gate implements the one-time confirmation marker that guards the
// contact confirmation page.
package gate

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultKey names the marker written after a successful contact submission.
const DefaultKey = "auctus-contact-confirmed"

// MarkerStore is a session-scoped key/value store.
type MarkerStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Gate grants a single view per marker.
type Gate struct {
	Key string
}

// New returns a gate for key, or DefaultKey when key is blank.
func New(key string) Gate {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return Gate{Key: key}
}

// Mark records a confirmation at now (Unix milliseconds).
func (g Gate) Mark(store MarkerStore, now time.Time) error {
	return store.Set(g.key(), strconv.FormatInt(now.UnixMilli(), 10))
}

// Consume reads and deletes the marker. ok is false when no marker was set,
// or when deleting it failed (a marker that cannot be cleared is not honoured).
func (g Gate) Consume(store MarkerStore) (value string, ok bool) {
	value, ok = store.Get(g.key())
	if !ok || value == "" {
		return "", false
	}
	if err := store.Delete(g.key()); err != nil {
		return "", false
	}
	return value, true
}

func (g Gate) key() string {
	if g.Key == "" {
		return DefaultKey
	}
	return g.Key
}

// MemoryStore is an in-process MarkerStore, one per browsing session.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
