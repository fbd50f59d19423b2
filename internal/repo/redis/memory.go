package redis

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is the single-process stand-in used when no Redis URL is
// configured. It offers the same guard and cache semantics.
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	guardTTL time.Duration
	now      func() time.Time
}

func NewMemoryStore(guardTTL time.Duration) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]memoryEntry),
		guardTTL: guardTTL,
		now:      time.Now,
	}
}

func (m *MemoryStore) lookup(key string) (memoryEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryStore) put(key, value string, ttl time.Duration) {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
}

func (m *MemoryStore) Acquire(_ context.Context, quoteID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := guardPrefix + quoteID
	if _, held := m.lookup(key); held {
		return false, nil
	}
	m.put(key, m.now().UTC().Format(time.RFC3339), m.guardTTL)
	return true, nil
}

func (m *MemoryStore) Release(_ context.Context, quoteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, guardPrefix+quoteID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, _ := m.lookup(key)
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(key, value, ttl)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
