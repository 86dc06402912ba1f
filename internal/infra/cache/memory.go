package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store with TTL expiry, the default when no
// Redis address is configured.
type Memory struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		clock:   time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// NewMemoryWithClock allows deterministic expiry in tests.
func NewMemoryWithClock(ttl time.Duration, clock func() time.Time) *Memory {
	store := NewMemory(ttl)
	store.clock = clock
	return store
}

func (m *Memory) Get(_ context.Context, url string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[url]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(m.clock()) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) Set(_ context.Context, url string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expiresAt = m.clock().Add(m.ttl)
	}
	m.entries[url] = entry
	return nil
}

func (m *Memory) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, url)
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.clock()
	keys := make([]string, 0, len(m.entries))
	for url, entry := range m.entries {
		if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
			continue
		}
		keys = append(keys, url)
	}
	sort.Strings(keys)
	return keys, nil
}
