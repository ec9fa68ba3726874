package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	redisclient "github.com/petadopt/petadopt-backend/pkg/redis"
)

// MemoryStore is an in-process Store for local development without Redis and
// for tests. Entries are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: fmt.Sprint(value)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", redisclient.ErrNil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return "", redisclient.ErrNil
	}
	return entry.value, nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *MemoryStore) SessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Len reports the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// FixedWindowAllow mirrors the Redis limiter so development without Redis
// still throttles auth forms.
func (m *MemoryStore) FixedWindowAllow(_ context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "rl:" + scope
	now := m.now()
	entry, ok := m.entries[key]
	count := int64(0)
	if ok && (entry.expiresAt.IsZero() || now.Before(entry.expiresAt)) {
		count, _ = strconv.ParseInt(entry.value, 10, 64)
	} else {
		entry = memoryEntry{expiresAt: now.Add(window)}
	}
	count++
	entry.value = strconv.FormatInt(count, 10)
	m.entries[key] = entry
	return count <= limit, count, nil
}
