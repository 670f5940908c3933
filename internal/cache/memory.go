package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// memoryItem is a stored value with its wall-clock expiry.
type memoryItem struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is the in-process fallback store. Expired keys are evicted
// lazily by the read that discovers them; there is no background sweep.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	clock clockwork.Clock
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(clockwork.NewRealClock())
}

// NewMemoryStoreWithClock creates a store on an injected clock so tests
// can advance time without sleeping.
func NewMemoryStoreWithClock(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		clock: clock,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if s.clock.Now().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return item.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = memoryItem{
		value:     value,
		expiresAt: s.clock.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

func (s *MemoryStore) TTL(_ context.Context, key string) (int, error) {
	s.mu.RLock()
	item, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return TTLAbsent, nil
	}
	remaining := item.expiresAt.Sub(s.clock.Now())
	if remaining < 0 {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return TTLAbsent, nil
	}
	return int(remaining / time.Second), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
