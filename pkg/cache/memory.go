package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryCache implements Service using in-process storage. Used in
// tests and as a fallback when Redis is not configured.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]*memoryItem
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]*memoryItem)}
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.data[key] = &memoryItem{value: b, expireAt: time.Now().Add(expiration)}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.data[key]
	if !exists || item.expired() {
		if exists {
			delete(mc.data, key)
		}
		return ErrCacheMiss
	}
	return json.Unmarshal(item.value, dest)
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, k := range keys {
		delete(mc.data, k)
	}
	return nil
}

func (mc *MemoryCache) Close() error { return nil }
