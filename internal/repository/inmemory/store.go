package inmemory

import (
	"context"
	"sync"
	"time"
)

// Store is a process-local TTL map. Expired entries are dropped lazily on read.
type Store struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

type item struct {
	value     []byte
	expiresAt time.Time
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]item),
		now:   time.Now,
	}
}

func (c *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !entry.expiresAt.After(now) {
		c.mu.Lock()
		entry, ok = c.items[key]
		if ok && !entry.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (c *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if value == nil || ttl <= 0 {
		return c.Delete(ctx, key)
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.items[key] = item{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *Store) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return nil
}

func (c *Store) Clear() {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}
