// Package cache defines the byte-oriented TTL store shared by read-through caches and the
// token denylist.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type noopStore struct{}

// Noop never stores anything.
func Noop() Store {
	return noopStore{}
}

func (noopStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (noopStore) Delete(context.Context, ...string) error {
	return nil
}

// GetJSON decodes a cached value into dst. A missing key or an undecodable payload is a miss.
func GetJSON(ctx context.Context, store Store, key string, dst any) (bool, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, data, ttl)
}

// Keys of the shared reference-data entries.
const (
	KeyNeighborhoods = "neighborhoods:all"
	KeyStatistics    = "statistics:summary"
)
