package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaduty-go/internal/cache"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewStore(client, "test:")
}

func TestStoreSetGetWithPrefix(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "neighborhoods", []byte(`[1,2]`), time.Minute))

	raw, err := mr.Get("test:neighborhoods")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, raw)

	value, ok, err := store.Get(ctx, "neighborhoods")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[1,2]`, string(value))
}

func TestStoreMissAndExpiry(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "stats", []byte("x"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err = store.Get(ctx, "stats")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	mr, store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))
	require.NoError(t, store.Delete(ctx, "a", "b"))
	require.NoError(t, store.Delete(ctx))

	assert.False(t, mr.Exists("test:a"))
	assert.False(t, mr.Exists("test:b"))
}

func TestStoreJSONHelpers(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()

	type payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, cache.SetJSON(ctx, store, "json", payload{Count: 3}, time.Minute))

	var got payload
	ok, err := cache.GetJSON(ctx, store, "json", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Count)
}
