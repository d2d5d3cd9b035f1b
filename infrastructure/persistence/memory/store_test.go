package memory

import (
	"context"
	"testing"
	"time"

	"destek-backend/application/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "emb:abc", []byte("value"), 0))

	got, err := store.Get(ctx, "emb:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	require.NoError(t, store.Delete(ctx, "emb:abc"))
	_, err = store.Get(ctx, "emb:abc")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	// deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, "emb:abc"))
}

func TestStore_TTLExpiry(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ratelimit:x", []byte("1"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "ratelimit:x")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)

	keys, err := store.ListKeys(ctx, "ratelimit:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_ListKeysFiltersByPrefix(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "emb:a", []byte("1"), 0))
	require.NoError(t, store.Put(ctx, "emb:b", []byte("2"), 0))
	require.NoError(t, store.Put(ctx, "metrics:recent", []byte("3"), 0))

	keys, err := store.ListKeys(ctx, "emb:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"emb:a", "emb:b"}, keys)
}
