package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKVStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "products", []byte(`[{"id":"1"}]`)))

	raw, err := store.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"1"}]`), raw)
}

func TestSQLiteKVStore_MissingKeyIsNil(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	raw, err := store.Get(ctx, "yo'q")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestSQLiteKVStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "quotes", []byte("[]")))
	require.NoError(t, store.Set(ctx, "quotes", []byte(`[{"id":"q1"}]`)))

	raw, err := store.Get(ctx, "quotes")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"q1"}]`), raw)
}

func TestSQLiteKVStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store1, err := NewSQLiteKVStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Set(ctx, "products", []byte("[]")))
	require.NoError(t, store1.Close())

	store2, err := NewSQLiteKVStore(path)
	require.NoError(t, err)
	defer store2.Close()

	raw, err := store2.Get(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), raw)
}
