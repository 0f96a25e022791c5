package badgerdb_test

import (
	"context"
	"testing"

	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/badgerdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *badgerdb.Store {
	t.Helper()

	s, err := badgerdb.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok, "ErrKeyNotFound must be normalized to absent")

	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))

	data, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`[]`), data)
}

func TestStore_Overwrite(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("one")))
	require.NoError(t, s.Put(ctx, "k", []byte("two")))

	data, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(data))
}

func TestStore_Delete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "k"), "delete is idempotent")
}

func TestOpen_PersistentRequiresPath(t *testing.T) {
	_, err := badgerdb.Open(badgerdb.Config{})
	require.Error(t, err)
}

func TestOpen_Persistent(t *testing.T) {
	dir := t.TempDir()

	s, err := badgerdb.Open(badgerdb.DefaultConfig(dir))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", []byte("survives")))
	require.NoError(t, s.Close())

	s2, err := badgerdb.Open(badgerdb.DefaultConfig(dir))
	require.NoError(t, err)
	defer s2.Close()

	data, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "survives", string(data))
}
