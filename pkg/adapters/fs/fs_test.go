package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *fs.Store {
	t.Helper()

	s, err := fs.New(fs.Config{Path: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	return s
}

func TestNew_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data")
	_, err := fs.New(fs.Config{Path: path})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "notes", []byte(`[{"id":"a"}]`)))

	data, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, string(data))
}

func TestStore_NestedKeys(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "asset/version", []byte("v3")))

	// The key maps onto a nested file.
	_, err := os.Stat(filepath.Join(s.Path(), "asset", "version"))
	require.NoError(t, err)

	data, ok, err := s.Get(ctx, "asset/version")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v3", string(data))
}

func TestStore_RejectsTraversal(t *testing.T) {
	s := setupStore(t)
	err := s.Put(context.Background(), "../escape", []byte("x"))
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Delete(ctx, "k"), "delete is idempotent")
}

func TestStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Put(ctx, "notes", []byte("payload")))
	}

	entries, err := os.ReadDir(s.Path())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), fs.TempFilePrefix)
	}
}
