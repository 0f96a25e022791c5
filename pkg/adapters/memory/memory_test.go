package memory_test

import (
	"context"
	"testing"

	"github.com/TheReal-Flo/SaveMyMind/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report absent, not error")

	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))

	data, ok, err := s.Get(ctx, "notes")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`[]`), data)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("abc")))

	data, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	data[0] = 'X'

	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again, "mutating a returned blob must not corrupt the store")
}

func TestStore_Delete(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete(ctx, "k"))
	assert.Equal(t, 0, s.Len())
}

func TestStore_CancelledContext(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Put(ctx, "k", []byte("v")))
	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
}
