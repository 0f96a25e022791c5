package fs_test

import (
	"context"
	"testing"
	"time"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, events <-chan core.Event, timeout time.Duration) core.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for watch event")
		return core.Event{}
	}
}

func TestWatch_EmitsOnExternalWrite(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "notes")
	require.NoError(t, err)

	// Writing through the store itself is "external" from the watcher's
	// point of view; it only sees the filesystem.
	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))

	ev := waitForEvent(t, events, 2*time.Second)
	require.Equal(t, "notes", ev.ID)
}

func TestWatch_PatternFiltersKeys(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := s.Watch(ctx, "notes")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "unrelated", []byte("x")))
	require.NoError(t, s.Put(ctx, "notes", []byte(`[]`)))

	ev := waitForEvent(t, events, 2*time.Second)
	require.Equal(t, "notes", ev.ID, "non-matching keys must be filtered out")
}

func TestWatch_InvalidPattern(t *testing.T) {
	s := setupStore(t)
	_, err := s.Watch(context.Background(), "[")
	require.Error(t, err)
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	s := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := s.Watch(ctx, "**")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		if ok {
			// Drain any in-flight event; the channel must close soon after.
			select {
			case _, ok = <-events:
				require.False(t, ok)
			case <-time.After(2 * time.Second):
				t.Fatal("events channel did not close after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel did not close after cancel")
	}
}
