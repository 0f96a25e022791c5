package lifecycle_test

import (
	"context"
	"testing"
	"time"

	adapter "github.com/TheReal-Flo/SaveMyMind/pkg/adapters/lifecycle"
	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_BridgesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := adapter.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, ID: "n1"}

	select {
	case e := <-src.Events():
		assert.Contains(t, e.String(), "n1")
	case <-time.After(time.Second):
		t.Fatal("expected a bridged event")
	}
}

func TestSource_ClosesWhenSubscriptionEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event)
	src := adapter.NewSource(in)
	require.NoError(t, src.Start(ctx))

	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output must close with the subscription")
	case <-time.After(time.Second):
		t.Fatal("output channel did not close")
	}
}
