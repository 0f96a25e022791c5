// Package lifecycle bridges the store's mutation events into the generic
// lifecycle event runtime, so applications can plug note activity into an
// existing lifecycle.Source pipeline.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a store subscription (see store.Subscribe) as a
// lifecycle.Source. The bridge goroutine is tracked by lifecycle.Go and
// drains until the subscription closes or the context ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
