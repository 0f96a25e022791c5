package store

import (
	"github.com/aretw0/introspection"
)

// State exposes internal state for observability.
type State struct {
	Notes       int  `json:"notes"`
	Loaded      bool `json:"loaded"`
	Subscribers int  `json:"subscribers"`
	EventBuffer int  `json:"event_buffer"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.Lock()
	notes := len(s.notes)
	loaded := s.loaded
	s.mu.Unlock()

	s.subMu.Lock()
	subs := len(s.subs)
	s.subMu.Unlock()

	return State{
		Notes:       notes,
		Loaded:      loaded,
		Subscribers: subs,
		EventBuffer: s.eventBuffer,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
