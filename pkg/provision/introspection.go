package provision

import (
	"github.com/aretw0/introspection"
)

// State exposes internal state for observability.
type State struct {
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
	Version   string `json:"version"`
	Required  bool   `json:"required"`
	Observers int    `json:"observers"`
}

// State implements introspection.Introspectable.
func (g *Gate) State() any {
	g.mu.Lock()
	defer g.mu.Unlock()

	return State{
		Status:    g.status,
		Reason:    g.reason,
		Version:   g.cfg.Version,
		Required:  g.cfg.Required,
		Observers: len(g.observers),
	}
}

// ComponentType implements introspection.Component.
func (g *Gate) ComponentType() string {
	return "asset-gate"
}

var _ introspection.Introspectable = (*Gate)(nil)
var _ introspection.Component = (*Gate)(nil)
