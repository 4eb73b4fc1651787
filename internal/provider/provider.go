// Package provider defines the adapter capability shared by the three AI
// vision backends, plus the response handling common to all of them:
// JSON-in-prose extraction, schema validation, and error normalization.
package provider

import (
	"context"

	"github.com/HackrsValv/design-critic/internal/critique"
)

// Adapter translates one critique call into a provider-specific request and
// parses the provider's answer back into the canonical schema. Implementations
// make exactly one outbound call per invocation and never retry; a provider
// failure surfaces immediately.
type Adapter interface {
	// Critique sends the image and prompt using the caller-supplied key.
	// An empty apiKey falls back to the adapter's configured default key,
	// if any; with neither, the call fails with a validation error.
	Critique(ctx context.Context, img *critique.ImagePayload, userPrompt, apiKey string) (*critique.CritiqueResponse, error)

	// Name returns the provider this adapter serves.
	Name() critique.Provider

	// HasDefaultKey reports whether a server-side default key is configured.
	HasDefaultKey() bool
}

// Registry is the explicit enum-keyed adapter table. Adapter selection is a
// map lookup on the provider enum, never reflection.
type Registry struct {
	adapters map[critique.Provider]Adapter
}

// NewRegistry builds a registry from the given adapters. A later adapter for
// the same provider overwrites an earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	m := make(map[critique.Provider]Adapter, len(adapters))
	for _, a := range adapters {
		if a != nil {
			m[a.Name()] = a
		}
	}
	return &Registry{adapters: m}
}

// Get returns the adapter for p.
func (r *Registry) Get(p critique.Provider) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, critique.Validationf("unknown provider %q", p)
	}
	return a, nil
}

// Adapters returns the registered adapters keyed by provider enum order.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, 0, len(r.adapters))
	for _, p := range critique.Providers() {
		if a, ok := r.adapters[p]; ok {
			out = append(out, a)
		}
	}
	return out
}
