// Package baseline stores reference responses keyed by endpoint identity.
package baseline

import (
	"sync"

	"github.com/venari/venari/pkg/types"
)

// Registry maps endpoint identity (method + ":" + path) to the captured
// reference response for that endpoint. Lifetime is one fuzz session:
// no eviction, no TTL, no capacity bound. A later Set for the same key
// silently overwrites the earlier one.
//
// The intended pattern is single-writer then many readers: baselines
// are captured to completion before fuzzing starts. The mutex makes
// interleaved use safe regardless.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]types.Baseline
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]types.Baseline)}
}

// Set stores the reduced snapshot of an exchange under key
func (r *Registry) Set(key string, result *types.ExchangeResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = types.NewBaseline(result)
}

// Get returns the baseline for key, if one was captured
func (r *Registry) Get(key string) (types.Baseline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.entries[key]
	return b, ok
}

// Len returns the number of captured baselines
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
