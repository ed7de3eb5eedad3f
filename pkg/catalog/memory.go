package catalog

import (
	"context"
	"sync"
)

// MemoryRegistry is an in-memory Registry backed by an ordered slice.
// It is used by tests, the CLI, and deployments whose catalog is loaded
// once at startup. The insertion order of candidates is the enumeration
// order.
type MemoryRegistry struct {
	mu         sync.RWMutex
	candidates []ModelCandidate
}

// NewMemoryRegistry creates a registry pre-populated with candidates.
// The slice order is preserved as the enumeration order.
func NewMemoryRegistry(candidates []ModelCandidate) *MemoryRegistry {
	r := &MemoryRegistry{}
	r.SetCandidates(candidates)
	return r
}

// SetCandidates replaces the registry contents atomically.
func (r *MemoryRegistry) SetCandidates(candidates []ModelCandidate) {
	copied := make([]ModelCandidate, len(candidates))
	copy(copied, candidates)

	r.mu.Lock()
	r.candidates = copied
	r.mu.Unlock()
}

// ListActiveCandidates returns the active candidates matching the
// filter, in insertion order.
func (r *MemoryRegistry) ListActiveCandidates(ctx context.Context, filter CapabilityFilter) ([]ModelCandidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]ModelCandidate, 0, len(r.candidates))
	for _, c := range r.candidates {
		if c.Active && c.HasCapabilities(filter) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// Lookup returns the candidate with the given model id, if present.
func (r *MemoryRegistry) Lookup(ctx context.Context, modelID string) (ModelCandidate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.candidates {
		if c.ID == modelID {
			return c, true, nil
		}
	}
	return ModelCandidate{}, false, nil
}
