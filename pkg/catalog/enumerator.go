package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// Enumerator resolves the set of eligible model candidates for a
// request from the registry, filtered by active status and required
// capability tags.
//
// The Enumerator does not distinguish hosting types for filtering
// purposes; hosting only matters downstream for thermal awareness.
type Enumerator struct {
	registry Registry
	logger   *slog.Logger
}

// NewEnumerator creates a new candidate enumerator over the registry.
func NewEnumerator(registry Registry, logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{
		registry: registry,
		logger:   logger.With("component", "catalog.enumerator"),
	}
}

// Enumerate returns every candidate that is active and whose capability
// tag set is a superset of the filter, in registry order.
//
// A failed registry lookup is returned as an error. An empty result is
// not an error here; the caller decides how to surface it.
func (e *Enumerator) Enumerate(ctx context.Context, filter CapabilityFilter) ([]ModelCandidate, error) {
	candidates, err := e.registry.ListActiveCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("registry lookup failed: %w", err)
	}

	// Re-verify activity and capabilities; the registry may have
	// returned a superset. Order is preserved.
	eligible := make([]ModelCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.Active {
			e.logger.Debug("candidate excluded, inactive",
				"model", c.ID,
				"provider", c.Provider,
			)
			continue
		}
		if !c.HasCapabilities(filter) {
			e.logger.Debug("candidate excluded, missing capability",
				"model", c.ID,
				"provider", c.Provider,
				"required", filter,
			)
			continue
		}
		eligible = append(eligible, c)
	}

	e.logger.Debug("enumerated candidates",
		"total", len(candidates),
		"eligible", len(eligible),
		"filter", filter,
	)

	return eligible, nil
}
