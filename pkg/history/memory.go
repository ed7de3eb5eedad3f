package history

import (
	"context"
	"sync"
	"time"

	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/router"
)

// outcome is one raw invocation result.
type outcome struct {
	latency   time.Duration
	success   bool
	createdAt time.Time
}

// Memory is an in-memory history store for tests and ephemeral
// deployments. It implements perf.HistorySource and router.DecisionSink.
type Memory struct {
	mu        sync.RWMutex
	decisions []router.Decision
	outcomes  map[string][]outcome
}

// NewMemory creates an empty in-memory history store.
func NewMemory() *Memory {
	return &Memory{
		outcomes: make(map[string][]outcome),
	}
}

// Record stores a copy of the decision. Implements router.DecisionSink.
func (m *Memory) Record(ctx context.Context, d *router.Decision) error {
	m.mu.Lock()
	m.decisions = append(m.decisions, *d)
	m.mu.Unlock()
	return nil
}

// RecordOutcome appends a raw invocation outcome for a model.
func (m *Memory) RecordOutcome(ctx context.Context, modelID string, latency time.Duration, success bool) error {
	m.mu.Lock()
	m.outcomes[modelID] = append(m.outcomes[modelID], outcome{
		latency:   latency,
		success:   success,
		createdAt: time.Now().UTC(),
	})
	m.mu.Unlock()
	return nil
}

// GetAggregate computes the windowed aggregate for a model. Implements
// perf.HistorySource. Returns perf.ErrNoData when no outcomes exist in
// the window.
func (m *Memory) GetAggregate(ctx context.Context, modelID string, windowDays int) (perf.Aggregate, error) {
	if windowDays <= 0 {
		windowDays = perf.DefaultWindowDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalLatency time.Duration
	var successes, count int64

	for _, o := range m.outcomes[modelID] {
		if o.createdAt.Before(cutoff) {
			continue
		}
		totalLatency += o.latency
		if o.success {
			successes++
		}
		count++
	}

	if count == 0 {
		return perf.Aggregate{}, perf.ErrNoData
	}

	return perf.Aggregate{
		ModelID:     modelID,
		AvgLatency:  totalLatency / time.Duration(count),
		SuccessRate: float64(successes) / float64(count),
		SampleCount: count,
	}, nil
}

// PruneBefore deletes decisions and outcomes created before the cutoff.
func (m *Memory) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64

	kept := m.decisions[:0]
	for _, d := range m.decisions {
		if d.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	m.decisions = kept

	for modelID, list := range m.outcomes {
		keptOutcomes := list[:0]
		for _, o := range list {
			if o.createdAt.Before(cutoff) {
				deleted++
				continue
			}
			keptOutcomes = append(keptOutcomes, o)
		}
		m.outcomes[modelID] = keptOutcomes
	}

	return deleted, nil
}

// Decisions returns a copy of the recorded decisions, oldest first.
func (m *Memory) Decisions() []router.Decision {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]router.Decision, len(m.decisions))
	copy(copied, m.decisions)
	return copied
}
