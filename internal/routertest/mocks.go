// Package routertest provides shared mock implementations of the routing
// engine's dependency interfaces for use in tests.
package routertest

import (
	"context"
	"sync"
	"time"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/router"
	"github.com/radiant/router/pkg/rules"
)

// MockRegistry is a mock implementation of catalog.Registry with error
// injection for testing registry failure paths.
type MockRegistry struct {
	mu         sync.Mutex
	candidates []catalog.ModelCandidate
	listErr    error
	listCalls  int
}

// NewMockRegistry creates a mock registry serving the given candidates in
// the given order.
func NewMockRegistry(candidates ...catalog.ModelCandidate) *MockRegistry {
	return &MockRegistry{candidates: candidates}
}

// FailWith makes subsequent ListActiveCandidates calls return err.
func (m *MockRegistry) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// ListCalls returns the number of ListActiveCandidates calls observed.
func (m *MockRegistry) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// ListActiveCandidates returns the active candidates matching the filter,
// or the injected error.
func (m *MockRegistry) ListActiveCandidates(ctx context.Context, filter catalog.CapabilityFilter) ([]catalog.ModelCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []catalog.ModelCandidate
	for _, c := range m.candidates {
		if c.Active && c.HasCapabilities(filter) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Lookup returns the candidate with the given model ID, if present.
func (m *MockRegistry) Lookup(ctx context.Context, modelID string) (catalog.ModelCandidate, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return catalog.ModelCandidate{}, false, m.listErr
	}
	for _, c := range m.candidates {
		if c.ID == modelID {
			return c, true, nil
		}
	}
	return catalog.ModelCandidate{}, false, nil
}

// MockRuleStore is a mock implementation of rules.Store serving a fixed
// rule set, with optional error injection.
type MockRuleStore struct {
	mu      sync.Mutex
	rules   []rules.Rule
	listErr error
}

// NewMockRuleStore creates a mock rule store serving the given rules.
func NewMockRuleStore(rs ...rules.Rule) *MockRuleStore {
	return &MockRuleStore{rules: rs}
}

// FailWith makes subsequent ListActiveRules calls return err.
func (m *MockRuleStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// ListActiveRules returns the active rules visible to the tenant, sorted
// by precedence.
func (m *MockRuleStore) ListActiveRules(ctx context.Context, tenantID string) ([]rules.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []rules.Rule
	for _, r := range m.rules {
		if !r.Active {
			continue
		}
		if r.Global() || r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	rules.Sort(out)
	return out, nil
}

// MockHistory is a mock implementation of perf.HistorySource with
// per-model aggregates, call counting, and error injection.
type MockHistory struct {
	mu         sync.Mutex
	aggregates map[string]perf.Aggregate
	err        error
	delay      time.Duration
	calls      int
}

// NewMockHistory creates an empty mock history source. Lookups for models
// without a configured aggregate return perf.ErrNoData.
func NewMockHistory() *MockHistory {
	return &MockHistory{aggregates: make(map[string]perf.Aggregate)}
}

// SetAggregate configures the aggregate returned for the given model.
func (m *MockHistory) SetAggregate(agg perf.Aggregate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregates[agg.ModelID] = agg
}

// FailWith makes subsequent GetAggregate calls return err.
func (m *MockHistory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes GetAggregate sleep before responding, for exercising
// lookup timeouts and cache refresh coalescing.
func (m *MockHistory) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns the number of GetAggregate calls observed.
func (m *MockHistory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// GetAggregate returns the configured aggregate for the model.
func (m *MockHistory) GetAggregate(ctx context.Context, modelID string, windowDays int) (perf.Aggregate, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	delay := m.delay
	agg, ok := m.aggregates[modelID]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return perf.Aggregate{}, ctx.Err()
		}
	}
	if err != nil {
		return perf.Aggregate{}, err
	}
	if !ok {
		return perf.Aggregate{}, perf.ErrNoData
	}
	return agg, nil
}

// MockThermal is a mock implementation of perf.ThermalGateway that records
// warm-up calls.
type MockThermal struct {
	mu          sync.Mutex
	states      map[string]perf.ThermalState
	stateErr    error
	warmupErr   error
	warmupCalls []string
}

// NewMockThermal creates a mock thermal gateway. Models without a
// configured state report perf.ThermalAutomatic.
func NewMockThermal() *MockThermal {
	return &MockThermal{states: make(map[string]perf.ThermalState)}
}

// SetState configures the thermal state reported for the given model.
func (m *MockThermal) SetState(modelID string, state perf.ThermalState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[modelID] = state
}

// FailWith makes subsequent GetThermalState calls return err.
func (m *MockThermal) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateErr = err
}

// WarmUpCalls returns the model IDs for which WarmUp was called, in order.
func (m *MockThermal) WarmUpCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.warmupCalls))
	copy(out, m.warmupCalls)
	return out
}

// GetThermalState returns the configured thermal state for the model.
func (m *MockThermal) GetThermalState(ctx context.Context, modelID string) (perf.ThermalState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stateErr != nil {
		return perf.ThermalUnknown, m.stateErr
	}
	if state, ok := m.states[modelID]; ok {
		return state, nil
	}
	return perf.ThermalAutomatic, nil
}

// WarmUp records the warm-up request.
func (m *MockThermal) WarmUp(ctx context.Context, modelID string, duration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warmupCalls = append(m.warmupCalls, modelID)
	return m.warmupErr
}

// MockSink is a mock implementation of router.DecisionSink that records
// every decision it receives.
type MockSink struct {
	mu        sync.Mutex
	decisions []router.Decision
	err       error
}

// NewMockSink creates an empty recording sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// FailWith makes subsequent Record calls return err. Decisions are still
// recorded so tests can assert delivery attempts.
func (m *MockSink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Decisions returns a copy of the recorded decisions.
func (m *MockSink) Decisions() []router.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]router.Decision, len(m.decisions))
	copy(out, m.decisions)
	return out
}

// WaitFor blocks until at least n decisions have been recorded or the
// timeout elapses. It returns true if the count was reached.
func (m *MockSink) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		count := len(m.decisions)
		m.mu.Unlock()
		if count >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// Record stores the decision.
func (m *MockSink) Record(ctx context.Context, decision *router.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions = append(m.decisions, *decision)
	return m.err
}
