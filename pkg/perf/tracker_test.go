package perf

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radiant/router/pkg/catalog"
)

// stubHistory is a configurable HistorySource for tracker tests.
type stubHistory struct {
	mu    sync.Mutex
	agg   Aggregate
	err   error
	delay time.Duration
	calls int
}

func (s *stubHistory) GetAggregate(ctx context.Context, modelID string, windowDays int) (Aggregate, error) {
	s.mu.Lock()
	s.calls++
	agg, err, delay := s.agg, s.err, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Aggregate{}, ctx.Err()
		}
	}
	if err != nil {
		return Aggregate{}, err
	}
	agg.ModelID = modelID
	return agg, nil
}

func (s *stubHistory) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubThermal is a configurable ThermalGateway for tracker tests.
type stubThermal struct {
	state ThermalState
	err   error
}

func (s *stubThermal) GetThermalState(ctx context.Context, modelID string) (ThermalState, error) {
	if s.err != nil {
		return ThermalUnknown, s.err
	}
	return s.state, nil
}

func (s *stubThermal) WarmUp(ctx context.Context, modelID string, duration time.Duration) error {
	return nil
}

func TestThermalPenalty(t *testing.T) {
	tests := []struct {
		state ThermalState
		want  time.Duration
	}{
		{ThermalOff, 60 * time.Second},
		{ThermalCold, 30 * time.Second},
		{ThermalWarm, 2 * time.Second},
		{ThermalHot, 0},
		{ThermalAutomatic, 0},
		{ThermalUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Penalty(); got != tt.want {
				t.Errorf("Penalty(%q) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestTrackerAggregateFromHistory(t *testing.T) {
	source := &stubHistory{
		agg: Aggregate{
			AvgLatency:  800 * time.Millisecond,
			SuccessRate: 0.97,
			SampleCount: 42,
		},
	}
	tracker := NewTracker(source, nil, nil, nil, nil)

	agg, cold := tracker.Aggregate(context.Background(), "gpt-4o")
	if cold {
		t.Error("Aggregate() cold = true, want false")
	}
	if agg.AvgLatency != 800*time.Millisecond {
		t.Errorf("AvgLatency = %v, want 800ms", agg.AvgLatency)
	}
	if agg.SuccessRate != 0.97 {
		t.Errorf("SuccessRate = %v, want 0.97", agg.SuccessRate)
	}
}

func TestTrackerColdStartDefaults(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "no data in window", err: ErrNoData},
		{name: "history store failure", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(&stubHistory{err: tt.err}, nil, nil, nil, nil)

			agg, cold := tracker.Aggregate(context.Background(), "new-model")
			if !cold {
				t.Error("Aggregate() cold = false, want true")
			}
			if agg.AvgLatency != DefaultAvgLatency {
				t.Errorf("AvgLatency = %v, want %v", agg.AvgLatency, DefaultAvgLatency)
			}
			if agg.SuccessRate != DefaultSuccessRate {
				t.Errorf("SuccessRate = %v, want %v", agg.SuccessRate, DefaultSuccessRate)
			}
			if agg.SampleCount != 0 {
				t.Errorf("SampleCount = %d, want 0", agg.SampleCount)
			}
		})
	}
}

func TestTrackerCacheHit(t *testing.T) {
	source := &stubHistory{agg: Aggregate{AvgLatency: time.Second, SuccessRate: 1.0}}
	tracker := NewTracker(source, nil, nil, nil, nil)

	tracker.Aggregate(context.Background(), "gpt-4o")
	tracker.Aggregate(context.Background(), "gpt-4o")
	tracker.Aggregate(context.Background(), "gpt-4o")

	if got := source.callCount(); got != 1 {
		t.Errorf("history calls = %d, want 1 (cached)", got)
	}
}

func TestTrackerCacheTTLExpiry(t *testing.T) {
	source := &stubHistory{agg: Aggregate{AvgLatency: time.Second, SuccessRate: 1.0}}
	tracker := NewTracker(source, nil, &TrackerConfig{
		CacheTTL:      10 * time.Millisecond,
		WindowDays:    7,
		LookupTimeout: time.Second,
	}, nil, nil)

	tracker.Aggregate(context.Background(), "gpt-4o")
	time.Sleep(20 * time.Millisecond)
	tracker.Aggregate(context.Background(), "gpt-4o")

	if got := source.callCount(); got != 2 {
		t.Errorf("history calls = %d, want 2 (expired entry refetched)", got)
	}
}

func TestTrackerFailureIsCached(t *testing.T) {
	// A broken source must not be hammered on every request: the
	// cold-start entry is cached like any other.
	source := &stubHistory{err: errors.New("store down")}
	tracker := NewTracker(source, nil, nil, nil, nil)

	for i := 0; i < 5; i++ {
		tracker.Aggregate(context.Background(), "gpt-4o")
	}

	if got := source.callCount(); got != 1 {
		t.Errorf("history calls = %d, want 1 (failure cached)", got)
	}
}

func TestTrackerInvalidate(t *testing.T) {
	source := &stubHistory{agg: Aggregate{AvgLatency: time.Second, SuccessRate: 1.0}}
	tracker := NewTracker(source, nil, nil, nil, nil)

	tracker.Aggregate(context.Background(), "gpt-4o")
	tracker.Invalidate("gpt-4o")
	tracker.Aggregate(context.Background(), "gpt-4o")

	if got := source.callCount(); got != 2 {
		t.Errorf("history calls = %d, want 2 (invalidated entry refetched)", got)
	}
}

func TestTrackerCoalescesConcurrentRefreshes(t *testing.T) {
	source := &stubHistory{
		agg:   Aggregate{AvgLatency: time.Second, SuccessRate: 1.0},
		delay: 50 * time.Millisecond,
	}
	tracker := NewTracker(source, nil, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Aggregate(context.Background(), "gpt-4o")
		}()
	}
	wg.Wait()

	if got := source.callCount(); got != 1 {
		t.Errorf("history calls = %d, want 1 (concurrent misses coalesced)", got)
	}
}

func TestTrackerDeadlineServesDefaults(t *testing.T) {
	source := &stubHistory{
		agg:   Aggregate{AvgLatency: time.Second, SuccessRate: 1.0},
		delay: 200 * time.Millisecond,
	}
	tracker := NewTracker(source, nil, &TrackerConfig{
		CacheTTL:      time.Minute,
		WindowDays:    7,
		LookupTimeout: time.Second,
	}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	agg, cold := tracker.Aggregate(ctx, "gpt-4o")
	elapsed := time.Since(start)

	if !cold {
		t.Error("Aggregate() cold = false, want true (deadline expired)")
	}
	if agg.AvgLatency != DefaultAvgLatency {
		t.Errorf("AvgLatency = %v, want cold-start default %v", agg.AvgLatency, DefaultAvgLatency)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("Aggregate() took %v, expected prompt return on deadline", elapsed)
	}

	// The detached refresh still completes and populates the cache.
	time.Sleep(300 * time.Millisecond)
	agg, cold = tracker.Aggregate(context.Background(), "gpt-4o")
	if cold {
		t.Error("Aggregate() cold = true after background refresh, want false")
	}
	if agg.AvgLatency != time.Second {
		t.Errorf("AvgLatency = %v after background refresh, want 1s", agg.AvgLatency)
	}
}

func TestSnapshotThermalAdjustment(t *testing.T) {
	selfHosted := catalog.ModelCandidate{
		ID:      "llama-3-70b",
		Hosting: catalog.HostingSelfHosted,
		Active:  true,
	}
	external := catalog.ModelCandidate{
		ID:      "gpt-4o",
		Hosting: catalog.HostingExternal,
		Active:  true,
	}

	baseAgg := Aggregate{AvgLatency: time.Second, SuccessRate: 0.95, SampleCount: 10}

	tests := []struct {
		name        string
		candidate   catalog.ModelCandidate
		thermal     ThermalGateway
		wantState   ThermalState
		wantLatency time.Duration
	}{
		{
			name:        "external model carries no thermal state",
			candidate:   external,
			thermal:     &stubThermal{state: ThermalHot},
			wantState:   ThermalUnknown,
			wantLatency: time.Second,
		},
		{
			name:        "hot self-hosted has no penalty",
			candidate:   selfHosted,
			thermal:     &stubThermal{state: ThermalHot},
			wantState:   ThermalHot,
			wantLatency: time.Second,
		},
		{
			name:        "cold self-hosted gets cold penalty",
			candidate:   selfHosted,
			thermal:     &stubThermal{state: ThermalCold},
			wantState:   ThermalCold,
			wantLatency: time.Second + PenaltyCold,
		},
		{
			name:        "off self-hosted gets off penalty",
			candidate:   selfHosted,
			thermal:     &stubThermal{state: ThermalOff},
			wantState:   ThermalOff,
			wantLatency: time.Second + PenaltyOff,
		},
		{
			name:        "gateway error treated as cold",
			candidate:   selfHosted,
			thermal:     &stubThermal{err: errors.New("gateway down")},
			wantState:   ThermalCold,
			wantLatency: time.Second + PenaltyCold,
		},
		{
			name:        "nil gateway treated as cold",
			candidate:   selfHosted,
			thermal:     nil,
			wantState:   ThermalCold,
			wantLatency: time.Second + PenaltyCold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(&stubHistory{agg: baseAgg}, tt.thermal, nil, nil, nil)

			snap := tracker.Snapshot(context.Background(), tt.candidate)
			if snap.Thermal != tt.wantState {
				t.Errorf("Thermal = %q, want %q", snap.Thermal, tt.wantState)
			}
			if snap.EffectiveLatency != tt.wantLatency {
				t.Errorf("EffectiveLatency = %v, want %v", snap.EffectiveLatency, tt.wantLatency)
			}
			if snap.ColdStart {
				t.Error("ColdStart = true, want false (history has data)")
			}
		})
	}
}
