package perf

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/telemetry/metrics"
)

// cacheName is the label under which tracker cache metrics are reported.
const cacheName = "performance"

// TrackerConfig contains configuration for the performance tracker.
type TrackerConfig struct {
	// CacheTTL is how long a cached aggregate stays valid. Expired
	// entries are refetched on next access.
	// Default: 5 minutes
	CacheTTL time.Duration

	// WindowDays is the trailing window for aggregates.
	// Default: 7
	WindowDays int

	// LookupTimeout bounds a single history or thermal lookup. Lookups
	// are enrichment; on timeout the tracker serves defaults.
	// Default: 2 seconds
	LookupTimeout time.Duration
}

// DefaultTrackerConfig returns the default tracker configuration.
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		CacheTTL:      5 * time.Minute,
		WindowDays:    DefaultWindowDays,
		LookupTimeout: 2 * time.Second,
	}
}

// cacheEntry is a cached aggregate with its fetch time.
type cacheEntry struct {
	agg       Aggregate
	cold      bool
	fetchedAt time.Time
}

// Tracker caches windowed performance aggregates per model id and
// resolves thermal-adjusted snapshots for candidates.
//
// Reads of a populated entry take only a read lock. A miss (or expired
// entry) triggers a single-flight refresh: concurrent misses on the
// same model id coalesce into one upstream fetch and all waiters
// receive the same result.
type Tracker struct {
	history HistorySource
	thermal ThermalGateway
	config  *TrackerConfig

	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group

	logger  *slog.Logger
	metrics *metrics.Collector
}

// NewTracker creates a performance tracker over the history source.
// The thermal gateway may be nil, in which case self-hosted candidates
// are treated as COLD (the conservative penalty). The metrics collector
// may be nil.
func NewTracker(history HistorySource, thermal ThermalGateway, config *TrackerConfig, logger *slog.Logger, collector *metrics.Collector) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		history: history,
		thermal: thermal,
		config:  config,
		entries: make(map[string]*cacheEntry),
		logger:  logger.With("component", "perf.tracker"),
		metrics: collector,
	}
}

// Snapshot returns the scoring view for a candidate: its cached (or
// defaulted) aggregate plus the thermal-adjusted effective latency.
// Snapshot never fails; every degraded path has a documented default.
func (t *Tracker) Snapshot(ctx context.Context, candidate catalog.ModelCandidate) Snapshot {
	agg, cold := t.aggregate(ctx, candidate.ID)

	snap := Snapshot{
		Aggregate:        agg,
		EffectiveLatency: agg.AvgLatency,
		Thermal:          ThermalUnknown,
		ColdStart:        cold,
	}

	if candidate.Hosting == catalog.HostingSelfHosted {
		snap.Thermal = t.thermalState(ctx, candidate.ID)
		snap.EffectiveLatency = agg.AvgLatency + snap.Thermal.Penalty()
	}

	return snap
}

// Aggregate returns the cached aggregate for a model, fetching it if
// absent or expired. The second return value reports whether the value
// is a cold-start default.
func (t *Tracker) Aggregate(ctx context.Context, modelID string) (Aggregate, bool) {
	return t.aggregate(ctx, modelID)
}

// Invalidate drops the cached entry for a model id, forcing a refetch
// on next access.
func (t *Tracker) Invalidate(modelID string) {
	t.mu.Lock()
	delete(t.entries, modelID)
	t.mu.Unlock()
}

func (t *Tracker) aggregate(ctx context.Context, modelID string) (Aggregate, bool) {
	t.mu.RLock()
	entry, ok := t.entries[modelID]
	t.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < t.config.CacheTTL {
		if t.metrics != nil {
			t.metrics.RecordCacheHit(cacheName)
		}
		return entry.agg, entry.cold
	}

	if t.metrics != nil {
		t.metrics.RecordCacheMiss(cacheName)
	}

	// Coalesce concurrent refreshes for the same model. The fetch runs
	// on a detached context bounded by LookupTimeout so a cancelled
	// waiter does not abort the refresh for everyone else.
	ch := t.sf.DoChan(modelID, func() (any, error) {
		return t.fetch(modelID), nil
	})

	select {
	case <-ctx.Done():
		// The caller's deadline expired while the refresh is still in
		// flight. Serve defaults now; the refresh continues and will
		// populate the cache for later requests.
		t.logger.Warn("performance lookup exceeded request deadline, using cold-start defaults",
			"model", modelID,
		)
		return coldStartAggregate(modelID), true
	case res := <-ch:
		entry := res.Val.(*cacheEntry)
		return entry.agg, entry.cold
	}
}

// fetch refreshes a model's aggregate from the history source and
// caches the result. Failures cache cold-start defaults so a broken
// source is not hammered on every request.
func (t *Tracker) fetch(modelID string) *cacheEntry {
	fetchCtx, cancel := context.WithTimeout(context.Background(), t.config.LookupTimeout)
	defer cancel()

	entry := &cacheEntry{fetchedAt: time.Now()}

	agg, err := t.history.GetAggregate(fetchCtx, modelID, t.config.WindowDays)
	switch {
	case err == nil:
		entry.agg = agg
		t.logger.Debug("refreshed performance aggregate",
			"model", modelID,
			"avg_latency_ms", agg.AvgLatency.Milliseconds(),
			"success_rate", agg.SuccessRate,
			"samples", agg.SampleCount,
		)
	case errors.Is(err, ErrNoData):
		entry.agg = coldStartAggregate(modelID)
		entry.cold = true
		t.logger.Debug("no performance data in window, using cold-start defaults",
			"model", modelID,
			"window_days", t.config.WindowDays,
		)
	default:
		entry.agg = coldStartAggregate(modelID)
		entry.cold = true
		t.logger.Warn("performance data unavailable, using cold-start defaults",
			"model", modelID,
			"error", err,
		)
	}

	t.mu.Lock()
	t.entries[modelID] = entry
	t.mu.Unlock()

	return entry
}

// thermalState consults the thermal gateway for a self-hosted model.
// An unavailable gateway is treated as COLD.
func (t *Tracker) thermalState(ctx context.Context, modelID string) ThermalState {
	if t.thermal == nil {
		return ThermalCold
	}

	lookupCtx, cancel := context.WithTimeout(ctx, t.config.LookupTimeout)
	defer cancel()

	state, err := t.thermal.GetThermalState(lookupCtx, modelID)
	if err != nil {
		t.logger.Warn("thermal state unavailable, treating as COLD",
			"model", modelID,
			"error", err,
		)
		return ThermalCold
	}
	return state
}
