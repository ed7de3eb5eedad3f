package perf

import (
	"context"
	"errors"
	"time"
)

// Cold-start defaults, applied when no historical data is available for
// a model or the history source cannot be reached.
const (
	// DefaultAvgLatency is the latency assumed for unknown models.
	DefaultAvgLatency = 1000 * time.Millisecond

	// DefaultSuccessRate is the success rate assumed for unknown models.
	DefaultSuccessRate = 0.9

	// DefaultWindowDays is the trailing window for aggregates.
	DefaultWindowDays = 7
)

// ErrNoData is returned by a HistorySource when it has no outcome data
// for a model within the window. The Tracker substitutes cold-start
// defaults; callers never see this error.
var ErrNoData = errors.New("no performance data for model")

// Aggregate is a windowed performance summary for a single model.
type Aggregate struct {
	// ModelID is the model the aggregate describes.
	ModelID string

	// AvgLatency is the average request latency over the window.
	AvgLatency time.Duration

	// SuccessRate is the fraction of successful requests over the
	// window, in [0,1].
	SuccessRate float64

	// SampleCount is the number of outcomes the aggregate was computed
	// from. Zero for cold-start defaults.
	SampleCount int64
}

// Snapshot is the per-candidate view handed to scoring: the cached (or
// defaulted) aggregate plus the thermal-adjusted effective latency.
type Snapshot struct {
	Aggregate

	// EffectiveLatency is AvgLatency plus any thermal penalty. This is
	// the latency estimate scoring uses.
	EffectiveLatency time.Duration

	// Thermal is the thermal state consulted for self-hosted models.
	// ThermalUnknown for externally-hosted candidates.
	Thermal ThermalState

	// ColdStart indicates the aggregate is a default, not measured data.
	ColdStart bool
}

// HistorySource provides windowed performance aggregates. The routing
// engine only reads from it; the raw outcome write path is owned
// elsewhere.
type HistorySource interface {
	// GetAggregate returns the aggregate for a model over the trailing
	// window. Returns ErrNoData when no outcomes exist in the window.
	GetAggregate(ctx context.Context, modelID string, windowDays int) (Aggregate, error)
}

// coldStartAggregate returns the defaults for a model with no history.
func coldStartAggregate(modelID string) Aggregate {
	return Aggregate{
		ModelID:     modelID,
		AvgLatency:  DefaultAvgLatency,
		SuccessRate: DefaultSuccessRate,
	}
}
