package scoring

import (
	"time"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
)

// Sub-score weights. Fixed constants summing to exactly 1.0; the total
// score is their weighted sum.
const (
	WeightCost        = 0.25
	WeightLatency     = 0.25
	WeightQuality     = 0.35
	WeightReliability = 0.15
)

const (
	// OutputTokenRatio is the fixed heuristic for estimated output
	// size: outputTokens = inputTokens * OutputTokenRatio.
	OutputTokenRatio = 1.5

	// NeutralScore is the cost/latency sub-score when the request
	// carries no constraint to fit against.
	NeutralScore = 0.5

	// DefaultQuality is the quality affinity for any (task type, model)
	// pair absent from the affinity table.
	DefaultQuality = 0.7

	// StrongThreshold is the sub-score above which a descriptive reason
	// tag is emitted.
	StrongThreshold = 0.8

	// StrongReliability is the reliability sub-score above which the
	// "reliable" tag is emitted. Higher than StrongThreshold because
	// success rates cluster near 1.
	StrongReliability = 0.95
)

// Input is the request view scoring operates on.
type Input struct {
	// TaskType is the request's task type.
	TaskType string

	// InputTokens is the estimated input size.
	InputTokens int

	// MaxCostUSD is the optional maximum acceptable cost.
	MaxCostUSD *float64

	// MaxLatency is the optional maximum acceptable latency.
	MaxLatency *time.Duration
}

// ModelScore holds a candidate's sub-scores, total, and the estimates
// they were derived from.
type ModelScore struct {
	// Cost is the cost-fit sub-score in [0,1].
	Cost float64

	// Latency is the latency-fit sub-score in [0,1].
	Latency float64

	// Quality is the task-quality affinity sub-score in [0,1].
	Quality float64

	// Reliability is the success-rate sub-score in [0,1].
	Reliability float64

	// Total is the weighted sum of the sub-scores, in [0,1].
	Total float64

	// EstimatedCostUSD is the cost estimate the cost sub-score used.
	EstimatedCostUSD float64

	// EstimatedLatency is the effective latency the latency sub-score
	// used (thermal-adjusted for self-hosted candidates).
	EstimatedLatency time.Duration
}

// Selection is the scoring winner for a request.
type Selection struct {
	// Index is the winner's position in the enumeration order.
	Index int

	// Candidate is the winning candidate.
	Candidate catalog.ModelCandidate

	// Snapshot is the performance snapshot the winner was scored with.
	Snapshot perf.Snapshot

	// Score is the winner's score.
	Score ModelScore

	// Reason is the human-readable justification derived from the
	// winner's strong sub-scores.
	Reason string
}

// clamp01 clamps v to the closed interval [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
