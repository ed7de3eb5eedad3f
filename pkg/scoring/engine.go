package scoring

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
)

// Engine scores candidates and selects the winner for a request.
type Engine struct {
	affinity *AffinityTable
	logger   *slog.Logger
}

// NewEngine creates a scoring engine with the given affinity table.
// A nil table behaves as an empty one (every pair scores the default).
func NewEngine(affinity *AffinityTable, logger *slog.Logger) *Engine {
	if affinity == nil {
		affinity = NewAffinityTable(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		affinity: affinity,
		logger:   logger.With("component", "scoring.engine"),
	}
}

// EstimateCost returns the USD cost estimate for running the request
// on the candidate, using the fixed output-token heuristic.
func EstimateCost(c catalog.ModelCandidate, inputTokens int) float64 {
	in := float64(inputTokens)
	out := in * OutputTokenRatio
	return in/1_000_000*c.InputPricePerMillion + out/1_000_000*c.OutputPricePerMillion
}

// Score computes a candidate's sub-scores and total for a request.
// All sub-scores and the total lie in [0,1].
func (e *Engine) Score(in Input, c catalog.ModelCandidate, snap perf.Snapshot) ModelScore {
	s := ModelScore{
		EstimatedCostUSD: EstimateCost(c, in.InputTokens),
		EstimatedLatency: snap.EffectiveLatency,
	}

	if in.MaxCostUSD != nil && *in.MaxCostUSD > 0 {
		s.Cost = clamp01(1 - s.EstimatedCostUSD / *in.MaxCostUSD)
	} else {
		s.Cost = NeutralScore
	}

	if in.MaxLatency != nil && *in.MaxLatency > 0 {
		s.Latency = clamp01(1 - float64(s.EstimatedLatency)/float64(*in.MaxLatency))
	} else {
		s.Latency = NeutralScore
	}

	s.Quality = clamp01(e.affinity.Lookup(in.TaskType, c.ID))
	s.Reliability = clamp01(snap.SuccessRate)

	s.Total = clamp01(WeightCost*s.Cost +
		WeightLatency*s.Latency +
		WeightQuality*s.Quality +
		WeightReliability*s.Reliability)

	return s
}

// Select scores every candidate and returns the winner. Candidates and
// snapshots are parallel slices in enumeration order; ties on the total
// are broken by that order, first-enumerated winning.
func (e *Engine) Select(in Input, candidates []catalog.ModelCandidate, snapshots []perf.Snapshot) (Selection, error) {
	if len(candidates) == 0 {
		return Selection{}, fmt.Errorf("no candidates to score")
	}
	if len(candidates) != len(snapshots) {
		return Selection{}, fmt.Errorf("candidate/snapshot length mismatch: %d != %d", len(candidates), len(snapshots))
	}

	best := Selection{Index: -1}
	for i, c := range candidates {
		score := e.Score(in, c, snapshots[i])

		e.logger.Debug("scored candidate",
			"model", c.ID,
			"provider", c.Provider,
			"cost", score.Cost,
			"latency", score.Latency,
			"quality", score.Quality,
			"reliability", score.Reliability,
			"total", score.Total,
		)

		// Strict comparison keeps the first-enumerated winner on ties.
		if best.Index == -1 || score.Total > best.Score.Total {
			best = Selection{
				Index:     i,
				Candidate: c,
				Snapshot:  snapshots[i],
				Score:     score,
			}
		}
	}

	best.Reason = Reason(best.Score)
	return best, nil
}

// Reason derives the human-readable justification from a score's strong
// sub-scores. If no sub-score qualifies the reason is "balanced choice".
func Reason(s ModelScore) string {
	var tags []string
	if s.Cost > StrongThreshold {
		tags = append(tags, "cost-effective")
	}
	if s.Latency > StrongThreshold {
		tags = append(tags, "fast")
	}
	if s.Quality > StrongThreshold {
		tags = append(tags, "high-quality")
	}
	if s.Reliability > StrongReliability {
		tags = append(tags, "reliable")
	}
	if len(tags) == 0 {
		return "balanced choice"
	}
	return strings.Join(tags, ", ")
}
