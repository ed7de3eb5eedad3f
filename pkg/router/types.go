package router

import (
	"context"
	"time"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/scoring"
)

// TaskType classifies an inference request.
type TaskType string

const (
	TaskChat     TaskType = "chat"
	TaskCode     TaskType = "code"
	TaskAnalysis TaskType = "analysis"
	TaskCreative TaskType = "creative"
	TaskVision   TaskType = "vision"
	TaskAudio    TaskType = "audio"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskChat, TaskCode, TaskAnalysis, TaskCreative, TaskVision, TaskAudio:
		return true
	}
	return false
}

// Constraints are the optional per-request routing constraints.
type Constraints struct {
	// MaxCostUSD is the maximum acceptable estimated cost.
	MaxCostUSD *float64

	// MaxLatency is the maximum acceptable estimated latency.
	MaxLatency *time.Duration

	// PreferredProvider restricts candidates to one provider when that
	// provider has at least one eligible candidate; otherwise it is
	// ignored rather than failing the request.
	PreferredProvider string
}

// Request is a routing request. It is constructed once per call and
// never mutated by the router. The overall deadline travels on the
// context passed to Route.
type Request struct {
	// TaskType is the request classification.
	TaskType TaskType

	// InputTokens is the estimated input size in tokens.
	InputTokens int

	// Constraints are the optional routing constraints.
	Constraints Constraints

	// RequireVision requires candidates advertising vision capability.
	RequireVision bool

	// RequireAudio requires candidates advertising audio capability.
	RequireAudio bool

	// TenantID identifies the tenant, scoping override rules.
	TenantID string

	// UserID identifies the end user, recorded for audit.
	UserID string
}

// capabilityFilter derives the capability requirements from the request.
func (r *Request) capabilityFilter() catalog.CapabilityFilter {
	var filter catalog.CapabilityFilter
	if r.RequireVision {
		filter = append(filter, catalog.CapabilityVision)
	}
	if r.RequireAudio {
		filter = append(filter, catalog.CapabilityAudio)
	}
	return filter
}

// Strategy identifies which routing phase produced a decision.
type Strategy string

const (
	// StrategyRule marks a decision short-circuited by an override rule.
	StrategyRule Strategy = "rule"

	// StrategyScored marks a decision selected by candidate scoring.
	StrategyScored Strategy = "scored"
)

// Decision is the routing outcome: the chosen candidate, the
// justification, and the estimates. It is created once per request and
// never mutated afterward; it is also the unit persisted for audit and
// learning.
type Decision struct {
	// ID uniquely identifies the decision record.
	ID string

	// ModelID is the chosen model.
	ModelID string

	// ProviderID is the provider serving the chosen model.
	ProviderID string

	// Strategy is the phase that produced the decision.
	Strategy Strategy

	// RuleID is the matched rule's id; empty for scored decisions.
	RuleID string

	// Reason is the human-readable justification.
	Reason string

	// EstimatedCostUSD is the estimated cost of serving the request.
	EstimatedCostUSD float64

	// EstimatedLatency is the estimated (thermal-adjusted) latency.
	EstimatedLatency time.Duration

	// Confidence is the router's certainty in [0,1]: exactly 1.0 for
	// rule matches, the total score otherwise.
	Confidence float64

	// Fallbacks is an ordered list of model ids the caller may retry
	// with if the chosen model fails at invocation time. Populated
	// from the matched rule; empty for scored decisions.
	Fallbacks []string

	// TenantID and UserID identify the requester, for audit.
	TenantID string
	UserID   string

	// TaskType is the request classification, for audit.
	TaskType TaskType

	// CreatedAt is when the decision was produced.
	CreatedAt time.Time
}

// DecisionSink receives decisions for audit and future learning.
// Writes are best-effort: failures are logged by the emitter, never
// surfaced to routing callers.
type DecisionSink interface {
	Record(ctx context.Context, decision *Decision) error
}

// PerformanceProvider supplies per-candidate performance snapshots.
// Implemented by perf.Tracker.
type PerformanceProvider interface {
	Snapshot(ctx context.Context, candidate catalog.ModelCandidate) perf.Snapshot
}

// Selector scores candidates and picks the winner. Implemented by
// scoring.Engine.
type Selector interface {
	Select(in scoring.Input, candidates []catalog.ModelCandidate, snapshots []perf.Snapshot) (scoring.Selection, error)
}
