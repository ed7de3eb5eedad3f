package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/rules"
	"github.com/radiant/router/pkg/scoring"
	"github.com/radiant/router/pkg/telemetry/metrics"
)

// phase is a state of the routing state machine.
type phase int

const (
	phaseRuleEvaluation phase = iota
	phaseCandidateScoring
	phaseDecided
)

// DefaultWarmupDuration is how long a warm-up hint asks a cold
// self-hosted model to stay warm.
const DefaultWarmupDuration = 15 * time.Minute

// Options configures a Router. Registry is required; every other
// collaborator is optional and its absence degrades the corresponding
// enrichment.
type Options struct {
	// Registry is the unified model registry. Required.
	Registry catalog.Registry

	// Rules is the override rule store. Nil disables rule evaluation.
	Rules rules.Store

	// History is the performance history store. Nil means every
	// candidate scores with cold-start defaults.
	History perf.HistorySource

	// Thermal is the thermal state gateway for self-hosted models.
	// Nil treats self-hosted candidates as COLD.
	Thermal perf.ThermalGateway

	// Sink receives decisions for audit. Nil disables emission.
	Sink DecisionSink

	// Tracker tunes the performance tracker. Nil uses defaults.
	Tracker *perf.TrackerConfig

	// Emitter tunes decision emission. Nil uses defaults.
	Emitter *EmitterConfig

	// WarmupDuration is the duration passed on warm-up hints.
	// Default: DefaultWarmupDuration.
	WarmupDuration time.Duration

	// Logger is the base logger. Nil uses slog.Default().
	Logger *slog.Logger

	// Metrics is the optional metrics collector.
	Metrics *metrics.Collector
}

// Router routes inference requests to the best model candidate.
// Safe for concurrent use; each call is independent and the only shared
// mutable state is the performance tracker's cache.
type Router struct {
	matcher    *rules.Matcher
	enumerator *catalog.Enumerator
	registry   catalog.Registry
	tracker    PerformanceProvider
	selector   Selector
	emitter    *Emitter
	thermal    perf.ThermalGateway

	warmupDuration time.Duration

	stats   Stats
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New creates a router from the options and the scoring engine's
// affinity table.
func New(opts Options, affinity *scoring.AffinityTable) (*Router, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.WarmupDuration <= 0 {
		opts.WarmupDuration = DefaultWarmupDuration
	}

	history := opts.History
	if history == nil {
		history = emptyHistory{}
	}

	r := &Router{
		enumerator:     catalog.NewEnumerator(opts.Registry, logger),
		registry:       opts.Registry,
		tracker:        perf.NewTracker(history, opts.Thermal, opts.Tracker, logger, opts.Metrics),
		selector:       scoring.NewEngine(affinity, logger),
		thermal:        opts.Thermal,
		warmupDuration: opts.WarmupDuration,
		logger:         logger.With("component", "router"),
		metrics:        opts.Metrics,
	}

	if opts.Rules != nil {
		r.matcher = rules.NewMatcher(opts.Rules, logger)
	}
	if opts.Sink != nil {
		r.emitter = NewEmitter(opts.Sink, opts.Emitter, logger, opts.Metrics)
	}

	return r, nil
}

// Route produces exactly one Decision for the request, or one of the
// two fatal errors (ErrRegistryUnavailable, ErrNoEligibleCandidates).
// The request's overall deadline travels on ctx; enrichment lookups
// are bounded by it and degrade to defaults rather than hang.
func (r *Router) Route(ctx context.Context, req *Request) (*Decision, error) {
	start := time.Now()
	r.stats.total.Add(1)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var decision *Decision
	var err error

	for state := phaseRuleEvaluation; state != phaseDecided; {
		switch state {
		case phaseRuleEvaluation:
			decision = r.evaluateRules(ctx, req)
			if decision != nil {
				state = phaseDecided
			} else {
				state = phaseCandidateScoring
			}

		case phaseCandidateScoring:
			decision, err = r.scoreCandidates(ctx, req)
			if err != nil {
				r.recordFatal(err, start)
				return nil, err
			}
			state = phaseDecided
		}
	}

	if r.metrics != nil {
		outcome := metrics.OutcomeScored
		if decision.Strategy == StrategyRule {
			outcome = metrics.OutcomeRuleMatch
		}
		r.metrics.RecordDecision(outcome, time.Since(start))
	}

	if r.emitter != nil {
		r.emitter.Emit(decision)
	}

	r.logger.Info("routing decision",
		"model", decision.ModelID,
		"provider", decision.ProviderID,
		"strategy", decision.Strategy,
		"reason", decision.Reason,
		"confidence", decision.Confidence,
		"estimated_cost_usd", decision.EstimatedCostUSD,
		"estimated_latency_ms", decision.EstimatedLatency.Milliseconds(),
		"tenant", req.TenantID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return decision, nil
}

// Stats returns a snapshot of the routing counters.
func (r *Router) Stats() StatsSnapshot {
	return r.stats.Snapshot()
}

// Close flushes and stops the decision emitter.
func (r *Router) Close() {
	if r.emitter != nil {
		r.emitter.Close()
	}
}

// evaluateRules runs the rule-evaluation phase. A nil return hands
// control to candidate scoring. Rule store failures are non-fatal:
// overrides are an enrichment, so a broken store degrades to scoring.
func (r *Router) evaluateRules(ctx context.Context, req *Request) *Decision {
	if r.matcher == nil {
		return nil
	}

	rule, err := r.matcher.FirstMatch(ctx, req.TenantID, string(req.TaskType), req.InputTokens)
	if err != nil {
		r.logger.Warn("rule evaluation unavailable, falling through to scoring",
			"tenant", req.TenantID,
			"error", err,
		)
		return nil
	}
	if rule == nil {
		return nil
	}

	r.stats.ruleMatches.Add(1)
	if r.metrics != nil {
		r.metrics.RecordRuleMatch(rule.ID)
	}

	decision := &Decision{
		ID:         uuid.NewString(),
		ModelID:    rule.TargetModel,
		ProviderID: rule.TargetProvider,
		Strategy:   StrategyRule,
		RuleID:     rule.ID,
		Reason:     fmt.Sprintf("matched rule: %s", rule.Name),
		Confidence: 1.0,
		Fallbacks:  append([]string(nil), rule.Fallbacks...),
		TenantID:   req.TenantID,
		UserID:     req.UserID,
		TaskType:   req.TaskType,
		CreatedAt:  time.Now().UTC(),
	}

	// Best-effort enrichment: resolve the target from the registry to
	// fill provider and estimates. The rule path must not fail when the
	// registry is down, so lookup errors are ignored.
	if target, ok, err := r.registry.Lookup(ctx, rule.TargetModel); err == nil && ok {
		if decision.ProviderID == "" {
			decision.ProviderID = target.Provider
		}
		decision.EstimatedCostUSD = scoring.EstimateCost(target, req.InputTokens)
		decision.EstimatedLatency = r.tracker.Snapshot(ctx, target).EffectiveLatency
	} else if err == nil {
		r.logger.Warn("rule target model not in registry, decision ships without estimates",
			"rule", rule.ID,
			"model", rule.TargetModel,
		)
	}

	return decision
}

// scoreCandidates runs the candidate-scoring phase.
func (r *Router) scoreCandidates(ctx context.Context, req *Request) (*Decision, error) {
	filter := req.capabilityFilter()

	candidates, err := r.enumerator.Enumerate(ctx, filter)
	if err != nil {
		return nil, &RegistryUnavailableError{Err: err}
	}

	candidates = r.applyPreferredProvider(req, candidates)

	if len(candidates) == 0 {
		return nil, &NoEligibleCandidatesError{
			TaskType: req.TaskType,
			Required: filter,
		}
	}

	snapshots := make([]perf.Snapshot, len(candidates))
	for i, c := range candidates {
		snapshots[i] = r.tracker.Snapshot(ctx, c)
	}

	in := scoring.Input{
		TaskType:    string(req.TaskType),
		InputTokens: req.InputTokens,
		MaxCostUSD:  req.Constraints.MaxCostUSD,
		MaxLatency:  req.Constraints.MaxLatency,
	}

	selection, err := r.selector.Select(in, candidates, snapshots)
	if err != nil {
		return nil, fmt.Errorf("candidate scoring failed: %w", err)
	}

	r.stats.scored.Add(1)
	if r.metrics != nil {
		r.metrics.RecordCandidates(len(candidates))
	}

	r.maybeWarmUp(selection.Candidate, selection.Snapshot)

	return &Decision{
		ID:               uuid.NewString(),
		ModelID:          selection.Candidate.ID,
		ProviderID:       selection.Candidate.Provider,
		Strategy:         StrategyScored,
		Reason:           selection.Reason,
		EstimatedCostUSD: selection.Score.EstimatedCostUSD,
		EstimatedLatency: selection.Score.EstimatedLatency,
		Confidence:       selection.Score.Total,
		TenantID:         req.TenantID,
		UserID:           req.UserID,
		TaskType:         req.TaskType,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// applyPreferredProvider narrows candidates to the preferred provider
// when that provider has at least one eligible candidate. Otherwise the
// preference is ignored so it can never cause a routing failure.
func (r *Router) applyPreferredProvider(req *Request, candidates []catalog.ModelCandidate) []catalog.ModelCandidate {
	preferred := req.Constraints.PreferredProvider
	if preferred == "" {
		return candidates
	}

	matched := make([]catalog.ModelCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Provider == preferred {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		r.logger.Debug("preferred provider has no eligible candidates, ignoring preference",
			"provider", preferred,
		)
		return candidates
	}
	return matched
}

// maybeWarmUp fires a warm-up hint when routing lands on a self-hosted
// candidate that is not ready. Fire-and-forget: never awaited, failures
// only logged.
func (r *Router) maybeWarmUp(candidate catalog.ModelCandidate, snap perf.Snapshot) {
	if r.thermal == nil || candidate.Hosting != catalog.HostingSelfHosted {
		return
	}
	if snap.Thermal != perf.ThermalCold && snap.Thermal != perf.ThermalOff {
		return
	}

	modelID := candidate.ID
	duration := r.warmupDuration
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.thermal.WarmUp(ctx, modelID, duration); err != nil {
			r.logger.Warn("warm-up hint failed",
				"model", modelID,
				"error", err,
			)
		}
	}()
}

// recordFatal updates stats and metrics for a fatal routing error.
func (r *Router) recordFatal(err error, start time.Time) {
	var outcome string
	switch {
	case errors.Is(err, ErrRegistryUnavailable):
		r.stats.registryUnavailable.Add(1)
		outcome = metrics.OutcomeRegistryErr
	case errors.Is(err, ErrNoEligibleCandidates):
		r.stats.noEligible.Add(1)
		outcome = metrics.OutcomeNoCandidates
	default:
		return
	}

	if r.metrics != nil {
		r.metrics.RecordDecision(outcome, time.Since(start))
	}
	r.logger.Error("routing failed", "outcome", outcome, "error", err)
}

// validateRequest rejects malformed requests before routing starts.
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if !req.TaskType.Valid() {
		return fmt.Errorf("%w: unknown task type %q", ErrInvalidRequest, req.TaskType)
	}
	if req.InputTokens < 0 {
		return fmt.Errorf("%w: negative input tokens", ErrInvalidRequest)
	}
	return nil
}

// emptyHistory is the history source used when none is configured.
// Every lookup reports no data, so candidates score with cold-start
// defaults.
type emptyHistory struct{}

func (emptyHistory) GetAggregate(ctx context.Context, modelID string, windowDays int) (perf.Aggregate, error) {
	return perf.Aggregate{}, perf.ErrNoData
}
