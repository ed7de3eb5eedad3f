package router_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/radiant/router/internal/routertest"
	"github.com/radiant/router/pkg/catalog"
	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/router"
	"github.com/radiant/router/pkg/rules"
	"github.com/radiant/router/pkg/scoring"
)

func testCatalog() []catalog.ModelCandidate {
	return []catalog.ModelCandidate{
		{
			ID:                    "gpt-4o",
			Provider:              "openai",
			Hosting:               catalog.HostingExternal,
			Capabilities:          []catalog.Capability{catalog.CapabilityVision, catalog.CapabilityTools},
			InputPricePerMillion:  2.5,
			OutputPricePerMillion: 10.0,
			Active:                true,
		},
		{
			ID:                    "claude-sonnet",
			Provider:              "anthropic",
			Hosting:               catalog.HostingExternal,
			Capabilities:          []catalog.Capability{catalog.CapabilityVision, catalog.CapabilityTools},
			InputPricePerMillion:  3.0,
			OutputPricePerMillion: 15.0,
			Active:                true,
		},
		{
			ID:                    "llama-3-70b",
			Provider:              "radiant",
			Hosting:               catalog.HostingSelfHosted,
			Capabilities:          []catalog.Capability{catalog.CapabilityTools},
			InputPricePerMillion:  0.6,
			OutputPricePerMillion: 0.8,
			Active:                true,
		},
	}
}

func newTestRouter(t *testing.T, opts router.Options) *router.Router {
	t.Helper()
	if opts.Registry == nil {
		opts.Registry = routertest.NewMockRegistry(testCatalog()...)
	}
	r, err := router.New(opts, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func chatRequest() *router.Request {
	return &router.Request{
		TaskType:    router.TaskChat,
		InputTokens: 1000,
		TenantID:    "tenant-a",
		UserID:      "user-1",
	}
}

func TestRouteRuleMatchShortCircuits(t *testing.T) {
	registry := routertest.NewMockRegistry(testCatalog()...)
	store := routertest.NewMockRuleStore(rules.Rule{
		ID:          "pin-chat",
		Name:        "tenant A chat pinning",
		TenantID:    "tenant-a",
		Priority:    1,
		Conditions:  rules.Conditions{TaskType: "chat"},
		TargetModel: "claude-sonnet",
		Fallbacks:   []string{"gpt-4o"},
		Active:      true,
	})

	r := newTestRouter(t, router.Options{Registry: registry, Rules: store})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	if decision.Strategy != router.StrategyRule {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, router.StrategyRule)
	}
	if decision.ModelID != "claude-sonnet" {
		t.Errorf("ModelID = %q, want claude-sonnet", decision.ModelID)
	}
	if decision.RuleID != "pin-chat" {
		t.Errorf("RuleID = %q, want pin-chat", decision.RuleID)
	}
	if decision.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want exactly 1.0", decision.Confidence)
	}
	if decision.Reason != "matched rule: tenant A chat pinning" {
		t.Errorf("Reason = %q, want matched rule reason", decision.Reason)
	}
	if len(decision.Fallbacks) != 1 || decision.Fallbacks[0] != "gpt-4o" {
		t.Errorf("Fallbacks = %v, want [gpt-4o]", decision.Fallbacks)
	}

	// Candidate scoring never ran.
	if got := registry.ListCalls(); got != 0 {
		t.Errorf("registry enumeration calls = %d, want 0 (rule short-circuit)", got)
	}

	stats := r.Stats()
	if stats.RuleMatches != 1 || stats.Scored != 0 {
		t.Errorf("stats = %+v, want 1 rule match and 0 scored", stats)
	}
}

func TestRouteRuleEnrichment(t *testing.T) {
	// The rule names no provider; the registry fills it in along with
	// cost and latency estimates.
	store := routertest.NewMockRuleStore(rules.Rule{
		ID:          "pin",
		Name:        "pin",
		Priority:    1,
		TargetModel: "gpt-4o",
		Active:      true,
	})

	r := newTestRouter(t, router.Options{Rules: store})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.ProviderID != "openai" {
		t.Errorf("ProviderID = %q, want openai from registry lookup", decision.ProviderID)
	}
	if decision.EstimatedCostUSD <= 0 {
		t.Errorf("EstimatedCostUSD = %v, want positive estimate", decision.EstimatedCostUSD)
	}
	if decision.EstimatedLatency <= 0 {
		t.Errorf("EstimatedLatency = %v, want positive estimate", decision.EstimatedLatency)
	}
}

func TestRouteRuleUnknownTargetLogsWarning(t *testing.T) {
	// A rule pinning a model the registry does not know still produces
	// a decision, but the missing enrichment must be visible in the log.
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	store := routertest.NewMockRuleStore(rules.Rule{
		ID:          "pin-ghost",
		Name:        "pin ghost",
		Priority:    1,
		TargetModel: "ghost-model",
		Active:      true,
	})

	r := newTestRouter(t, router.Options{Rules: store, Logger: logger})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.ModelID != "ghost-model" {
		t.Errorf("ModelID = %q, want ghost-model (rule target honored)", decision.ModelID)
	}
	if decision.ProviderID != "" || decision.EstimatedCostUSD != 0 {
		t.Errorf("decision enriched unexpectedly: provider=%q cost=%v",
			decision.ProviderID, decision.EstimatedCostUSD)
	}
	if out := logBuf.String(); !strings.Contains(out, "rule target model not in registry") ||
		!strings.Contains(out, "ghost-model") {
		t.Errorf("log output %q missing unknown-target warning", out)
	}
}

func TestRouteRuleStoreFailureDegradesToScoring(t *testing.T) {
	store := routertest.NewMockRuleStore()
	store.FailWith(errors.New("rule store down"))

	r := newTestRouter(t, router.Options{Rules: store})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v, want graceful degradation to scoring", err)
	}
	if decision.Strategy != router.StrategyScored {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, router.StrategyScored)
	}
}

func TestRouteScoredDecision(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	if decision.Strategy != router.StrategyScored {
		t.Errorf("Strategy = %q, want %q", decision.Strategy, router.StrategyScored)
	}
	if decision.ModelID == "" || decision.ProviderID == "" {
		t.Errorf("decision missing model/provider: %+v", decision)
	}
	if decision.Confidence <= 0 || decision.Confidence > 1 {
		t.Errorf("Confidence = %v, want in (0,1]", decision.Confidence)
	}
	if decision.Reason == "" {
		t.Error("Reason is empty")
	}
	if decision.ID == "" {
		t.Error("decision ID is empty")
	}
	if decision.TenantID != "tenant-a" || decision.UserID != "user-1" {
		t.Errorf("audit fields = %q/%q, want tenant-a/user-1", decision.TenantID, decision.UserID)
	}
}

func TestRouteDeterministicForIdenticalInput(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	first, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	second, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	// Identical apart from the decision id and timestamp.
	if first.ModelID != second.ModelID ||
		first.ProviderID != second.ProviderID ||
		first.Strategy != second.Strategy ||
		first.Reason != second.Reason ||
		first.Confidence != second.Confidence ||
		first.EstimatedCostUSD != second.EstimatedCostUSD {
		t.Errorf("decisions differ for identical input:\n first: %+v\nsecond: %+v", first, second)
	}
}

func TestRouteRegistryUnavailable(t *testing.T) {
	registry := routertest.NewMockRegistry(testCatalog()...)
	registry.FailWith(errors.New("connection refused"))

	r := newTestRouter(t, router.Options{Registry: registry})

	_, err := r.Route(context.Background(), chatRequest())
	if err == nil {
		t.Fatal("Route() expected error, got nil")
	}
	if !errors.Is(err, router.ErrRegistryUnavailable) {
		t.Errorf("errors.Is(err, ErrRegistryUnavailable) = false for %v", err)
	}
	if errors.Is(err, router.ErrNoEligibleCandidates) {
		t.Error("error also matches ErrNoEligibleCandidates, taxonomy is ambiguous")
	}

	if stats := r.Stats(); stats.RegistryUnavailable != 1 {
		t.Errorf("RegistryUnavailable = %d, want 1", stats.RegistryUnavailable)
	}
}

func TestRouteNoEligibleCandidates(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	req := chatRequest()
	req.TaskType = router.TaskAudio
	req.RequireAudio = true

	_, err := r.Route(context.Background(), req)
	if err == nil {
		t.Fatal("Route() expected error, got nil")
	}
	if !errors.Is(err, router.ErrNoEligibleCandidates) {
		t.Errorf("errors.Is(err, ErrNoEligibleCandidates) = false for %v", err)
	}
	if !strings.Contains(err.Error(), "audio") {
		t.Errorf("error %q does not name the missing capability", err)
	}

	if stats := r.Stats(); stats.NoEligibleCandidates != 1 {
		t.Errorf("NoEligibleCandidates = %d, want 1", stats.NoEligibleCandidates)
	}
}

func TestRouteInvalidRequest(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	tests := []struct {
		name string
		req  *router.Request
	}{
		{name: "nil request", req: nil},
		{name: "unknown task type", req: &router.Request{TaskType: "poetry", InputTokens: 10}},
		{name: "negative tokens", req: &router.Request{TaskType: router.TaskChat, InputTokens: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Route(context.Background(), tt.req)
			if !errors.Is(err, router.ErrInvalidRequest) {
				t.Errorf("Route() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestRouteCapabilityFiltering(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	req := chatRequest()
	req.TaskType = router.TaskVision
	req.RequireVision = true

	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	// llama-3-70b has no vision capability, so only the two external
	// models are eligible.
	if decision.ModelID == "llama-3-70b" {
		t.Error("Route() chose a candidate without the required capability")
	}
}

func TestRoutePreferredProvider(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	req := chatRequest()
	req.Constraints.PreferredProvider = "anthropic"

	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.ProviderID != "anthropic" {
		t.Errorf("ProviderID = %q, want preferred anthropic", decision.ProviderID)
	}
}

func TestRoutePreferredProviderBestEffort(t *testing.T) {
	r := newTestRouter(t, router.Options{})

	req := chatRequest()
	req.Constraints.PreferredProvider = "nonexistent"

	// An unknown preferred provider must not fail the request.
	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v, want preference ignored", err)
	}
	if decision.ModelID == "" {
		t.Error("Route() returned empty decision")
	}
}

func TestRouteWarmUpHint(t *testing.T) {
	thermal := routertest.NewMockThermal()
	thermal.SetState("llama-3-70b", perf.ThermalCold)

	// History that strongly favors the self-hosted model so it wins.
	hist := routertest.NewMockHistory()
	hist.SetAggregate(perf.Aggregate{ModelID: "llama-3-70b", AvgLatency: 100 * time.Millisecond, SuccessRate: 1.0, SampleCount: 50})
	hist.SetAggregate(perf.Aggregate{ModelID: "gpt-4o", AvgLatency: 5 * time.Second, SuccessRate: 0.5, SampleCount: 50})
	hist.SetAggregate(perf.Aggregate{ModelID: "claude-sonnet", AvgLatency: 5 * time.Second, SuccessRate: 0.5, SampleCount: 50})

	r := newTestRouter(t, router.Options{History: hist, Thermal: thermal})

	maxCost := 0.1
	req := chatRequest()
	req.Constraints.MaxCostUSD = &maxCost

	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.ModelID != "llama-3-70b" {
		t.Fatalf("Route() chose %q, want llama-3-70b", decision.ModelID)
	}

	// The warm-up hint fires asynchronously.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if calls := thermal.WarmUpCalls(); len(calls) == 1 && calls[0] == "llama-3-70b" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("WarmUp not called for cold self-hosted winner, calls = %v", thermal.WarmUpCalls())
}

func TestRouteNoWarmUpWhenHot(t *testing.T) {
	thermal := routertest.NewMockThermal()
	thermal.SetState("llama-3-70b", perf.ThermalHot)

	r := newTestRouter(t, router.Options{Thermal: thermal})

	if _, err := r.Route(context.Background(), chatRequest()); err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if calls := thermal.WarmUpCalls(); len(calls) != 0 {
		t.Errorf("WarmUp called for hot model, calls = %v", calls)
	}
}

func TestRouteEmitsDecisions(t *testing.T) {
	sink := routertest.NewMockSink()
	r := newTestRouter(t, router.Options{Sink: sink})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	if !sink.WaitFor(1, time.Second) {
		t.Fatal("decision not recorded by sink")
	}
	recorded := sink.Decisions()
	if recorded[0].ID != decision.ID {
		t.Errorf("recorded decision id = %q, want %q", recorded[0].ID, decision.ID)
	}
}

func TestRouteSinkFailureDoesNotAffectRouting(t *testing.T) {
	sink := routertest.NewMockSink()
	sink.FailWith(errors.New("sink down"))

	r := newTestRouter(t, router.Options{Sink: sink})

	decision, err := r.Route(context.Background(), chatRequest())
	if err != nil {
		t.Fatalf("Route() error = %v, want sink failure swallowed", err)
	}
	if decision == nil || decision.ModelID == "" {
		t.Error("Route() returned empty decision")
	}
}

func TestRouteColdStartDefaultsFlowIntoEstimates(t *testing.T) {
	// No history configured: every candidate scores with cold-start
	// defaults, so the winner's latency estimate is the default.
	r := newTestRouter(t, router.Options{})

	maxLatency := 4 * time.Second
	req := chatRequest()
	req.Constraints.MaxLatency = &maxLatency

	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.EstimatedLatency != perf.DefaultAvgLatency {
		t.Errorf("EstimatedLatency = %v, want cold-start default %v", decision.EstimatedLatency, perf.DefaultAvgLatency)
	}
}

func TestRouteScoredUsesAffinity(t *testing.T) {
	affinity := scoring.NewAffinityTable(map[string]map[string]float64{
		"code": {"claude-sonnet": 0.99, "gpt-4o": 0.4, "llama-3-70b": 0.4},
	})

	r, err := router.New(router.Options{
		Registry: routertest.NewMockRegistry(testCatalog()...),
	}, affinity)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer r.Close()

	req := chatRequest()
	req.TaskType = router.TaskCode

	decision, err := r.Route(context.Background(), req)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if decision.ModelID != "claude-sonnet" {
		t.Errorf("Route() chose %q, want claude-sonnet (highest affinity)", decision.ModelID)
	}
}

func TestNewRequiresRegistry(t *testing.T) {
	if _, err := router.New(router.Options{}, nil); err == nil {
		t.Error("New() without registry expected error, got nil")
	}
}

func TestStatsCounters(t *testing.T) {
	store := routertest.NewMockRuleStore(rules.Rule{
		ID:          "pin",
		Name:        "pin",
		Priority:    1,
		Conditions:  rules.Conditions{TaskType: "code"},
		TargetModel: "claude-sonnet",
		Active:      true,
	})
	r := newTestRouter(t, router.Options{Rules: store})

	codeReq := chatRequest()
	codeReq.TaskType = router.TaskCode

	if _, err := r.Route(context.Background(), codeReq); err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if _, err := r.Route(context.Background(), chatRequest()); err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	stats := r.Stats()
	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if stats.RuleMatches != 1 {
		t.Errorf("RuleMatches = %d, want 1", stats.RuleMatches)
	}
	if stats.Scored != 1 {
		t.Errorf("Scored = %d, want 1", stats.Scored)
	}
}
