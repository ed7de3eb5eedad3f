package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollectorRegistersMetrics(t *testing.T) {
	collector := NewCollector(nil, nil)

	collector.RecordDecision(OutcomeScored, 5*time.Millisecond)
	collector.RecordDecision(OutcomeRuleMatch, time.Millisecond)
	collector.RecordCandidates(3)
	collector.RecordCacheHit("performance")
	collector.RecordCacheMiss("performance")
	collector.RecordRuleMatch("pin-chat")
	collector.RecordEmissionFailure()
	collector.RecordEmissionDropped()

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := map[string]bool{
		"radiant_router_decisions_total":         false,
		"radiant_router_route_duration_seconds":  false,
		"radiant_router_candidates_considered":   false,
		"radiant_router_cache_hits_total":        false,
		"radiant_router_cache_misses_total":      false,
		"radiant_router_rule_matches_total":      false,
		"radiant_router_emission_failures_total": false,
		"radiant_router_emission_dropped_total":  false,
	}
	for _, fam := range families {
		if _, ok := want[fam.GetName()]; ok {
			want[fam.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNewCollectorCustomNamespace(t *testing.T) {
	collector := NewCollector(&Config{Namespace: "acme", Subsystem: "routing"}, prometheus.NewRegistry())
	collector.RecordDecision(OutcomeScored, time.Millisecond)

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, fam := range families {
		if strings.HasPrefix(fam.GetName(), "acme_routing_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("no metrics with the acme_routing_ prefix")
	}
}

func TestDecisionOutcomeLabels(t *testing.T) {
	collector := NewCollector(nil, nil)

	for _, outcome := range []string{OutcomeScored, OutcomeRuleMatch, OutcomeRegistryErr, OutcomeNoCandidates} {
		collector.RecordDecision(outcome, time.Millisecond)
	}

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, fam := range families {
		if fam.GetName() != "radiant_router_decisions_total" {
			continue
		}
		if got := len(fam.GetMetric()); got != 4 {
			t.Errorf("decisions_total has %d label values, want 4", got)
		}
		return
	}
	t.Fatal("decisions_total not found")
}
