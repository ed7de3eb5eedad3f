package router

import "sync/atomic"

// Stats tracks routing counters with lock-free atomics.
type Stats struct {
	total               atomic.Int64
	ruleMatches         atomic.Int64
	scored              atomic.Int64
	registryUnavailable atomic.Int64
	noEligible          atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the routing counters.
type StatsSnapshot struct {
	// Total is the number of routing requests processed.
	Total int64

	// RuleMatches is the number of decisions short-circuited by rules.
	RuleMatches int64

	// Scored is the number of decisions produced by candidate scoring.
	Scored int64

	// RegistryUnavailable is the number of fatal registry failures.
	RegistryUnavailable int64

	// NoEligibleCandidates is the number of empty enumerations.
	NoEligibleCandidates int64
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Total:                s.total.Load(),
		RuleMatches:          s.ruleMatches.Load(),
		Scored:               s.scored.Load(),
		RegistryUnavailable:  s.registryUnavailable.Load(),
		NoEligibleCandidates: s.noEligible.Load(),
	}
}
