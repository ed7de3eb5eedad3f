// Package router implements the adaptive multi-objective model routing
// engine: given an inference request, it picks the single best model
// candidate while respecting tenant override rules, thermal state of
// self-hosted compute, and historical performance.
//
// Routing runs as a two-phase state machine. The rule-evaluation phase
// asks the rule matcher for the first satisfied override; a match
// short-circuits with confidence 1.0 and scoring is never invoked. The
// candidate-scoring phase enumerates eligible candidates, enriches each
// with a performance snapshot, and selects the highest weighted score.
//
// Exactly one Decision is produced per request, or one of two fatal
// errors: ErrRegistryUnavailable when the registry lookup itself fails,
// and ErrNoEligibleCandidates when it succeeds but nothing matches the
// request's capability and activity filters. Every other collaborator
// failure degrades gracefully with documented defaults. Decisions are
// forwarded to the decision sink asynchronously; emission failures are
// logged, never raised.
//
// The router holds no persistent state: a decision is a pure function
// of the request and the registry/rule/performance snapshots, and
// identical inputs yield identical decisions apart from the decision id
// and timestamp.
package router
