// Package scoring computes weighted multi-factor scores for routing
// candidates and selects the winner.
//
// Each candidate receives four sub-scores in [0,1]: cost fit against
// the request's optional max-cost constraint, latency fit against the
// optional max-latency constraint, task-quality affinity from a static
// table, and reliability from the candidate's measured success rate.
// The total is a fixed-weight sum (0.25 cost, 0.25 latency, 0.35
// quality, 0.15 reliability) and doubles as the decision's confidence.
//
// Selection is deterministic: the highest total wins and ties are
// broken by enumeration order, first-enumerated winning.
//
// The task-quality affinity table is hand-curated configuration data,
// not a computed value. Pairs absent from the table score the documented
// default. Additions to the table are a data change, not a code change.
package scoring
