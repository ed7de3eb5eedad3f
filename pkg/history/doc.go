// Package history provides local implementations of the routing
// engine's two history-facing collaborators: the performance history
// store consumed by the tracker, and the decision sink fed by the
// emitter.
//
// Store is the SQLite-backed implementation: an append-only outcome log
// the windowed aggregates are computed from, plus a decisions table for
// audit. Memory is the in-memory equivalent for tests and ephemeral
// deployments. The Pruner and Scheduler delete rows past the retention
// horizon on a cron schedule.
//
// Deployments with a central performance store wire their own
// perf.HistorySource and router.DecisionSink instead; nothing in the
// engine depends on this package.
package history
