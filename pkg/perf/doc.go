// Package perf maintains windowed performance aggregates for candidate
// models and derives their effective latency for scoring.
//
// The Tracker keeps a process-local cache of PerformanceAggregate
// values keyed by model id, refreshed lazily from a history source with
// a TTL. Cache misses use a per-key single-flight discipline so that
// concurrent misses on the same model coalesce into one upstream fetch.
//
// Performance data is an enrichment, not a dependency: when the history
// source fails, times out, or has no data for a model, the Tracker
// serves cold-start defaults and routing proceeds. The same applies to
// thermal state for self-hosted models, where an unavailable gateway is
// treated as COLD (the conservative penalty).
package perf
