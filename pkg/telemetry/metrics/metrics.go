package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Decision outcomes reported on the decisions counter.
const (
	OutcomeRuleMatch    = "rule_match"
	OutcomeScored       = "scored"
	OutcomeRegistryErr  = "registry_unavailable"
	OutcomeNoCandidates = "no_eligible_candidates"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Namespace is the Prometheus metric namespace.
	// Default: "radiant"
	Namespace string

	// Subsystem is the Prometheus metric subsystem.
	// Default: "router"
	Subsystem string

	// RouteDurationBuckets are histogram buckets for routing duration
	// in seconds. Routing is in-process work plus bounded lookups, so
	// the buckets are sub-second heavy.
	RouteDurationBuckets []float64
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace:            "radiant",
		Subsystem:            "router",
		RouteDurationBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
	}
}

// Collector holds the Prometheus metrics for the routing engine.
type Collector struct {
	registry *prometheus.Registry

	decisionsTotal       *prometheus.CounterVec
	routeDuration        prometheus.Histogram
	candidatesConsidered prometheus.Histogram
	cacheHitsTotal       *prometheus.CounterVec
	cacheMissesTotal     *prometheus.CounterVec
	ruleMatchesTotal     *prometheus.CounterVec
	emissionFailures     prometheus.Counter
	emissionDropped      prometheus.Counter
}

// NewCollector creates and registers the router metrics with the
// provided registry. If registry is nil, a new registry is created.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "radiant"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "router"
	}
	if len(cfg.RouteDurationBuckets) == 0 {
		cfg.RouteDurationBuckets = DefaultConfig().RouteDurationBuckets
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total routing decisions by outcome",
			},
			[]string{"outcome"},
		),

		routeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "route_duration_seconds",
				Help:      "Time spent producing a routing decision",
				Buckets:   cfg.RouteDurationBuckets,
			},
		),

		candidatesConsidered: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "candidates_considered",
				Help:      "Number of eligible candidates per scored decision",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),

		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total cache hits by cache name",
			},
			[]string{"cache"},
		),

		cacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		ruleMatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_matches_total",
				Help:      "Total short-circuit rule matches by rule id",
			},
			[]string{"rule"},
		),

		emissionFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "emission_failures_total",
				Help:      "Total decision sink write failures",
			},
		),

		emissionDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "emission_dropped_total",
				Help:      "Total decisions dropped because the emission buffer was full",
			},
		),
	}

	registry.MustRegister(
		c.decisionsTotal,
		c.routeDuration,
		c.candidatesConsidered,
		c.cacheHitsTotal,
		c.cacheMissesTotal,
		c.ruleMatchesTotal,
		c.emissionFailures,
		c.emissionDropped,
	)

	return c
}

// Registry returns the Prometheus registry holding the router metrics,
// for exposure via promhttp by the embedding application.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordDecision records a routing decision outcome and its duration.
func (c *Collector) RecordDecision(outcome string, duration time.Duration) {
	c.decisionsTotal.WithLabelValues(outcome).Inc()
	c.routeDuration.Observe(duration.Seconds())
}

// RecordCandidates records the eligible candidate count for a scored
// decision.
func (c *Collector) RecordCandidates(n int) {
	c.candidatesConsidered.Observe(float64(n))
}

// RecordCacheHit records a hit on the named cache.
func (c *Collector) RecordCacheHit(cache string) {
	c.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a miss on the named cache.
func (c *Collector) RecordCacheMiss(cache string) {
	c.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordRuleMatch records a short-circuit match for a rule id.
func (c *Collector) RecordRuleMatch(ruleID string) {
	c.ruleMatchesTotal.WithLabelValues(ruleID).Inc()
}

// RecordEmissionFailure records a decision sink write failure.
func (c *Collector) RecordEmissionFailure() {
	c.emissionFailures.Inc()
}

// RecordEmissionDropped records a decision dropped due to a full
// emission buffer.
func (c *Collector) RecordEmissionDropped() {
	c.emissionDropped.Inc()
}
