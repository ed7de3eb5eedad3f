// Package metrics provides the Prometheus collector for the routing
// engine.
//
// The collector tracks routing decisions by outcome, routing duration,
// candidate counts, performance-cache effectiveness, rule matches, and
// decision-emission failures. All components accept a nil collector and
// skip recording, so metrics stay optional for library consumers.
package metrics
