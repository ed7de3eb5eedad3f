// Radiant Router is an adaptive multi-objective routing engine for
// multi-tenant AI platforms.
//
// For each inference request it selects the best model candidate using:
//   - Tenant override rules with global fallbacks
//   - Capability filtering (vision, audio, tools)
//   - Windowed performance aggregates with cold-start defaults
//   - Thermal state of self-hosted compute
//   - Weighted multi-factor scoring (cost, latency, quality, reliability)
//
// Usage:
//
//	# Route a single request and print the decision
//	radiant-router route --task chat --tokens 1200 --tenant acme
//
//	# Validate configuration, catalog, and rule files
//	radiant-router validate --config /path/to/config.yaml
//
//	# Show version information
//	radiant-router version
package main

func main() {
	Execute()
}
