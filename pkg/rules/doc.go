// Package rules implements tenant-scoped routing override rules and
// their evaluation.
//
// Rules short-circuit routing: the first active rule whose conditions
// are satisfied names the target model directly and scoring is skipped
// entirely. Tenant-scoped rules are merged with global rules and the
// combined set is evaluated in ascending priority order; priority ties
// are broken tenant-first, then by rule id, so evaluation order is
// total and deterministic.
//
// Condition evaluation is conjunctive: every specified condition field
// must hold, and unspecified fields are wildcards.
//
// Rule lifecycle (create/update/delete) is owned by an external rule
// store; this package only reads. FileStore is a read-only file-backed
// Store for deployments without a live control plane.
package rules
