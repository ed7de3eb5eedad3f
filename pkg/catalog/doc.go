// Package catalog defines the unified model catalog consumed by the
// routing engine and implements candidate enumeration over it.
//
// A ModelCandidate is a model/provider pairing that may serve an
// inference request. Candidates come from a Registry, a unified view
// spanning externally-hosted and self-hosted models. The Enumerator
// filters that view down to the candidates that are active and satisfy
// a request's capability requirements.
//
// Enumeration order is a contract: the Enumerator preserves the
// Registry's ordering, and downstream scoring uses that ordering as the
// tie-break key. Registry implementations must therefore return
// candidates in a stable order.
package catalog
