package router

import (
	"errors"
	"fmt"

	"github.com/radiant/router/pkg/catalog"
)

// Fatal routing errors that can be checked with errors.Is(). These are
// the only errors Route returns; every other collaborator failure
// degrades gracefully with documented defaults.
var (
	// ErrRegistryUnavailable is returned when the registry lookup
	// itself failed and no candidates could be enumerated at all.
	ErrRegistryUnavailable = errors.New("model registry unavailable")

	// ErrNoEligibleCandidates is returned when the registry lookup
	// succeeded but no candidate matched the request's capability and
	// activity filters. Distinct from ErrRegistryUnavailable so callers
	// can relax constraints and retry.
	ErrNoEligibleCandidates = errors.New("no eligible candidates")

	// ErrInvalidRequest is returned for requests that fail validation
	// before routing starts.
	ErrInvalidRequest = errors.New("invalid routing request")
)

// RegistryUnavailableError wraps the underlying registry failure.
type RegistryUnavailableError struct {
	// Err is the underlying lookup error.
	Err error
}

// Error implements the error interface.
func (e *RegistryUnavailableError) Error() string {
	return fmt.Sprintf("model registry unavailable: %v", e.Err)
}

// Unwrap returns the underlying lookup error.
func (e *RegistryUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is().
func (e *RegistryUnavailableError) Is(target error) bool {
	return target == ErrRegistryUnavailable
}

// NoEligibleCandidatesError reports which requirements filtered out
// every candidate, so callers can decide what to relax.
type NoEligibleCandidatesError struct {
	// TaskType is the request's task type.
	TaskType TaskType

	// Required is the capability filter that was applied.
	Required catalog.CapabilityFilter
}

// Error implements the error interface.
func (e *NoEligibleCandidatesError) Error() string {
	if len(e.Required) == 0 {
		return fmt.Sprintf("no eligible candidates for task type %q", e.TaskType)
	}
	return fmt.Sprintf("no eligible candidates for task type %q with capabilities %v", e.TaskType, e.Required)
}

// Is implements error matching for errors.Is().
func (e *NoEligibleCandidatesError) Is(target error) bool {
	return target == ErrNoEligibleCandidates
}
