package catalog

import "context"

// HostingType distinguishes where a model is served from.
type HostingType string

const (
	// HostingExternal is a model served by a third-party provider API.
	HostingExternal HostingType = "external"

	// HostingSelfHosted is a model served from self-managed compute.
	// Self-hosted models carry thermal state that affects their
	// effective latency.
	HostingSelfHosted HostingType = "self-hosted"
)

// Capability is a feature a model advertises (and a request may require).
type Capability string

const (
	// CapabilityVision indicates the model accepts image input.
	CapabilityVision Capability = "vision"

	// CapabilityAudio indicates the model accepts audio input.
	CapabilityAudio Capability = "audio"

	// CapabilityTools indicates the model supports tool/function calling.
	CapabilityTools Capability = "tools"
)

// CapabilityFilter is the set of capabilities a request requires.
// An empty filter matches every candidate.
type CapabilityFilter []Capability

// ModelCandidate is a model/provider pairing eligible for routing.
// Candidates are supplied per call by the Registry and are never
// mutated by the routing engine.
type ModelCandidate struct {
	// ID is the model identifier (e.g. "gpt-4o", "llama-3-70b").
	ID string `yaml:"id"`

	// Provider is the provider identifier (e.g. "openai", "radiant").
	Provider string `yaml:"provider"`

	// Hosting is where the model is served from.
	Hosting HostingType `yaml:"hosting"`

	// Capabilities is the set of capability tags the model advertises.
	Capabilities []Capability `yaml:"capabilities"`

	// InputPricePerMillion is the USD price per million input tokens.
	InputPricePerMillion float64 `yaml:"input_price_per_million"`

	// OutputPricePerMillion is the USD price per million output tokens.
	OutputPricePerMillion float64 `yaml:"output_price_per_million"`

	// Active indicates whether the model may receive traffic.
	Active bool `yaml:"active"`
}

// HasCapabilities reports whether the candidate's capability tag set is
// a superset of the required capabilities.
func (c ModelCandidate) HasCapabilities(required CapabilityFilter) bool {
	if len(required) == 0 {
		return true
	}

	tags := make(map[Capability]bool, len(c.Capabilities))
	for _, cap := range c.Capabilities {
		tags[cap] = true
	}

	for _, req := range required {
		if !tags[req] {
			return false
		}
	}
	return true
}

// Registry is the model registry consumed by the Enumerator.
// Implementations must return candidates in a stable order; that order
// is the tie-break key for scoring.
type Registry interface {
	// ListActiveCandidates returns the active candidates matching the
	// capability filter. Implementations may return a superset (the
	// Enumerator re-verifies both activity and capabilities); they must
	// not return an error for an empty result.
	ListActiveCandidates(ctx context.Context, filter CapabilityFilter) ([]ModelCandidate, error)

	// Lookup returns the candidate with the given model id, if present.
	Lookup(ctx context.Context, modelID string) (ModelCandidate, bool, error)
}
