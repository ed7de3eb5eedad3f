package rules

import (
	"context"
	"sort"
)

// Rule is a routing override. When its conditions match a request, the
// router resolves to TargetModel directly with confidence 1.0.
type Rule struct {
	// ID uniquely identifies the rule.
	ID string `yaml:"id"`

	// Name is the human-readable rule name, used in decision reasons.
	Name string `yaml:"name"`

	// TenantID scopes the rule to one tenant. Empty means global.
	TenantID string `yaml:"tenant_id,omitempty"`

	// Priority orders evaluation; lower values are evaluated first.
	Priority int `yaml:"priority"`

	// Conditions is the conjunctive condition predicate.
	Conditions Conditions `yaml:"conditions"`

	// TargetModel is the model id the rule routes to.
	TargetModel string `yaml:"target_model"`

	// TargetProvider is the provider serving TargetModel. Optional;
	// when empty the router resolves it from the registry best-effort.
	TargetProvider string `yaml:"target_provider,omitempty"`

	// Fallbacks is an ordered list of model ids the caller may retry
	// with if TargetModel fails at invocation time. The router itself
	// never retries rule-based choices.
	Fallbacks []string `yaml:"fallbacks,omitempty"`

	// Active indicates whether the rule participates in matching.
	Active bool `yaml:"active"`
}

// Global reports whether the rule applies to every tenant.
func (r Rule) Global() bool {
	return r.TenantID == ""
}

// Conditions is the condition predicate of a rule. Every specified
// field must hold for the rule to match; zero-valued fields are
// wildcards.
type Conditions struct {
	// TaskType matches requests with this task type. Empty matches any.
	TaskType string `yaml:"task_type,omitempty"`

	// MinEstimatedTokens matches requests at or above this input size.
	MinEstimatedTokens *int `yaml:"min_estimated_tokens,omitempty"`

	// MaxEstimatedTokens matches requests at or below this input size.
	MaxEstimatedTokens *int `yaml:"max_estimated_tokens,omitempty"`
}

// Matches evaluates the predicate against a request's task type and
// estimated input size. Evaluation is conjunctive.
func (c Conditions) Matches(taskType string, estimatedTokens int) bool {
	if c.TaskType != "" && c.TaskType != taskType {
		return false
	}
	if c.MinEstimatedTokens != nil && estimatedTokens < *c.MinEstimatedTokens {
		return false
	}
	if c.MaxEstimatedTokens != nil && estimatedTokens > *c.MaxEstimatedTokens {
		return false
	}
	return true
}

// Store provides the active rules visible to a tenant: the tenant's own
// rules plus global rules. Order is not required; the Matcher sorts.
type Store interface {
	ListActiveRules(ctx context.Context, tenantID string) ([]Rule, error)
}

// Sort orders rules for evaluation: ascending priority, tenant-scoped
// before global on equal priority, then rule id. The ordering is total,
// so evaluation is deterministic for a given rule snapshot.
func Sort(ruleSet []Rule) {
	sort.SliceStable(ruleSet, func(i, j int) bool {
		a, b := ruleSet[i], ruleSet[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Global() != b.Global() {
			return !a.Global()
		}
		return a.ID < b.ID
	})
}
