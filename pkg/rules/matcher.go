package rules

import (
	"context"
	"fmt"
	"log/slog"
)

// Matcher evaluates routing rules for a request.
type Matcher struct {
	store  Store
	logger *slog.Logger
}

// NewMatcher creates a rule matcher over the store.
func NewMatcher(store Store, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		store:  store,
		logger: logger.With("component", "rules.matcher"),
	}
}

// FirstMatch returns the first active rule whose conditions are
// satisfied by the request attributes, evaluating the tenant's rules
// and global rules in ascending priority order. Returns nil when no
// rule matches.
func (m *Matcher) FirstMatch(ctx context.Context, tenantID, taskType string, estimatedTokens int) (*Rule, error) {
	ruleSet, err := m.store.ListActiveRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("rule store lookup failed: %w", err)
	}

	Sort(ruleSet)

	for i := range ruleSet {
		rule := &ruleSet[i]
		if !rule.Active {
			continue
		}
		if rule.Conditions.Matches(taskType, estimatedTokens) {
			m.logger.Debug("rule matched",
				"rule", rule.ID,
				"name", rule.Name,
				"priority", rule.Priority,
				"tenant", rule.TenantID,
				"target_model", rule.TargetModel,
			)
			return rule, nil
		}
	}

	m.logger.Debug("no rule matched",
		"tenant", tenantID,
		"task_type", taskType,
		"rules_evaluated", len(ruleSet),
	)
	return nil, nil
}
