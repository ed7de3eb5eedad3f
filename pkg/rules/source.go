package rules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk YAML shape of a rule file.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// FileStore is a read-only Store backed by a YAML rule file, with
// optional hot-reload on file changes.
//
// Example rule file:
//
//	rules:
//	  - id: tenant-a-chat
//	    name: tenant A chat pinning
//	    tenant_id: tenant-a
//	    priority: 1
//	    conditions:
//	      task_type: chat
//	    target_model: model-a
//	    target_provider: radiant
//	    fallbacks: [model-b]
//	    active: true
type FileStore struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	rules []Rule
}

// NewFileStore loads the rule file at path.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &FileStore{
		path:   path,
		logger: logger.With("component", "rules.filestore"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// ListActiveRules returns the active rules visible to the tenant:
// tenant-scoped rules plus global rules, in file order.
func (s *FileStore) ListActiveRules(ctx context.Context, tenantID string) ([]Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		if !r.Active {
			continue
		}
		if r.Global() || r.TenantID == tenantID {
			visible = append(visible, r)
		}
	}
	return visible, nil
}

// Reload re-reads the rule file and swaps the rule snapshot atomically.
func (s *FileStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read rule file %q: %w", s.path, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse rule file %q: %w", s.path, err)
	}

	if err := validateRules(file.Rules); err != nil {
		return fmt.Errorf("invalid rule file %q: %w", s.path, err)
	}

	s.mu.Lock()
	s.rules = file.Rules
	s.mu.Unlock()

	s.logger.Info("loaded rule file",
		"path", s.path,
		"rule_count", len(file.Rules),
	)
	return nil
}

// Watch watches the rule file for changes and reloads it, debounced.
// Blocks until the context is cancelled. A failed reload keeps the
// previous snapshot and is logged.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save
	// and direct file watches go stale after rename.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch rule directory: %w", err)
	}

	const debounce = 100 * time.Millisecond
	var timer *time.Timer
	var timerCh <-chan time.Time

	s.logger.Info("rule file watcher started", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rule file watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerCh = timer.C
			} else {
				// Drain a fired-but-unread tick before Reset so a burst
				// of events cannot trigger a reload off a stale expiry.
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("rule reload failed, keeping previous snapshot",
					"error", err,
				)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("rule file watcher error", "error", werr)
		}
	}
}

// validateRules checks rule entries for the fields matching depends on.
func validateRules(ruleSet []Rule) error {
	seen := make(map[string]bool, len(ruleSet))
	for i, r := range ruleSet {
		if r.ID == "" {
			return fmt.Errorf("rule at index %d has no id", i)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if r.TargetModel == "" {
			return fmt.Errorf("rule %q has no target_model", r.ID)
		}
		if min, max := r.Conditions.MinEstimatedTokens, r.Conditions.MaxEstimatedTokens; min != nil && max != nil && *min > *max {
			return fmt.Errorf("rule %q has min_estimated_tokens > max_estimated_tokens", r.ID)
		}
	}
	return nil
}
