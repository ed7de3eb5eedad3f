package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PrunableStore is a history store supporting retention pruning.
// Implemented by Store and Memory.
type PrunableStore interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionConfig contains configuration for history retention.
type RetentionConfig struct {
	// RetentionDays is how long history rows are kept. Zero disables
	// pruning entirely.
	RetentionDays int

	// Schedule is the cron expression for pruning runs
	// (e.g. "0 3 * * *" for daily at 3 AM). Empty disables the
	// scheduler; Prune can still be called manually.
	Schedule string
}

// Pruner deletes history rows past the retention horizon.
type Pruner struct {
	store  PrunableStore
	config *RetentionConfig
	logger *slog.Logger
}

// NewPruner creates a pruner over the store.
func NewPruner(store PrunableStore, config *RetentionConfig) *Pruner {
	if config == nil {
		config = &RetentionConfig{}
	}
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "history.pruner"),
	}
}

// Prune deletes rows older than the retention horizon and returns the
// number deleted. A zero RetentionDays makes Prune a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.PruneBefore(ctx, cutoff)
	if err != nil {
		return deleted, fmt.Errorf("retention pruning failed: %w", err)
	}

	p.logger.Info("history pruned",
		"deleted", deleted,
		"retention_days", p.config.RetentionDays,
	)
	return deleted, nil
}

// Scheduler runs the pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a retention scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "history.scheduler"),
	}
}

// Start begins scheduled pruning. If no schedule is configured this is
// a no-op. The scheduler stops when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.Schedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if _, err := s.pruner.Prune(ctx); err != nil {
			s.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler, waiting for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}
