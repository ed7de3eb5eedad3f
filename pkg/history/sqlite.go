package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/radiant/router/pkg/perf"
	"github.com/radiant/router/pkg/router"
)

// StoreConfig contains configuration for the SQLite history store.
type StoreConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultStoreConfig returns the default store configuration.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5 * time.Second,
	}
}

// Store is the SQLite-backed history store. It implements
// perf.HistorySource and router.DecisionSink.
//
// WAL mode is enabled for read concurrency: aggregate reads from the
// tracker run alongside outcome and decision writes.
type Store struct {
	db     *sql.DB
	config *StoreConfig
	logger *slog.Logger

	recordDecisionStmt *sql.Stmt
	recordOutcomeStmt  *sql.Stmt
	aggregateStmt      *sql.Stmt
}

// NewStore opens (or creates) the history database at config.Path and
// initializes the schema.
func NewStore(config *StoreConfig) (*Store, error) {
	if config == nil {
		config = DefaultStoreConfig()
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		config.Path, config.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &Store{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "history.store"),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("history store opened",
		"path", config.Path,
		"schema_version", SchemaVersion,
	)

	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO schema_version (version, applied_at) VALUES (?, ?)`,
		SchemaVersion, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.recordDecisionStmt, err = s.db.Prepare(`
		INSERT INTO decisions (
			id, model_id, provider_id, strategy, rule_id, reason,
			estimated_cost_usd, estimated_latency_ms, confidence,
			fallbacks, tenant_id, user_id, task_type, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare decision insert: %w", err)
	}

	s.recordOutcomeStmt, err = s.db.Prepare(`
		INSERT INTO outcomes (model_id, latency_ms, success, created_at)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare outcome insert: %w", err)
	}

	s.aggregateStmt, err = s.db.Prepare(`
		SELECT AVG(latency_ms), AVG(success), COUNT(*)
		FROM outcomes
		WHERE model_id = ? AND created_at >= ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare aggregate query: %w", err)
	}

	return nil
}

// Record persists a routing decision. Implements router.DecisionSink.
func (s *Store) Record(ctx context.Context, d *router.Decision) error {
	var fallbacks []byte
	if len(d.Fallbacks) > 0 {
		var err error
		fallbacks, err = json.Marshal(d.Fallbacks)
		if err != nil {
			return fmt.Errorf("failed to marshal fallbacks: %w", err)
		}
	}

	_, err := s.recordDecisionStmt.ExecContext(ctx,
		d.ID, d.ModelID, d.ProviderID, string(d.Strategy), d.RuleID, d.Reason,
		d.EstimatedCostUSD, d.EstimatedLatency.Milliseconds(), d.Confidence,
		string(fallbacks), d.TenantID, d.UserID, string(d.TaskType), d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision %s: %w", d.ID, err)
	}
	return nil
}

// RecordOutcome appends a raw invocation outcome. The routing engine
// never calls this; it belongs to whatever invokes the chosen model.
func (s *Store) RecordOutcome(ctx context.Context, modelID string, latency time.Duration, success bool) error {
	succ := 0
	if success {
		succ = 1
	}
	_, err := s.recordOutcomeStmt.ExecContext(ctx,
		modelID, latency.Milliseconds(), succ, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", modelID, err)
	}
	return nil
}

// GetAggregate computes the windowed aggregate for a model from raw
// outcomes. Implements perf.HistorySource. Returns perf.ErrNoData when
// no outcomes exist in the window.
func (s *Store) GetAggregate(ctx context.Context, modelID string, windowDays int) (perf.Aggregate, error) {
	if windowDays <= 0 {
		windowDays = perf.DefaultWindowDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	var avgLatencyMS, successRate sql.NullFloat64
	var count int64

	row := s.aggregateStmt.QueryRowContext(ctx, modelID, cutoff)
	if err := row.Scan(&avgLatencyMS, &successRate, &count); err != nil {
		return perf.Aggregate{}, fmt.Errorf("aggregate query failed for %s: %w", modelID, err)
	}

	if count == 0 || !avgLatencyMS.Valid || !successRate.Valid {
		return perf.Aggregate{}, perf.ErrNoData
	}

	return perf.Aggregate{
		ModelID:     modelID,
		AvgLatency:  time.Duration(avgLatencyMS.Float64 * float64(time.Millisecond)),
		SuccessRate: successRate.Float64,
		SampleCount: count,
	}, nil
}

// PruneBefore deletes decisions and outcomes created before the cutoff.
// Returns the number of rows deleted.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64

	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune decisions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	res, err = s.db.ExecContext(ctx, `DELETE FROM outcomes WHERE created_at < ?`, cutoff)
	if err != nil {
		return total, fmt.Errorf("failed to prune outcomes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	return total, nil
}

// Close releases prepared statements and the database handle.
func (s *Store) Close() error {
	for _, stmt := range []*sql.Stmt{s.recordDecisionStmt, s.recordOutcomeStmt, s.aggregateStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
