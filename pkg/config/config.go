package config

import "time"

// Config is the root configuration structure for the Radiant routing engine.
// It contains all configuration sections for the model registry, override
// rules, performance tracking, scoring, decision history, and telemetry.
type Config struct {
	// Registry contains configuration for the model catalog source.
	Registry RegistryConfig `yaml:"registry"`

	// Rules contains configuration for the tenant override rule source
	// including file location and watch mode.
	Rules RulesConfig `yaml:"rules"`

	// Performance contains configuration for windowed performance
	// aggregation and the snapshot cache.
	Performance PerformanceConfig `yaml:"performance"`

	// Scoring contains configuration for the multi-factor scoring engine
	// including the task affinity table location.
	Scoring ScoringConfig `yaml:"scoring"`

	// History contains configuration for decision history storage
	// including backend selection and retention settings.
	History HistoryConfig `yaml:"history"`

	// Emitter contains configuration for asynchronous decision emission.
	Emitter EmitterConfig `yaml:"emitter"`

	// Routing contains configuration for routing behavior such as the
	// warm-up hint window.
	Routing RoutingConfig `yaml:"routing"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RegistryConfig contains configuration for the model catalog source.
type RegistryConfig struct {
	// Path is the filesystem path to the YAML model catalog.
	// Default: "./models.yaml"
	Path string `yaml:"path"`
}

// RulesConfig contains configuration for the override rule source.
type RulesConfig struct {
	// Enabled controls whether override rules are evaluated at all.
	// When false, every request goes straight to candidate scoring.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the filesystem path to the YAML rule file.
	// Default: "./rules.yaml"
	Path string `yaml:"path"`

	// Watch enables hot reloading of the rule file on change.
	// Default: false
	Watch bool `yaml:"watch"`
}

// PerformanceConfig contains configuration for performance aggregation.
type PerformanceConfig struct {
	// CacheTTL is how long a cached performance snapshot remains valid
	// before a refresh is attempted.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// WindowDays is the size of the trailing aggregation window in days.
	// Default: 7
	WindowDays int `yaml:"window_days"`

	// LookupTimeout bounds a single history store lookup during cache
	// refresh. Lookups that exceed it fall back to cold-start defaults.
	// Default: 2s
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// ScoringConfig contains configuration for the scoring engine.
type ScoringConfig struct {
	// AffinityPath is the filesystem path to the YAML task affinity
	// table. When empty, all models receive the default quality score.
	AffinityPath string `yaml:"affinity_path"`
}

// HistoryConfig contains configuration for decision history storage.
type HistoryConfig struct {
	// Enabled controls whether decisions are persisted at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend ("sqlite", "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the filesystem path to the SQLite database file.
	// Default: "data/history.db"
	SQLitePath string `yaml:"sqlite_path"`

	// BusyTimeout is the SQLite busy timeout applied to the connection.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how many days of decision records to keep.
	// Records older than the retention window are pruned on schedule.
	// Zero disables pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// RetentionSchedule is a standard cron expression controlling when
	// retention pruning runs.
	// Default: "0 3 * * *" (daily at 03:00)
	RetentionSchedule string `yaml:"retention_schedule"`
}

// EmitterConfig contains configuration for asynchronous decision emission.
type EmitterConfig struct {
	// Buffer is the size of the emission queue. When the queue is full,
	// new decisions are dropped rather than blocking the routing path.
	// Default: 256
	Buffer int `yaml:"buffer"`

	// WriteTimeout bounds a single sink write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// RoutingConfig contains configuration for routing behavior.
type RoutingConfig struct {
	// WarmupDuration is how far ahead of anticipated load a warm-up hint
	// is issued for cold self-hosted models.
	// Default: 15m
	WarmupDuration time.Duration `yaml:"warmup_duration"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text").
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "radiant"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "router"
	Subsystem string `yaml:"subsystem"`
}
