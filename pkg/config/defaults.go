package config

import "time"

// Default values for configuration fields.
const (
	// Registry defaults
	DefaultRegistryPath = "./models.yaml"

	// Rules defaults
	DefaultRulesEnabled = true
	DefaultRulesPath    = "./rules.yaml"
	DefaultRulesWatch   = false

	// Performance defaults
	DefaultPerformanceCacheTTL      = 5 * time.Minute
	DefaultPerformanceWindowDays    = 7
	DefaultPerformanceLookupTimeout = 2 * time.Second

	// History defaults
	DefaultHistoryEnabled           = true
	DefaultHistoryBackend           = "sqlite"
	DefaultHistorySQLitePath        = "data/history.db"
	DefaultHistoryBusyTimeout       = 5 * time.Second
	DefaultHistoryRetentionDays     = 90
	DefaultHistoryRetentionSchedule = "0 3 * * *"

	// Emitter defaults
	DefaultEmitterBuffer       = 256
	DefaultEmitterWriteTimeout = 5 * time.Second

	// Routing defaults
	DefaultWarmupDuration = 15 * time.Minute

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "radiant"
	DefaultMetricsSubsystem = "router"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It modifies the configuration in place. Boolean fields that default to
// true are only defaulted when the whole section is zero-valued, since YAML
// cannot distinguish "false" from "unset".
func ApplyDefaults(cfg *Config) {
	applyRegistryDefaults(&cfg.Registry)
	applyRulesDefaults(&cfg.Rules)
	applyPerformanceDefaults(&cfg.Performance)
	applyHistoryDefaults(&cfg.History)
	applyEmitterDefaults(&cfg.Emitter)
	applyRoutingDefaults(&cfg.Routing)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyRegistryDefaults(cfg *RegistryConfig) {
	if cfg.Path == "" {
		cfg.Path = DefaultRegistryPath
	}
}

func applyRulesDefaults(cfg *RulesConfig) {
	if *cfg == (RulesConfig{}) {
		cfg.Enabled = DefaultRulesEnabled
	}
	if cfg.Path == "" {
		cfg.Path = DefaultRulesPath
	}
}

func applyPerformanceDefaults(cfg *PerformanceConfig) {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultPerformanceCacheTTL
	}
	if cfg.WindowDays == 0 {
		cfg.WindowDays = DefaultPerformanceWindowDays
	}
	if cfg.LookupTimeout == 0 {
		cfg.LookupTimeout = DefaultPerformanceLookupTimeout
	}
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if *cfg == (HistoryConfig{}) {
		cfg.Enabled = DefaultHistoryEnabled
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultHistoryBackend
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = DefaultHistorySQLitePath
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultHistoryRetentionDays
	}
	if cfg.RetentionSchedule == "" {
		cfg.RetentionSchedule = DefaultHistoryRetentionSchedule
	}
}

func applyEmitterDefaults(cfg *EmitterConfig) {
	if cfg.Buffer == 0 {
		cfg.Buffer = DefaultEmitterBuffer
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultEmitterWriteTimeout
	}
}

func applyRoutingDefaults(cfg *RoutingConfig) {
	if cfg.WarmupDuration == 0 {
		cfg.WarmupDuration = DefaultWarmupDuration
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics == (MetricsConfig{}) {
		cfg.Metrics.Enabled = DefaultMetricsEnabled
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
