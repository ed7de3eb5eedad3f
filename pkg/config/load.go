package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention RADIANT_SECTION_FIELD (e.g., RADIANT_RULES_PATH). Environment
// variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format RADIANT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Registry overrides
	if val := os.Getenv("RADIANT_REGISTRY_PATH"); val != "" {
		cfg.Registry.Path = val
	}

	// Rules overrides
	if val := os.Getenv("RADIANT_RULES_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Enabled = b
		}
	}
	if val := os.Getenv("RADIANT_RULES_PATH"); val != "" {
		cfg.Rules.Path = val
	}
	if val := os.Getenv("RADIANT_RULES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Rules.Watch = b
		}
	}

	// Performance overrides
	if val := os.Getenv("RADIANT_PERFORMANCE_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Performance.CacheTTL = d
		}
	}
	if val := os.Getenv("RADIANT_PERFORMANCE_WINDOW_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Performance.WindowDays = n
		}
	}
	if val := os.Getenv("RADIANT_PERFORMANCE_LOOKUP_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Performance.LookupTimeout = d
		}
	}

	// Scoring overrides
	if val := os.Getenv("RADIANT_SCORING_AFFINITY_PATH"); val != "" {
		cfg.Scoring.AffinityPath = val
	}

	// History overrides
	if val := os.Getenv("RADIANT_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("RADIANT_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("RADIANT_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}
	if val := os.Getenv("RADIANT_HISTORY_RETENTION_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.History.RetentionDays = n
		}
	}
	if val := os.Getenv("RADIANT_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.RetentionSchedule = val
	}

	// Emitter overrides
	if val := os.Getenv("RADIANT_EMITTER_BUFFER"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Emitter.Buffer = n
		}
	}
	if val := os.Getenv("RADIANT_EMITTER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Emitter.WriteTimeout = d
		}
	}

	// Routing overrides
	if val := os.Getenv("RADIANT_ROUTING_WARMUP_DURATION"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Routing.WarmupDuration = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("RADIANT_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = strings.ToLower(val)
	}
	if val := os.Getenv("RADIANT_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = strings.ToLower(val)
	}
	if val := os.Getenv("RADIANT_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("RADIANT_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
