package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "rules.path").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRegistry(&cfg.Registry)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validatePerformance(&cfg.Performance)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateEmitter(&cfg.Emitter)...)
	errs = append(errs, validateRouting(&cfg.Routing)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateRegistry(cfg *RegistryConfig) []FieldError {
	var errs []FieldError
	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "registry.path", Message: "must not be empty"})
	}
	return errs
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError
	if cfg.Enabled && cfg.Path == "" {
		errs = append(errs, FieldError{Field: "rules.path", Message: "must not be empty when rules are enabled"})
	}
	return errs
}

func validatePerformance(cfg *PerformanceConfig) []FieldError {
	var errs []FieldError
	if cfg.CacheTTL < 0 {
		errs = append(errs, FieldError{Field: "performance.cache_ttl", Message: "must not be negative"})
	}
	if cfg.WindowDays < 1 {
		errs = append(errs, FieldError{Field: "performance.window_days", Message: "must be at least 1"})
	}
	if cfg.LookupTimeout <= 0 {
		errs = append(errs, FieldError{Field: "performance.lookup_timeout", Message: "must be positive"})
	}
	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return errs
	}
	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{Field: "history.sqlite_path", Message: "must not be empty for sqlite backend"})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{Field: "history.backend", Message: fmt.Sprintf("unknown backend %q (must be \"sqlite\" or \"memory\")", cfg.Backend)})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "history.retention_days", Message: "must not be negative"})
	}
	if cfg.RetentionDays > 0 && cfg.RetentionSchedule != "" {
		if _, err := cron.ParseStandard(cfg.RetentionSchedule); err != nil {
			errs = append(errs, FieldError{Field: "history.retention_schedule", Message: fmt.Sprintf("invalid cron expression: %v", err)})
		}
	}
	return errs
}

func validateEmitter(cfg *EmitterConfig) []FieldError {
	var errs []FieldError
	if cfg.Buffer < 1 {
		errs = append(errs, FieldError{Field: "emitter.buffer", Message: "must be at least 1"})
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, FieldError{Field: "emitter.write_timeout", Message: "must be positive"})
	}
	return errs
}

func validateRouting(cfg *RoutingConfig) []FieldError {
	var errs []FieldError
	if cfg.WarmupDuration < 0 {
		errs = append(errs, FieldError{Field: "routing.warmup_duration", Message: "must not be negative"})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{Field: "telemetry.logging.level", Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{Field: "telemetry.logging.format", Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format)})
	}
	return errs
}
