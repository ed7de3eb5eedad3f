// Package config provides configuration loading, defaulting, and validation
// for the Radiant routing engine.
//
// Configuration is loaded from a YAML file, defaults are applied to any
// unset fields, and the result is validated before use. Environment
// variables using the RADIANT_SECTION_FIELD naming convention override
// file-based values and are applied after defaults but before the final
// validation pass.
//
// The zero value of Config is not usable directly; callers should obtain
// configuration through LoadConfig or LoadConfigWithEnvOverrides, or apply
// ApplyDefaults to a hand-constructed Config before validating it.
package config
