// Package config loads, normalizes, and validates svgrep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the default location or a project
// local svgrep.toml. The Config type centralizes every knob the CLI needs, so
// staging directories, matching parameters, and ASR settings are discovered
// in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
