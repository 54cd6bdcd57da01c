// Package config loads, normalizes, and validates srlprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// pipeline needs: input annotation paths, the cache directory, verb/role
// filtering sets, proposal and frame dimensioning, and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical role labels, and clear validation errors.
package config
