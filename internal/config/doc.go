// Package config loads, normalizes, and validates pxrd configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PXRD_CATALOG_DIR environment
// fallback. The Config type centralizes every knob the CLI and the catalog
// need so the spectrum directory, ingest limits, and logging are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
