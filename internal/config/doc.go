// Package config loads, normalizes, and validates clipshr configuration data.
//
// It supplies defaults, reads an optional TOML file, applies a .env file and
// CLIPSHR_* environment overrides, and expands the media and history paths to
// absolute locations. Always obtain settings through this package so the
// server and CLI agree on where media lives.
package config
