// Package config loads and validates the TOML configuration file.
//
// Defaults are defined in defaults.go; Load layers the file on top of them,
// expands paths, normalizes values, and validates the result. A missing
// config file is not an error so the CLI works out of the box.
package config
