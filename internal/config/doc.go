// Package config loads the price service configuration.
//
// Values are resolved in order: YAML file (with ${VAR} expansion), defaults
// for anything left empty, then environment overrides. The result is
// validated before use.
package config
