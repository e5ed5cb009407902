// Package config defines the application configuration structure and loads
// it from a YAML file plus ANKIBOT_-prefixed environment overrides. Loaded
// configuration is validated before use and immutable for the process
// lifetime.
package config
