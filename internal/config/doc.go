// Package config defines the application configuration structure and
// loading logic. Configuration is sourced from an optional config.yaml and
// INKWELL_-prefixed environment variables, with env taking precedence, and
// validated before use.
package config
