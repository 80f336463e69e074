// Package config loads application settings from defaults, an optional
// config.yaml, a .env file and LINGUA_* environment variables, and validates
// them before any component is constructed.
package config
