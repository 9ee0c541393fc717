// Package config loads and validates application settings from defaults,
// an optional config.yaml, an optional .env file and MYDAY_-prefixed
// environment variables.
package config
