// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

// Package config provides environment-based configuration for cicd-hello.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvLogLevel  = "CICD_HELLO_LOG_LEVEL"
	EnvLogFormat = "CICD_HELLO_LOG_FORMAT"
	EnvRecord    = "CICD_HELLO_RECORD"
	EnvDBPath    = "CICD_HELLO_DB_PATH"
	EnvRetention = "CICD_HELLO_RETENTION"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	LogLevel  string        // debug, info, warn, error (default: info)
	LogFormat string        // text, json (default: text)
	Record    bool          // record each greeting in run history (default: false)
	DBPath    string        // default: ~/.cicd-hello/history.db (empty means use default)
	Retention time.Duration // default age for history prune (default: 720h)
}

// DefaultRetention is how long runs are kept when CICD_HELLO_RETENTION is unset.
const DefaultRetention = 30 * 24 * time.Hour

// validLogLevels contains the allowed log level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// validLogFormats contains the allowed log format values.
var validLogFormats = []string{"text", "json"}

// Default log settings, used when the variables are unset or invalid.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Load reads configuration from environment variables, with .env file as optional override.
// The .env file is loaded if present but errors are ignored if it doesn't exist.
func Load() (*Config, error) {
	cfg := read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithFallback reads configuration like Load but always returns a usable
// Config. Invalid log settings are replaced by their defaults and the
// validation error is returned alongside.
func LoadWithFallback() (*Config, error) {
	cfg := read()
	err := cfg.Validate()

	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		cfg.LogLevel = DefaultLogLevel
	}
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		cfg.LogFormat = DefaultLogFormat
	}

	return cfg, err
}

// Validate reports every invalid log setting in c.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid %s %q: must be one of %v", EnvLogLevel, c.LogLevel, validLogLevels))
	}

	if !slices.Contains(validLogFormats, c.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid %s %q: must be one of %v", EnvLogFormat, c.LogFormat, validLogFormats))
	}

	return errors.Join(errs...)
}

func read() *Config {
	// Try to load .env file (ignore if not found)
	_ = godotenv.Load()

	return &Config{
		LogLevel:  getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnv(EnvLogFormat, DefaultLogFormat),
		Record:    getBoolEnv(EnvRecord, false),
		DBPath:    getEnv(EnvDBPath, ""),
		Retention: getDurationEnv(EnvRetention, DefaultRetention),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable or returns a default value.
// If the value cannot be parsed as a bool, the default is returned.
func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getDurationEnv retrieves a duration environment variable or returns a default value.
// If the value cannot be parsed as a positive duration, the default is returned.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return defaultValue
	}
	return duration
}
