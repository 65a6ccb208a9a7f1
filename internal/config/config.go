// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// subsystem. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Backend holds the remote backend endpoint settings.
	Backend Backend `envPrefix:"BACKEND_"`

	// Storage holds configuration for the local persistence layer.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds tuning knobs for the sync engine and scheduler.
	Sync Sync `envPrefix:"SYNC_"`

	// Auth holds the platform session credentials supplied by the
	// authentication collaborator.
	Auth Auth `envPrefix:"AUTH_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Backend holds network settings for the remote backend store.
type Backend struct {
	// Address is the base URL of the backend API
	// (e.g. "http://localhost:8080").
	// Env: BACKEND_ADDRESS
	Address string `env:"ADDRESS"`

	// RequestTimeout bounds every individual backend call. A timeout is
	// treated as a transient failure and counts toward the retry budget.
	// Env: BACKEND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the configuration for the local persistence backend.
type Storage struct {
	// DB holds the local SQLite database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path used by the local store
	// (e.g. "/home/user/.studysync/sync.db").
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Sync holds the engine and scheduler tuning parameters.
type Sync struct {
	// Interval is the periodic sync tick (e.g. "5m").
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// BatchSize caps how many queue items one cycle drains per direction.
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// MaxAttempts is the retry ceiling for transient per-item failures;
	// items beyond it move to the permanently-failed bucket.
	// Env: SYNC_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// MaxInFlight bounds concurrent backend calls within one cycle.
	// Env: SYNC_MAX_IN_FLIGHT
	MaxInFlight int `env:"MAX_IN_FLIGHT"`

	// FreshnessWindow is how young a local profile edit must be to win over
	// the server copy during conflict resolution (e.g. "5m").
	// Env: SYNC_FRESHNESS_WINDOW
	FreshnessWindow time.Duration `env:"FRESHNESS_WINDOW"`
}

// Auth holds the session credentials handed to the subsystem at sign-in.
type Auth struct {
	// SessionToken is the platform-issued JWT identifying the current user.
	// Env: AUTH_SESSION_TOKEN
	SessionToken string `env:"SESSION_TOKEN"`
}

// Defaults applied by the builder for any field left unset by env, flags,
// and the JSON file.
const (
	DefaultRequestTimeout  = 15 * time.Second
	DefaultSyncInterval    = 5 * time.Minute
	DefaultBatchSize       = 25
	DefaultMaxAttempts     = 5
	DefaultMaxInFlight     = 4
	DefaultFreshnessWindow = 5 * time.Minute
)

// GetConfig loads, merges, and validates the subsystem configuration from all
// available sources in the following priority order (earlier sources win for
// non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source fails
// to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
