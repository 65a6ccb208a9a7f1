// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// subsystem invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Backend.Address == "" || cfg.Backend.RequestTimeout <= 0 {
		return ErrInvalidBackendConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.BatchSize <= 0 ||
		cfg.Sync.MaxAttempts <= 0 || cfg.Sync.MaxInFlight <= 0 ||
		cfg.Sync.FreshnessWindow <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
