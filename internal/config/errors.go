package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidBackendConfigs indicates invalid backend settings
	// (for example, missing base URL or non-positive request timeout).
	ErrInvalidBackendConfigs = errors.New("invalid backend configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty database path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid sync engine settings
	// (for example, zero interval, batch size, or attempt ceiling).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
