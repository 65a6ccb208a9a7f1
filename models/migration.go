package models

import "time"

// LegacyRecord is a pre-sync locally-only record awaiting one-time migration
// into the synced entity shape.
type LegacyRecord struct {
	Key        string     `json:"key"`
	Kind       EntityKind `json:"kind"`
	Payload    []byte     `json:"payload"`
	ModifiedAt time.Time  `json:"modified_at"`
}

// MigrationItemError records a single failed migration item. The job
// continues past it; partial success is a valid terminal state.
type MigrationItemError struct {
	LegacyKey string `json:"legacy_key"`
	Reason    string `json:"reason"`
}

// MigrationJob reports the outcome of one migration run. Re-running after a
// partial failure skips already-migrated keys, so ItemsTotal counts only the
// keys that still needed work when the run started.
type MigrationJob struct {
	ItemsTotal     int                  `json:"items_total"`
	ItemsProcessed int                  `json:"items_processed"`
	Errors         []MigrationItemError `json:"errors,omitempty"`
	Completed      bool                 `json:"completed"`
}
