package store

import (
	"context"

	"github.com/brightpath/studysync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// EntityRepository is the low-level local repository for synced entities.
// All writes that could clobber an unpushed local edit are state-guarded.
type EntityRepository interface {
	// Save upserts an entity as-is. Used for brand new local edits and for
	// entities produced by the legacy migration.
	Save(ctx context.Context, entity models.SyncableEntity) error
	// Get returns one entity or ErrEntityNotFound.
	Get(ctx context.Context, ref models.EntityRef) (models.SyncableEntity, error)
	// GetByState lists all entities currently in the given sync state.
	GetByState(ctx context.Context, state models.SyncState) ([]models.SyncableEntity, error)
	// SetState performs a guarded from→to transition. Returns
	// ErrIllegalTransition for moves outside the legal set and
	// ErrStateMismatch when the entity is no longer in the from state.
	SetState(ctx context.Context, ref models.EntityRef, from, to models.SyncState) error
	// MarkClean records a confirmed upload: state clean, remote timestamp
	// updated, remote snapshot dropped.
	MarkClean(ctx context.Context, ref models.EntityRef, remoteModifiedAt models.PutResult) error
	// MarkConflicted retains the diverged remote payload next to the local
	// one and moves the entity to the conflicted state.
	MarkConflicted(ctx context.Context, ref models.EntityRef, remote models.RemoteEntity) error
	// ApplyRemote adopts a downloaded payload unless a local edit is pending
	// or a conflict is open (state-guarded; ErrStateMismatch on guard miss).
	ApplyRemote(ctx context.Context, ref models.EntityRef, remote models.RemoteEntity) error
	// ApplyResolution overwrites a conflicted entity with the resolved
	// payload and the resulting state (clean or pendingUpload).
	ApplyResolution(ctx context.Context, ref models.EntityRef, resolved models.SyncableEntity) error
}

// QueueRepository persists pending queue items so unfinished work survives a
// process restart. At most one row exists per (ref, direction).
type QueueRepository interface {
	// Upsert inserts or replaces the item for its (ref, direction). The
	// stored enqueued_at of an existing row is preserved.
	Upsert(ctx context.Context, item models.QueueItem) error
	// Drain atomically selects and deletes up to maxBatch retry-eligible
	// items for the direction, ordered by priority (high first) then
	// enqueued_at (oldest first), ties broken by insertion order.
	Drain(ctx context.Context, direction models.Direction, maxBatch int) ([]models.QueueItem, error)
	// Depth returns current counts by direction plus the failed bucket.
	Depth(ctx context.Context) (models.QueueDepth, error)
	// MarkFailed parks an item in the permanently-failed bucket; it is no
	// longer drained but remains visible for diagnostics.
	MarkFailed(ctx context.Context, item models.QueueItem, reason string) error
	// FailedItems lists the permanently-failed bucket, oldest first.
	FailedItems(ctx context.Context) ([]models.FailedItem, error)
}

// MigrationRepository tracks legacy locally-only records and the
// migrated-keys marker set that makes the one-time migration idempotent.
type MigrationRepository interface {
	// SaveLegacy upserts a legacy record (used by the importer and tests).
	SaveLegacy(ctx context.Context, record models.LegacyRecord) error
	// ListUnmigrated returns legacy records with no migrated-keys marker.
	ListUnmigrated(ctx context.Context) ([]models.LegacyRecord, error)
	// CountUnmigrated reports how many legacy records still need migration.
	CountUnmigrated(ctx context.Context) (int, error)
	// MarkMigrated writes the marker for a legacy key. Idempotent.
	MarkMigrated(ctx context.Context, legacyKey string) error
	// DeleteLegacy removes the legacy record once its upload is confirmed.
	DeleteLegacy(ctx context.Context, legacyKey string) error
}
