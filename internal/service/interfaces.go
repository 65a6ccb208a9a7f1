// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"

	"github.com/brightpath/studysync/models"
)

// SyncQueue is the durable mutation queue. Enqueueing never blocks on the
// network; at most one item exists per (ref, direction).
type SyncQueue interface {
	// Enqueue records a pending mutation. Re-enqueueing the same
	// (ref, direction) replaces the payload, resets the attempt counter and
	// keeps the original position in the drain order.
	Enqueue(ctx context.Context, ref models.EntityRef, direction models.Direction, payload []byte, priority models.Priority) error

	// Drain atomically removes and returns up to maxBatch retry-eligible
	// items for the direction, highest priority first, oldest first within
	// a priority.
	Drain(ctx context.Context, direction models.Direction, maxBatch int) ([]models.QueueItem, error)

	// Depth reports current queue counts by direction plus the failed bucket.
	Depth(ctx context.Context) (models.QueueDepth, error)

	// Requeue puts a drained item back with its attempt counter incremented.
	Requeue(ctx context.Context, item models.QueueItem) error

	// MarkFailedPermanently parks an item in the failed bucket. Parked items
	// are excluded from drains but remain listed in diagnostics.
	MarkFailedPermanently(ctx context.Context, item models.QueueItem, reason string) error

	// FailedItems lists the permanently-failed bucket, oldest first.
	FailedItems(ctx context.Context) ([]models.FailedItem, error)
}

// SyncEngine executes sync cycles against the backend.
type SyncEngine interface {
	// RunCycle drains both queue directions and transfers the items.
	// Concurrent callers share one in-flight cycle and receive its result.
	// Per-item failures are counted in the result; the returned error is
	// non-nil only when the cycle itself could not run.
	RunCycle(ctx context.Context) (models.CycleResult, error)
}

// ConflictResolver decides and applies conflict outcomes.
type ConflictResolver interface {
	// AutoResolve picks a resolution for the conflict from the per-kind
	// strategy table. ResolutionPending means no automatic decision could
	// be made and the conflict needs user input.
	AutoResolve(conflict models.Conflict) models.Resolution

	// Apply writes the chosen resolution to the local store. Local and
	// custom resolutions re-enqueue the entity for upload at high priority;
	// custom requires a payload.
	Apply(ctx context.Context, conflict models.Conflict, resolution models.Resolution, custom []byte) error
}

// SyncScheduler drives periodic and on-demand sync cycles.
type SyncScheduler interface {
	// Start launches the ticker goroutine. Stops any previous run first.
	Start(ctx context.Context)

	// RequestSync asks for a cycle as soon as possible. Requests arriving
	// while a cycle is pending coalesce into one.
	RequestSync()

	// Pause suspends cycle execution, e.g. on going offline. Triggers that
	// arrive while paused are remembered.
	Pause()

	// Resume lifts a pause and runs exactly one deferred cycle if any
	// trigger arrived while paused.
	Resume()

	// Stop tears the ticker goroutine down and waits for it to exit.
	Stop()

	// State reports the scheduler's current state.
	State() SchedulerState
}

// MigrationCoordinator performs the one-time import of legacy locally-only
// records into the synced store.
type MigrationCoordinator interface {
	// IsMigrationRequired reports whether any legacy record still lacks a
	// migrated-keys marker.
	IsMigrationRequired(ctx context.Context) (bool, error)

	// RunMigration imports every unmigrated legacy record, pushes it to the
	// backend and marks it migrated once confirmed. Item failures are
	// recorded in the job and do not stop the run; a re-run skips
	// already-migrated keys.
	RunMigration(ctx context.Context) (models.MigrationJob, error)
}
