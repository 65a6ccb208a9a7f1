// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
	"github.com/brightpath/studysync/models"
)

// maxMigrationCycles bounds how many engine cycles one migration run may
// spend pushing imported records before giving up on the remainder.
const maxMigrationCycles = 16

type migrationCoordinator struct {
	migrations store.MigrationRepository
	entities   store.EntityRepository
	queue      SyncQueue
	engine     SyncEngine
	logger     *logger.Logger
}

// NewMigrationCoordinator builds the one-time importer of legacy locally-only
// records. The coordinator is idempotent: every imported key gets a marker,
// and a re-run after a partial failure only touches unmarked keys.
func NewMigrationCoordinator(
	migrations store.MigrationRepository,
	entities store.EntityRepository,
	queue SyncQueue,
	engine SyncEngine,
	logger *logger.Logger,
) MigrationCoordinator {
	return &migrationCoordinator{
		migrations: migrations,
		entities:   entities,
		queue:      queue,
		engine:     engine,
		logger:     logger,
	}
}

func (m *migrationCoordinator) IsMigrationRequired(ctx context.Context) (bool, error) {
	count, err := m.migrations.CountUnmigrated(ctx)
	if err != nil {
		return false, fmt.Errorf("count unmigrated legacy records: %w", err)
	}
	return count > 0, nil
}

// RunMigration imports every unmigrated legacy record. Per record: transform
// into a syncable entity, save it pending upload, enqueue it at high
// priority, then run engine cycles until the uploads settle. A record is
// marked migrated only once its entity came back clean; anything else is
// recorded as an item error and retried on the next run.
func (m *migrationCoordinator) RunMigration(ctx context.Context) (models.MigrationJob, error) {
	log := logger.FromContext(ctx)

	records, err := m.migrations.ListUnmigrated(ctx)
	if err != nil {
		return models.MigrationJob{}, fmt.Errorf("list unmigrated legacy records: %w", err)
	}

	job := models.MigrationJob{ItemsTotal: len(records)}
	if len(records) == 0 {
		job.Completed = true
		return job, nil
	}

	imported := make(map[string]models.EntityRef, len(records))
	for _, record := range records {
		ref, importErr := m.importRecord(ctx, record)
		if importErr != nil {
			job.Errors = append(job.Errors, models.MigrationItemError{
				LegacyKey: record.Key,
				Reason:    importErr.Error(),
			})
			continue
		}
		imported[record.Key] = ref
	}

	if err = m.pushImported(ctx); err != nil {
		return job, err
	}

	for key, ref := range imported {
		confirmErr := m.confirmMigrated(ctx, key, ref)
		if confirmErr != nil {
			job.Errors = append(job.Errors, models.MigrationItemError{
				LegacyKey: key,
				Reason:    confirmErr.Error(),
			})
			continue
		}
		job.ItemsProcessed++
	}

	job.Completed = job.ItemsProcessed == job.ItemsTotal

	log.Info().
		Str("func", "migrationCoordinator.RunMigration").
		Int("total", job.ItemsTotal).
		Int("processed", job.ItemsProcessed).
		Int("errors", len(job.Errors)).
		Bool("completed", job.Completed).
		Msg("legacy migration run finished")

	return job, nil
}

// importRecord turns one legacy record into a pending-upload entity and
// enqueues it. The legacy key doubles as the entity id, with a "kind:" prefix
// stripped when present.
func (m *migrationCoordinator) importRecord(ctx context.Context, record models.LegacyRecord) (models.EntityRef, error) {
	ref := models.EntityRef{
		Kind: record.Kind,
		ID:   strings.TrimPrefix(record.Key, string(record.Kind)+":"),
	}
	if !ref.Valid() {
		return models.EntityRef{}, fmt.Errorf("%w: legacy key %q", ErrInvalidEntityReference, record.Key)
	}

	entity := models.SyncableEntity{
		Ref:             ref,
		Payload:         record.Payload,
		LocalModifiedAt: record.ModifiedAt,
		SyncState:       models.StatePendingUpload,
	}
	if err := m.entities.Save(ctx, entity); err != nil {
		return models.EntityRef{}, fmt.Errorf("save imported entity: %w", err)
	}

	if err := m.queue.Enqueue(ctx, ref, models.DirectionUpload, record.Payload, models.PriorityHigh); err != nil {
		return models.EntityRef{}, fmt.Errorf("enqueue imported entity: %w", err)
	}

	return ref, nil
}

// pushImported runs engine cycles until the upload queue settles or stops
// making progress. Items stuck in transient retry are left for the scheduler.
func (m *migrationCoordinator) pushImported(ctx context.Context) error {
	for i := 0; i < maxMigrationCycles; i++ {
		result, err := m.engine.RunCycle(ctx)
		if err != nil {
			return fmt.Errorf("migration sync cycle: %w", err)
		}

		depth, err := m.queue.Depth(ctx)
		if err != nil {
			return err
		}
		if depth.Uploads == 0 {
			return nil
		}
		if result.Synced == 0 && result.Conflicted == 0 && result.FailedPermanently == 0 {
			// Only transient retries left.
			return nil
		}
	}
	return nil
}

// confirmMigrated marks the key migrated and drops the legacy record once its
// entity is confirmed clean on the backend.
func (m *migrationCoordinator) confirmMigrated(ctx context.Context, legacyKey string, ref models.EntityRef) error {
	entity, err := m.entities.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, store.ErrEntityNotFound) {
			return fmt.Errorf("imported entity %s disappeared", ref.Key())
		}
		return fmt.Errorf("load imported entity %s: %w", ref.Key(), err)
	}
	if entity.SyncState != models.StateClean {
		return fmt.Errorf("imported entity %s not confirmed by backend (state %s)", ref.Key(), entity.SyncState)
	}

	if err = m.migrations.MarkMigrated(ctx, legacyKey); err != nil {
		return fmt.Errorf("mark legacy key migrated: %w", err)
	}
	if err = m.migrations.DeleteLegacy(ctx, legacyKey); err != nil {
		return fmt.Errorf("delete legacy record: %w", err)
	}

	return nil
}
