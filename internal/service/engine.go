// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/studysync/internal/adapter"
	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
	"github.com/brightpath/studysync/models"
)

// outcomeKind classifies what happened to one queue item during the backend
// phase of a cycle.
type outcomeKind int

const (
	outcomeSynced outcomeKind = iota
	outcomeConflicted
	outcomeSkipped
	outcomeTransient
	outcomePermanent
)

// itemOutcome carries the backend phase's decision for one item into the
// serial application phase.
type itemOutcome struct {
	kind outcomeKind
	item models.QueueItem

	entity       models.SyncableEntity
	entityExists bool
	remote       models.RemoteEntity
	putResult    models.PutResult
	err          error
}

type syncEngine struct {
	entities store.EntityRepository
	queue    SyncQueue
	backend  adapter.Backend
	resolver ConflictResolver

	conflicts *ConflictSet
	metrics   *MetricsAggregator

	batchSize   int
	maxAttempts int
	maxInFlight int

	logger *logger.Logger

	mu       sync.Mutex
	inflight *cycleCall
}

// cycleCall is one in-flight cycle shared by every concurrent RunCycle caller.
type cycleCall struct {
	done   chan struct{}
	result models.CycleResult
	err    error
}

// NewSyncEngine wires the cycle executor. Conflicts it detects are registered
// in the conflict set; auto-resolvable ones are resolved in the same cycle.
func NewSyncEngine(
	entities store.EntityRepository,
	queue SyncQueue,
	backend adapter.Backend,
	resolver ConflictResolver,
	conflicts *ConflictSet,
	metrics *MetricsAggregator,
	cfg config.Sync,
	logger *logger.Logger,
) SyncEngine {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = config.DefaultMaxAttempts
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = config.DefaultMaxInFlight
	}

	return &syncEngine{
		entities:    entities,
		queue:       queue,
		backend:     backend,
		resolver:    resolver,
		conflicts:   conflicts,
		metrics:     metrics,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		maxInFlight: maxInFlight,
		logger:      logger,
	}
}

// RunCycle is single-flight: a caller arriving while a cycle is running waits
// for that cycle and receives its result instead of starting a second one.
func (e *syncEngine) RunCycle(ctx context.Context) (models.CycleResult, error) {
	e.mu.Lock()
	if call := e.inflight; call != nil {
		e.mu.Unlock()
		select {
		case <-call.done:
			return call.result, call.err
		case <-ctx.Done():
			return models.CycleResult{}, ctx.Err()
		}
	}

	call := &cycleCall{done: make(chan struct{})}
	e.inflight = call
	e.mu.Unlock()

	call.result, call.err = e.runCycle(ctx)

	e.mu.Lock()
	e.inflight = nil
	e.mu.Unlock()
	close(call.done)

	return call.result, call.err
}

func (e *syncEngine) runCycle(ctx context.Context) (models.CycleResult, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	var result models.CycleResult

	uploads, err := e.queue.Drain(ctx, models.DirectionUpload, e.batchSize)
	if err != nil {
		return result, fmt.Errorf("cycle drain uploads: %w", err)
	}
	if err = e.applyOutcomes(ctx, e.processBatch(ctx, uploads, e.processUpload), &result); err != nil {
		return result, err
	}

	downloads, err := e.queue.Drain(ctx, models.DirectionDownload, e.batchSize)
	if err != nil {
		return result, fmt.Errorf("cycle drain downloads: %w", err)
	}
	if err = e.applyOutcomes(ctx, e.processBatch(ctx, downloads, e.processDownload), &result); err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	e.metrics.RecordCycle(result)
	e.metrics.SetPendingConflicts(e.conflicts.PendingCount())

	log.Info().
		Str("func", "syncEngine.runCycle").
		Int("synced", result.Synced).
		Int("conflicted", result.Conflicted).
		Int("failed", result.Failed).
		Int("failed_permanently", result.FailedPermanently).
		Dur("duration", result.Duration).
		Msg("sync cycle finished")

	return result, nil
}

// processBatch runs the backend phase for every item with at most maxInFlight
// calls in flight. Outcomes come back in submission order; store writes
// happen later, serially, in applyOutcomes.
func (e *syncEngine) processBatch(ctx context.Context, items []models.QueueItem, work func(context.Context, models.QueueItem) itemOutcome) []itemOutcome {
	if len(items) == 0 {
		return nil
	}

	sem := make(chan struct{}, e.maxInFlight)
	outcomes := make([]itemOutcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.QueueItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = work(ctx, item)
		}(i, item)
	}
	wg.Wait()

	return outcomes
}

// processUpload runs the backend phase for one pending upload: read the local
// entity, fetch the remote copy, and either push or flag a divergence.
func (e *syncEngine) processUpload(ctx context.Context, item models.QueueItem) itemOutcome {
	outcome := itemOutcome{item: item}

	entity, err := e.entities.Get(ctx, item.Ref)
	if errors.Is(err, store.ErrEntityNotFound) {
		// Stale queue item; the entity is gone locally.
		outcome.kind = outcomeSkipped
		return outcome
	}
	if err != nil {
		outcome.kind = outcomeTransient
		outcome.err = err
		return outcome
	}
	outcome.entity = entity
	outcome.entityExists = true

	remote, err := e.backend.GetEntity(ctx, item.Ref)
	switch {
	case errors.Is(err, adapter.ErrEntityNotFound):
		// First push of this entity; nothing to diverge from.
	case err != nil:
		return e.classifyBackendFailure(outcome, err)
	case remoteChanged(entity, remote):
		outcome.kind = outcomeConflicted
		outcome.remote = remote
		return outcome
	}

	putResult, err := e.backend.PutEntity(ctx, item.Ref, entity.Payload)
	if err != nil {
		return e.classifyBackendFailure(outcome, err)
	}

	outcome.kind = outcomeSynced
	outcome.putResult = putResult
	return outcome
}

// processDownload runs the backend phase for one pending download. Refs with
// an unpushed local edit or an open conflict are skipped; their local state
// wins until the upload or resolution goes through.
func (e *syncEngine) processDownload(ctx context.Context, item models.QueueItem) itemOutcome {
	outcome := itemOutcome{item: item}

	entity, err := e.entities.Get(ctx, item.Ref)
	switch {
	case errors.Is(err, store.ErrEntityNotFound):
		// New entity from the backend's point of view.
	case err != nil:
		outcome.kind = outcomeTransient
		outcome.err = err
		return outcome
	default:
		if entity.SyncState == models.StatePendingUpload || entity.SyncState == models.StateConflicted {
			outcome.kind = outcomeSkipped
			return outcome
		}
		outcome.entity = entity
		outcome.entityExists = true
	}

	remote, err := e.backend.GetEntity(ctx, item.Ref)
	if err != nil {
		return e.classifyBackendFailure(outcome, err)
	}

	outcome.kind = outcomeSynced
	outcome.remote = remote
	return outcome
}

func (e *syncEngine) classifyBackendFailure(outcome itemOutcome, err error) itemOutcome {
	outcome.err = err
	if errors.Is(err, adapter.ErrPermanentBackend) {
		outcome.kind = outcomePermanent
	} else {
		// Unauthorized counts as transient for the item: the token may be
		// refreshed before the next attempt.
		outcome.kind = outcomeTransient
	}
	return outcome
}

// applyOutcomes is the serial application phase. Store writes and queue
// bookkeeping happen here, one item at a time, so concurrent backend calls
// never race on local state. A store-level failure aborts the cycle.
func (e *syncEngine) applyOutcomes(ctx context.Context, outcomes []itemOutcome, result *models.CycleResult) error {
	for _, outcome := range outcomes {
		switch outcome.kind {
		case outcomeSkipped:

		case outcomeSynced:
			if err := e.applySynced(ctx, outcome); err != nil {
				if errors.Is(err, store.ErrStateMismatch) {
					// The entity changed underneath the cycle; its new state
					// wins and the download is dropped.
					continue
				}
				return err
			}
			result.Synced++

		case outcomeConflicted:
			if err := e.applyConflicted(ctx, outcome); err != nil {
				return err
			}
			result.Conflicted++

		case outcomeTransient:
			if outcome.item.Attempts+1 >= e.maxAttempts {
				if err := e.queue.MarkFailedPermanently(ctx, outcome.item, failureReason(outcome.err)); err != nil {
					return err
				}
				result.FailedPermanently++
			} else {
				if err := e.queue.Requeue(ctx, outcome.item); err != nil {
					return err
				}
				result.Failed++
			}

		case outcomePermanent:
			if err := e.queue.MarkFailedPermanently(ctx, outcome.item, failureReason(outcome.err)); err != nil {
				return err
			}
			result.FailedPermanently++
		}
	}

	return nil
}

func (e *syncEngine) applySynced(ctx context.Context, outcome itemOutcome) error {
	ref := outcome.item.Ref

	switch outcome.item.Direction {
	case models.DirectionUpload:
		if err := e.entities.MarkClean(ctx, ref, outcome.putResult); err != nil {
			return fmt.Errorf("mark %s clean after upload: %w", ref.Key(), err)
		}

	case models.DirectionDownload:
		if !outcome.entityExists {
			modifiedAt := time.Now().UTC()
			if outcome.remote.RemoteModifiedAt != nil {
				modifiedAt = *outcome.remote.RemoteModifiedAt
			}
			entity := models.SyncableEntity{
				Ref:              ref,
				Payload:          outcome.remote.Payload,
				LocalModifiedAt:  modifiedAt,
				RemoteModifiedAt: outcome.remote.RemoteModifiedAt,
				SyncState:        models.StateClean,
			}
			if err := e.entities.Save(ctx, entity); err != nil {
				return fmt.Errorf("save downloaded %s: %w", ref.Key(), err)
			}
			return nil
		}

		if err := e.entities.ApplyRemote(ctx, ref, outcome.remote); err != nil {
			if errors.Is(err, store.ErrStateMismatch) {
				return err
			}
			return fmt.Errorf("apply downloaded %s: %w", ref.Key(), err)
		}
	}

	return nil
}

// applyConflicted retains both snapshots, registers the conflict, and lets
// the resolver try an automatic decision in the same cycle.
func (e *syncEngine) applyConflicted(ctx context.Context, outcome itemOutcome) error {
	log := logger.FromContext(ctx)
	ref := outcome.item.Ref

	if err := e.entities.MarkConflicted(ctx, ref, outcome.remote); err != nil {
		return fmt.Errorf("mark %s conflicted: %w", ref.Key(), err)
	}

	remoteModified := time.Now().UTC()
	if outcome.remote.RemoteModifiedAt != nil {
		remoteModified = *outcome.remote.RemoteModifiedAt
	}

	conflict := models.Conflict{
		ID:               uuid.NewString(),
		Ref:              ref,
		LocalSnapshot:    outcome.entity.Payload,
		RemoteSnapshot:   outcome.remote.Payload,
		LocalModifiedAt:  outcome.entity.LocalModifiedAt,
		RemoteModifiedAt: remoteModified,
		DetectedAt:       time.Now().UTC(),
		Strategy:         models.ResolutionPending,
	}

	if resolution := e.resolver.AutoResolve(conflict); resolution != models.ResolutionPending {
		if err := e.resolver.Apply(ctx, conflict, resolution, nil); err != nil {
			log.Err(err).
				Str("func", "syncEngine.applyConflicted").
				Str("entity", ref.Key()).
				Msg("automatic resolution failed, conflict left pending")
		} else {
			resolvedAt := time.Now().UTC()
			conflict.Strategy = resolution
			conflict.ResolvedAt = &resolvedAt
			e.metrics.AddResolvedConflict()
		}
	}

	e.conflicts.Add(conflict)

	log.Warn().
		Str("func", "syncEngine.applyConflicted").
		Str("entity", ref.Key()).
		Str("conflict_id", conflict.ID).
		Str("resolution", string(conflict.Strategy)).
		Msg("conflict detected")

	return nil
}

// remoteChanged reports whether the backend's copy moved past the version
// this client last synced against.
func remoteChanged(entity models.SyncableEntity, remote models.RemoteEntity) bool {
	if remote.RemoteModifiedAt == nil {
		return false
	}
	if entity.RemoteModifiedAt == nil {
		// Backend has a copy we never synced against.
		return true
	}
	return !remote.RemoteModifiedAt.Equal(*entity.RemoteModifiedAt)
}

func failureReason(err error) string {
	if err == nil {
		return "unknown failure"
	}
	return err.Error()
}
