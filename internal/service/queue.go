// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
	"github.com/brightpath/studysync/models"
)

type syncQueue struct {
	repo     store.QueueRepository
	entities store.EntityRepository
	logger   *logger.Logger
}

// NewSyncQueue builds the durable mutation queue on top of the queue
// repository. The entity repository is used to flag entities whose download
// was queued.
func NewSyncQueue(repo store.QueueRepository, entities store.EntityRepository, logger *logger.Logger) SyncQueue {
	return &syncQueue{
		repo:     repo,
		entities: entities,
		logger:   logger,
	}
}

func (q *syncQueue) Enqueue(ctx context.Context, ref models.EntityRef, direction models.Direction, payload []byte, priority models.Priority) error {
	log := logger.FromContext(ctx)

	if !ref.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntityReference, ref.Key())
	}
	if direction != models.DirectionUpload && direction != models.DirectionDownload {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}

	item := models.QueueItem{
		Ref:        ref,
		Direction:  direction,
		Priority:   priority,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
		Attempts:   0,
	}

	if err := q.repo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("enqueue %s %s: %w", direction, ref.Key(), err)
	}

	if direction == models.DirectionDownload {
		err := q.entities.SetState(ctx, ref, models.StateClean, models.StatePendingDownload)
		switch {
		case errors.Is(err, store.ErrStateMismatch):
			// No clean local copy: the entity is new here, mid-edit or
			// conflicted. The engine decides what the download means for it.
		case err != nil:
			return fmt.Errorf("flag %s pending download: %w", ref.Key(), err)
		}
	}

	log.Debug().
		Str("func", "syncQueue.Enqueue").
		Str("entity", ref.Key()).
		Str("direction", string(direction)).
		Str("priority", string(priority)).
		Msg("mutation enqueued")

	return nil
}

func (q *syncQueue) Drain(ctx context.Context, direction models.Direction, maxBatch int) ([]models.QueueItem, error) {
	items, err := q.repo.Drain(ctx, direction, maxBatch)
	if err != nil {
		return nil, fmt.Errorf("drain %s queue: %w", direction, err)
	}
	return items, nil
}

func (q *syncQueue) Depth(ctx context.Context) (models.QueueDepth, error) {
	depth, err := q.repo.Depth(ctx)
	if err != nil {
		return models.QueueDepth{}, fmt.Errorf("queue depth: %w", err)
	}
	return depth, nil
}

// Requeue puts a drained item back with attempts+1. The repository keeps the
// item's original enqueued_at, so retried items do not lose their place.
func (q *syncQueue) Requeue(ctx context.Context, item models.QueueItem) error {
	item.Attempts++

	if err := q.repo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("requeue %s %s: %w", item.Direction, item.Ref.Key(), err)
	}
	return nil
}

func (q *syncQueue) MarkFailedPermanently(ctx context.Context, item models.QueueItem, reason string) error {
	log := logger.FromContext(ctx)

	if err := q.repo.MarkFailed(ctx, item, reason); err != nil {
		return fmt.Errorf("mark %s %s failed: %w", item.Direction, item.Ref.Key(), err)
	}

	log.Warn().
		Str("func", "syncQueue.MarkFailedPermanently").
		Str("entity", item.Ref.Key()).
		Str("direction", string(item.Direction)).
		Int("attempts", item.Attempts).
		Str("reason", reason).
		Msg("queue item moved to failed bucket")

	return nil
}

func (q *syncQueue) FailedItems(ctx context.Context) ([]models.FailedItem, error) {
	items, err := q.repo.FailedItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list failed queue items: %w", err)
	}
	return items, nil
}
