// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
	"github.com/brightpath/studysync/models"
)

// strategyFunc decides a resolution for one conflict. Strategies are pure;
// applying the decision is a separate step.
type strategyFunc func(conflict models.Conflict) models.Resolution

type conflictResolver struct {
	entities store.EntityRepository
	queue    SyncQueue
	logger   *logger.Logger

	freshnessWindow time.Duration
	strategies      map[models.EntityKind]strategyFunc
	defaultStrategy strategyFunc

	now func() time.Time
}

// NewConflictResolver builds the per-kind resolution strategy table.
// Unknown kinds fall through to the default row, which prefers the remote
// copy: the server's version is durable, an unrecognized local one may not be.
func NewConflictResolver(entities store.EntityRepository, queue SyncQueue, freshnessWindow time.Duration, logger *logger.Logger) ConflictResolver {
	if freshnessWindow <= 0 {
		freshnessWindow = config.DefaultFreshnessWindow
	}

	r := &conflictResolver{
		entities:        entities,
		queue:           queue,
		logger:          logger,
		freshnessWindow: freshnessWindow,
		now:             time.Now,
	}

	r.strategies = map[models.EntityKind]strategyFunc{
		models.KindConversation: r.resolveConversation,
		models.KindProfile:      r.resolveProfile,
	}
	r.defaultStrategy = func(models.Conflict) models.Resolution {
		return models.ResolutionRemote
	}

	return r
}

func (r *conflictResolver) AutoResolve(conflict models.Conflict) models.Resolution {
	strategy, ok := r.strategies[conflict.Ref.Kind]
	if !ok {
		strategy = r.defaultStrategy
	}
	return strategy(conflict)
}

// resolveConversation keeps the side with more messages. Ties go to the later
// modification, then to the remote copy. Unparseable payloads leave the
// conflict pending rather than guessing.
func (r *conflictResolver) resolveConversation(conflict models.Conflict) models.Resolution {
	localCount, localOK := models.ConversationMessageCount(conflict.LocalSnapshot)
	remoteCount, remoteOK := models.ConversationMessageCount(conflict.RemoteSnapshot)
	if !localOK || !remoteOK {
		return models.ResolutionPending
	}

	switch {
	case localCount > remoteCount:
		return models.ResolutionLocal
	case localCount < remoteCount:
		return models.ResolutionRemote
	case conflict.LocalModifiedAt.After(conflict.RemoteModifiedAt):
		return models.ResolutionLocal
	default:
		return models.ResolutionRemote
	}
}

// resolveProfile prefers the server copy unless the local edit is fresh
// enough to represent what the user just did on this device.
func (r *conflictResolver) resolveProfile(conflict models.Conflict) models.Resolution {
	if r.now().Sub(conflict.LocalModifiedAt) < r.freshnessWindow {
		return models.ResolutionLocal
	}
	return models.ResolutionRemote
}

// Apply writes the resolution through the conflicted-state guard of the
// entity repository. Local and custom outcomes become the canonical payload
// and are re-enqueued for upload at high priority.
func (r *conflictResolver) Apply(ctx context.Context, conflict models.Conflict, resolution models.Resolution, custom []byte) error {
	log := logger.FromContext(ctx)

	var resolved models.SyncableEntity
	reupload := false

	switch resolution {
	case models.ResolutionRemote:
		remoteModified := conflict.RemoteModifiedAt
		resolved = models.SyncableEntity{
			Ref:              conflict.Ref,
			Payload:          conflict.RemoteSnapshot,
			LocalModifiedAt:  conflict.RemoteModifiedAt,
			RemoteModifiedAt: &remoteModified,
			SyncState:        models.StateClean,
		}

	case models.ResolutionLocal:
		remoteModified := conflict.RemoteModifiedAt
		resolved = models.SyncableEntity{
			Ref:              conflict.Ref,
			Payload:          conflict.LocalSnapshot,
			LocalModifiedAt:  conflict.LocalModifiedAt,
			RemoteModifiedAt: &remoteModified,
			SyncState:        models.StatePendingUpload,
		}
		reupload = true

	case models.ResolutionCustom:
		if len(custom) == 0 {
			return ErrCustomPayloadRequired
		}
		remoteModified := conflict.RemoteModifiedAt
		resolved = models.SyncableEntity{
			Ref:              conflict.Ref,
			Payload:          custom,
			LocalModifiedAt:  r.now().UTC(),
			RemoteModifiedAt: &remoteModified,
			SyncState:        models.StatePendingUpload,
		}
		reupload = true

	default:
		return fmt.Errorf("%w: %q", ErrInvalidResolution, resolution)
	}

	if err := r.entities.ApplyResolution(ctx, conflict.Ref, resolved); err != nil {
		return fmt.Errorf("apply %s resolution for %s: %w", resolution, conflict.Ref.Key(), err)
	}

	if reupload {
		if err := r.queue.Enqueue(ctx, conflict.Ref, models.DirectionUpload, resolved.Payload, models.PriorityHigh); err != nil {
			return fmt.Errorf("enqueue resolved %s for upload: %w", conflict.Ref.Key(), err)
		}
	}

	log.Info().
		Str("func", "conflictResolver.Apply").
		Str("entity", conflict.Ref.Key()).
		Str("conflict_id", conflict.ID).
		Str("resolution", string(resolution)).
		Msg("conflict resolution applied")

	return nil
}
