// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brightpath/studysync/internal/adapter"
	"github.com/brightpath/studysync/internal/app"
	"github.com/brightpath/studysync/internal/auth"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

// Session is the per-sign-in owner of all sync state: metrics, the conflict
// set and the scheduler live exactly as long as the session. Constructing a
// new Session at every sign-in guarantees no state leaks between users.
type Session struct {
	identity  auth.Identity
	engine    SyncEngine
	scheduler SyncScheduler
	queue     SyncQueue
	conflicts *ConflictSet
	resolver  ConflictResolver
	metrics   *MetricsAggregator
	logger    *logger.Logger

	mu                 sync.Mutex
	online             bool
	syncing            bool
	lastSuccessfulSync *time.Time
	lastError          string
	closed             bool

	subMu     sync.Mutex
	subs      map[int]chan models.SessionSnapshot
	nextSubID int
}

// engineFunc adapts a function to the SyncEngine interface so the session
// can interpose its own bookkeeping between the scheduler and the engine.
type engineFunc func(ctx context.Context) (models.CycleResult, error)

func (f engineFunc) RunCycle(ctx context.Context) (models.CycleResult, error) { return f(ctx) }

// NewSession wires a session for the signed-in user. The session starts
// online with an idle scheduler; call Start to begin syncing.
func NewSession(
	identity auth.Identity,
	engine SyncEngine,
	queue SyncQueue,
	conflicts *ConflictSet,
	resolver ConflictResolver,
	metrics *MetricsAggregator,
	syncInterval time.Duration,
	logger *logger.Logger,
) *Session {
	s := &Session{
		identity:  identity,
		engine:    engine,
		queue:     queue,
		conflicts: conflicts,
		resolver:  resolver,
		metrics:   metrics,
		logger:    logger,
		online:    true,
		subs:      make(map[int]chan models.SessionSnapshot),
	}
	s.scheduler = NewSyncScheduler(engineFunc(s.runManagedCycle), syncInterval, nil, logger)
	return s
}

// Start launches the scheduler loop. The loop lives until Close or until ctx
// is cancelled.
func (s *Session) Start(ctx context.Context) {
	s.scheduler.Start(ctx)
	s.publish(ctx)
}

// RequestSync asks for an immediate cycle. No-op after Close.
func (s *Session) RequestSync() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.scheduler.RequestSync()
}

// SetOnline records a connectivity change. Going offline pauses the
// scheduler; coming back online resumes it, running one coalesced deferred
// cycle if any trigger arrived while offline.
func (s *Session) SetOnline(online bool) {
	s.mu.Lock()
	if s.closed || s.online == online {
		s.mu.Unlock()
		return
	}
	s.online = online
	s.mu.Unlock()

	if online {
		s.scheduler.Resume()
	} else {
		s.scheduler.Pause()
	}
	s.publish(context.Background())
}

// Subscribe returns a channel receiving a SessionSnapshot on every state
// change plus an unsubscribe function. Delivery is non-blocking latest-wins:
// a slow consumer only ever misses intermediate snapshots, never the newest.
func (s *Session) Subscribe() (<-chan models.SessionSnapshot, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan models.SessionSnapshot, 1)
	s.subs[id] = ch

	unsubscribe := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// PendingConflicts lists unresolved conflicts, oldest first.
func (s *Session) PendingConflicts() []models.Conflict {
	return s.conflicts.Pending()
}

// ResolveConflict applies a manual resolution to a pending conflict. Local
// and custom outcomes re-enqueue the entity and request a sync so the
// decision propagates immediately.
func (s *Session) ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution, custom []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	conflict, ok := s.conflicts.Get(conflictID)
	if !ok || conflict.ResolvedAt != nil {
		return fmt.Errorf("%w: %q", ErrConflictNotFound, conflictID)
	}

	if err := s.resolver.Apply(ctx, conflict, resolution, custom); err != nil {
		return err
	}

	s.conflicts.MarkResolved(conflictID, resolution, time.Now().UTC())
	s.metrics.AddResolvedConflict()
	s.metrics.SetPendingConflicts(s.conflicts.PendingCount())

	if resolution == models.ResolutionLocal || resolution == models.ResolutionCustom {
		s.RequestSync()
	}

	s.publish(ctx)
	return nil
}

// Snapshot assembles the current aggregated session state.
func (s *Session) Snapshot(ctx context.Context) models.SessionSnapshot {
	depth, err := s.queue.Depth(ctx)
	if err != nil {
		s.logger.Err(err).
			Str("func", "Session.Snapshot").
			Msg("failed to read queue depth for snapshot")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionSnapshot{
		UserID:             s.identity.UserID,
		Online:             s.online,
		Syncing:            s.syncing,
		LastSuccessfulSync: s.lastSuccessfulSync,
		LastError:          s.lastError,
		QueueDepth:         depth,
		Metrics:            s.metrics.Snapshot(),
	}
}

// sessionDiagnostics is the export shape produced by ExportDiagnostics.
type sessionDiagnostics struct {
	ExportedAt time.Time               `json:"exported_at"`
	Snapshot   models.SessionSnapshot  `json:"snapshot"`
	Conflicts  []models.Conflict       `json:"conflicts,omitempty"`
	Failed     []models.FailedItem     `json:"failed_items,omitempty"`
	Scheduler  SchedulerState          `json:"scheduler_state"`
}

// ExportDiagnostics serializes the session state, the full conflict set and
// the permanently-failed items into an indented JSON document for support.
func (s *Session) ExportDiagnostics(ctx context.Context) (string, error) {
	failed, err := s.queue.FailedItems(ctx)
	if err != nil {
		return "", fmt.Errorf("export diagnostics: %w", err)
	}

	diagnostics := sessionDiagnostics{
		ExportedAt: time.Now().UTC(),
		Snapshot:   s.Snapshot(ctx),
		Conflicts:  s.conflicts.All(),
		Failed:     failed,
		Scheduler:  s.scheduler.State(),
	}

	out, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	return string(out), nil
}

// Close stops the scheduler, clears the in-memory conflict set and closes all
// subscriber channels. The queue itself is durable and survives for the next
// session of the same user. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.scheduler.Stop()
	s.conflicts.Clear()

	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()

	s.logger.Info().
		Str("func", "Session.Close").
		Str("user_id", s.identity.UserID).
		Msg("session closed")
}

// runManagedCycle wraps the engine cycle with session bookkeeping: the
// syncing flag, the last-sync/last-error fields and subscriber notification.
func (s *Session) runManagedCycle(ctx context.Context) (models.CycleResult, error) {
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()
	s.publish(ctx)

	result, err := s.engine.RunCycle(ctx)

	s.mu.Lock()
	s.syncing = false
	switch {
	case err != nil:
		s.lastError = userFacingError(err)
	case result.FailedPermanently > 0:
		now := time.Now().UTC()
		s.lastSuccessfulSync = &now
		s.lastError = fmt.Sprintf(app.MsgItemsNeedAttention, result.FailedPermanently)
	default:
		now := time.Now().UTC()
		s.lastSuccessfulSync = &now
		s.lastError = ""
	}
	s.mu.Unlock()

	s.publish(ctx)
	return result, err
}

// publish fans the current snapshot out to all subscribers without blocking.
// When a subscriber's buffer is full its stale snapshot is replaced.
func (s *Session) publish(ctx context.Context) {
	snapshot := s.Snapshot(ctx)

	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// userFacingError maps internal errors onto the messages surfaced in the
// session snapshot. Raw backend errors never cross this boundary.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, adapter.ErrUnauthorized):
		return app.MsgSessionExpired
	case errors.Is(err, adapter.ErrTransientBackend):
		return app.MsgBackendUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return app.MsgSyncInterrupted
	default:
		return app.MsgSyncFailed
	}
}
