package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath/studysync/internal/store"
	"github.com/brightpath/studysync/models"
)

// ConflictSet is the session's in-memory registry of detected conflicts.
// Resolved conflicts stay in the set with ResolvedAt stamped so diagnostics
// can list them; the set is cleared when the session closes.
type ConflictSet struct {
	mu        sync.RWMutex
	conflicts map[string]models.Conflict
	resolved  int64
}

func NewConflictSet() *ConflictSet {
	return &ConflictSet{conflicts: make(map[string]models.Conflict)}
}

// Add registers a detected conflict under its id.
func (s *ConflictSet) Add(conflict models.Conflict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conflict.ResolvedAt != nil {
		s.resolved++
	}
	s.conflicts[conflict.ID] = conflict
}

// Get returns the conflict under the id, resolved or not.
func (s *ConflictSet) Get(id string) (models.Conflict, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conflict, ok := s.conflicts[id]
	return conflict, ok
}

// MarkResolved stamps a conflict with its resolution. Returns false when the
// id is unknown or the conflict was already resolved.
func (s *ConflictSet) MarkResolved(id string, resolution models.Resolution, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflict, ok := s.conflicts[id]
	if !ok || conflict.ResolvedAt != nil {
		return false
	}

	conflict.Strategy = resolution
	conflict.ResolvedAt = &at
	s.conflicts[id] = conflict
	s.resolved++
	return true
}

// Pending lists unresolved conflicts, oldest detection first.
func (s *ConflictSet) Pending() []models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]models.Conflict, 0, len(s.conflicts))
	for _, conflict := range s.conflicts {
		if conflict.ResolvedAt == nil {
			pending = append(pending, conflict)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].DetectedAt.Before(pending[j].DetectedAt)
	})
	return pending
}

// All lists every conflict in the set, oldest detection first.
func (s *ConflictSet) All() []models.Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Conflict, 0, len(s.conflicts))
	for _, conflict := range s.conflicts {
		all = append(all, conflict)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].DetectedAt.Before(all[j].DetectedAt)
	})
	return all
}

// PendingCount returns the number of unresolved conflicts.
func (s *ConflictSet) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, conflict := range s.conflicts {
		if conflict.ResolvedAt == nil {
			count++
		}
	}
	return count
}

// ResolvedCount returns how many conflicts were resolved over the session.
func (s *ConflictSet) ResolvedCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Clear drops all in-memory conflict state. Called on session close.
func (s *ConflictSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = make(map[string]models.Conflict)
	s.resolved = 0
}

// RestoreConflicts rebuilds the conflict set from entities a previous run left
// in the conflicted state, so pending conflicts survive a restart. Restored
// conflicts get fresh ids; only unresolved divergences persist, resolution
// history does not.
func RestoreConflicts(ctx context.Context, entities store.EntityRepository, conflicts *ConflictSet, metrics *MetricsAggregator) error {
	conflicted, err := entities.GetByState(ctx, models.StateConflicted)
	if err != nil {
		return fmt.Errorf("load conflicted entities: %w", err)
	}

	now := time.Now().UTC()
	for _, entity := range conflicted {
		remoteModified := entity.LocalModifiedAt
		if entity.RemoteModifiedAt != nil {
			remoteModified = *entity.RemoteModifiedAt
		}

		conflicts.Add(models.Conflict{
			ID:               uuid.NewString(),
			Ref:              entity.Ref,
			LocalSnapshot:    entity.Payload,
			RemoteSnapshot:   entity.RemoteSnapshot,
			LocalModifiedAt:  entity.LocalModifiedAt,
			RemoteModifiedAt: remoteModified,
			DetectedAt:       now,
			Strategy:         models.ResolutionPending,
		})
	}

	metrics.SetPendingConflicts(conflicts.PendingCount())
	return nil
}
