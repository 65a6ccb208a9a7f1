// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package models

import (
	"fmt"
	"time"
)

// EntityKind identifies one of the synchronizable record families of the
// platform. The engine treats payloads as opaque; the kind only matters for
// keying storage and for picking a conflict-resolution strategy.
type EntityKind string

const (
	KindProfile      EntityKind = "profile"
	KindConversation EntityKind = "conversation"
)

// SyncState describes where an entity stands relative to the backend.
type SyncState string

const (
	// StateClean means local and remote copies agree as of the last sync.
	StateClean SyncState = "clean"
	// StatePendingUpload means a local edit has not been pushed yet.
	StatePendingUpload SyncState = "pendingUpload"
	// StatePendingDownload means a newer remote copy has not been pulled yet.
	StatePendingDownload SyncState = "pendingDownload"
	// StateConflicted means local and remote diverged; both snapshots are
	// retained until a resolution is applied.
	StateConflicted SyncState = "conflicted"
)

// legalTransitions enumerates every allowed SyncState move. Any transition
// absent from this table is a programming error and is rejected by the
// entity repository.
var legalTransitions = map[SyncState][]SyncState{
	StateClean:           {StatePendingUpload, StatePendingDownload},
	StatePendingUpload:   {StateClean, StateConflicted},
	StatePendingDownload: {StateClean, StateConflicted},
	StateConflicted:      {StateClean},
}

// CanTransition reports whether moving an entity from one sync state to
// another is legal. A transition to the same state is always allowed
// (idempotent writes).
func CanTransition(from, to SyncState) bool {
	if from == to {
		return true
	}
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EntityRef identifies a single synchronizable record by kind and id. The id
// is stable across the local store and the backend.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   string     `json:"id"`
}

// Valid reports whether both parts of the reference are present.
func (r EntityRef) Valid() bool {
	return r.Kind != "" && r.ID != ""
}

// Key returns the persistence key for the reference in "kind:id" form.
func (r EntityRef) Key() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

func (r EntityRef) String() string { return r.Key() }

// SyncableEntity is one versioned record held in the local store. Payload is
// opaque to the engine. RemoteModifiedAt is nil until the entity has been
// synced at least once. While the entity is conflicted, RemoteSnapshot keeps
// the diverged remote payload alongside the local one.
type SyncableEntity struct {
	Ref              EntityRef  `json:"ref"`
	Payload          []byte     `json:"payload"`
	LocalModifiedAt  time.Time  `json:"local_modified_at"`
	RemoteModifiedAt *time.Time `json:"remote_modified_at,omitempty"`
	SyncState        SyncState  `json:"sync_state"`
	RemoteSnapshot   []byte     `json:"remote_snapshot,omitempty"`
}
