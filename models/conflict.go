package models

import (
	"encoding/json"
	"time"
)

// Resolution names the outcome chosen for a conflict.
type Resolution string

const (
	// ResolutionLocal keeps the local payload and schedules a re-upload.
	ResolutionLocal Resolution = "local"
	// ResolutionRemote adopts the remote payload into the local store.
	ResolutionRemote Resolution = "remote"
	// ResolutionCustom replaces both sides with a caller-supplied payload.
	ResolutionCustom Resolution = "custom"
	// ResolutionPending means no automatic decision could be made; the
	// conflict stays in the pending set until resolved manually.
	ResolutionPending Resolution = "pending"
)

// Conflict records a detected divergence between the local and remote copies
// of one entity: both sides were modified since the last common sync point.
// Both payload snapshots are retained until the conflict is resolved.
type Conflict struct {
	ID               string     `json:"id"`
	Ref              EntityRef  `json:"ref"`
	LocalSnapshot    []byte     `json:"local_snapshot"`
	RemoteSnapshot   []byte     `json:"remote_snapshot"`
	LocalModifiedAt  time.Time  `json:"local_modified_at"`
	RemoteModifiedAt time.Time  `json:"remote_modified_at"`
	DetectedAt       time.Time  `json:"detected_at"`
	Strategy         Resolution `json:"strategy"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// conversationMeta is the slice of a conversation payload the resolver needs.
// Everything else in the payload stays opaque.
type conversationMeta struct {
	MessageCount int `json:"message_count"`
}

// ConversationMessageCount extracts the message counter from a conversation
// payload. The second return value is false when the payload cannot be
// parsed, in which case the caller must not trust the count.
func ConversationMessageCount(payload []byte) (int, bool) {
	var meta conversationMeta
	if err := json.Unmarshal(payload, &meta); err != nil {
		return 0, false
	}
	return meta.MessageCount, true
}
