package models

import "time"

// RemoteEntity is the backend's current copy of an entity as returned by the
// read-by-id call.
type RemoteEntity struct {
	Payload          []byte     `json:"payload"`
	RemoteModifiedAt *time.Time `json:"remote_modified_at,omitempty"`
}

// PutResult carries the server-assigned modification timestamp after a
// successful write.
type PutResult struct {
	RemoteModifiedAt time.Time `json:"remote_modified_at"`
}
