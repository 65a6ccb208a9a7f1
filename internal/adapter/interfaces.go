package adapter

import (
	"context"

	"github.com/brightpath/studysync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Backend is the remote store consumed by the sync engine. Both calls are
// idempotent on retry; each is bounded by the configured per-call timeout.
type Backend interface {
	// GetEntity returns the backend's current copy of the entity, or
	// ErrEntityNotFound if the backend has never seen it.
	GetEntity(ctx context.Context, ref models.EntityRef) (models.RemoteEntity, error)

	// PutEntity uploads a payload and returns the server-assigned
	// modification timestamp.
	PutEntity(ctx context.Context, ref models.EntityRef, payload []byte) (models.PutResult, error)

	// SetToken installs the session token used to authenticate requests.
	SetToken(token string)
}
