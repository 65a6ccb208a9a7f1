package adapter

import "errors"

// Backend error taxonomy. The engine retries ErrTransientBackend up to the
// attempt ceiling; ErrPermanentBackend is surfaced immediately and never
// retried. Matched with [errors.Is].
var (
	// ErrUnauthorized means the session token was rejected by the backend.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrEntityNotFound means the backend has no copy of the entity yet.
	// For an upload this is the normal first-push case, not a failure.
	ErrEntityNotFound = errors.New("remote entity not found")

	// ErrTransientBackend covers network failures, timeouts and
	// 5xx-equivalent responses. Safe to retry; both backend calls are
	// idempotent.
	ErrTransientBackend = errors.New("transient backend error")

	// ErrPermanentBackend covers 4xx-equivalent validation responses.
	// Retrying cannot succeed.
	ErrPermanentBackend = errors.New("permanent backend error")
)
