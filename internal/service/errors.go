package service

import "errors"

var (
	// ErrInvalidEntityReference means the ref is missing its kind or id.
	ErrInvalidEntityReference = errors.New("invalid entity reference")

	// ErrInvalidDirection means the queue direction is neither upload nor
	// download.
	ErrInvalidDirection = errors.New("invalid queue direction")

	// ErrConflictNotFound means no pending conflict exists under the given id.
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrInvalidResolution means the chosen resolution cannot be applied
	// (e.g. resolving with "pending").
	ErrInvalidResolution = errors.New("invalid conflict resolution")

	// ErrCustomPayloadRequired means a custom resolution was requested
	// without the payload that should become canonical.
	ErrCustomPayloadRequired = errors.New("custom resolution requires a payload")

	// ErrSessionClosed means the session was already torn down at sign-out.
	ErrSessionClosed = errors.New("session closed")
)
