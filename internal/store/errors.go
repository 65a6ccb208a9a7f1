package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEntityNotFound is returned when a query targets an entity
	// (identified by kind and id) that does not exist in the local store.
	ErrEntityNotFound = errors.New("entity was not found")

	// ErrStateMismatch is returned when a guarded sync-state transition
	// affects zero rows: either the entity is gone or another writer moved
	// it to a different state first. The caller must re-read and decide.
	ErrStateMismatch = errors.New("entity sync state mismatch")

	// ErrIllegalTransition is returned when a requested sync-state change is
	// not part of the legal transition set. This is a programming error on
	// the caller's side, not a data race.
	ErrIllegalTransition = errors.New("illegal sync state transition")

	// ErrQueueItemNotFound is returned when an operation targets a queue row
	// that no longer exists (already drained or never enqueued).
	ErrQueueItemNotFound = errors.New("queue item was not found")

	// ErrLegacyRecordNotFound is returned when a legacy record lookup by key
	// produces no row.
	ErrLegacyRecordNotFound = errors.New("legacy record was not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
