// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package store

const (
	upsertEntity = `
		INSERT INTO entities (
			kind,
			id,
			payload,
			local_modified_at,
			remote_modified_at,
			sync_state,
			remote_snapshot
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, id) DO UPDATE SET
			payload            = excluded.payload,
			local_modified_at  = excluded.local_modified_at,
			remote_modified_at = excluded.remote_modified_at,
			sync_state         = excluded.sync_state,
			remote_snapshot    = excluded.remote_snapshot;`

	getEntity = `
		SELECT
			kind,
			id,
			payload,
			local_modified_at,
			remote_modified_at,
			sync_state,
			remote_snapshot
		FROM entities
		WHERE kind = $1 AND id = $2;`

	getEntitiesByState = `
		SELECT
			kind,
			id,
			payload,
			local_modified_at,
			remote_modified_at,
			sync_state,
			remote_snapshot
		FROM entities
		WHERE sync_state = $1;`

	// Guarded transition: only fires when the entity is still in the state
	// the caller observed.
	setEntityState = `
		UPDATE entities
		SET sync_state = $1
		WHERE kind = $2 AND id = $3 AND sync_state = $4;`

	markEntityClean = `
		UPDATE entities SET
			sync_state         = 'clean',
			remote_modified_at = $1,
			remote_snapshot    = NULL
		WHERE kind = $2 AND id = $3;`

	markEntityConflicted = `
		UPDATE entities SET
			sync_state         = 'conflicted',
			remote_snapshot    = $1,
			remote_modified_at = $2
		WHERE kind = $3 AND id = $4;`

	// Remote payloads must never clobber an unpushed local edit or an open
	// conflict; the state guard makes the write a no-op in those cases.
	applyRemotePayload = `
		UPDATE entities SET
			payload            = $1,
			remote_modified_at = $2,
			sync_state         = 'clean',
			remote_snapshot    = NULL
		WHERE kind = $3 AND id = $4
		  AND sync_state NOT IN ('pendingUpload', 'conflicted');`

	// Conflict resolutions overwrite from the conflicted state only.
	applyResolvedPayload = `
		UPDATE entities SET
			payload            = $1,
			local_modified_at  = $2,
			remote_modified_at = $3,
			sync_state         = $4,
			remote_snapshot    = NULL
		WHERE kind = $5 AND id = $6 AND sync_state = 'conflicted';`
)

const (
	// Re-enqueueing replaces the payload but keeps the original enqueued_at
	// so a frequently edited entity keeps its place in the drain order.
	upsertQueueItem = `
		INSERT INTO sync_queue (
			kind,
			id,
			direction,
			priority,
			payload,
			enqueued_at,
			attempts
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, id, direction) DO UPDATE SET
			priority  = excluded.priority,
			payload   = excluded.payload,
			attempts  = excluded.attempts,
			failed_at = NULL,
			failure   = NULL;`

	deleteQueueItem = `
		DELETE FROM sync_queue
		WHERE kind = $1 AND id = $2 AND direction = $3;`

	countQueueByDirection = `
		SELECT direction, COUNT(*)
		FROM sync_queue
		WHERE failed_at IS NULL
		GROUP BY direction;`

	countFailedQueueItems = `
		SELECT COUNT(*) FROM sync_queue WHERE failed_at IS NOT NULL;`

	markQueueItemFailed = `
		INSERT INTO sync_queue (
			kind,
			id,
			direction,
			priority,
			payload,
			enqueued_at,
			attempts,
			failed_at,
			failure
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (kind, id, direction) DO UPDATE SET
			attempts  = excluded.attempts,
			failed_at = excluded.failed_at,
			failure   = excluded.failure;`

	getFailedQueueItems = `
		SELECT
			kind,
			id,
			direction,
			priority,
			payload,
			enqueued_at,
			attempts,
			failed_at,
			failure
		FROM sync_queue
		WHERE failed_at IS NOT NULL
		ORDER BY failed_at ASC;`
)

const (
	saveLegacyRecord = `
		INSERT INTO legacy_records (legacy_key, kind, payload, modified_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (legacy_key) DO UPDATE SET
			kind        = excluded.kind,
			payload     = excluded.payload,
			modified_at = excluded.modified_at;`

	listUnmigratedLegacy = `
		SELECT l.legacy_key, l.kind, l.payload, l.modified_at
		FROM legacy_records l
		LEFT JOIN migrated_keys m ON m.legacy_key = l.legacy_key
		WHERE m.legacy_key IS NULL
		ORDER BY l.legacy_key ASC;`

	countUnmigratedLegacy = `
		SELECT COUNT(*)
		FROM legacy_records l
		LEFT JOIN migrated_keys m ON m.legacy_key = l.legacy_key
		WHERE m.legacy_key IS NULL;`

	markKeyMigrated = `
		INSERT INTO migrated_keys (legacy_key, migrated_at)
		VALUES ($1, $2)
		ON CONFLICT (legacy_key) DO NOTHING;`

	deleteLegacyRecord = `
		DELETE FROM legacy_records WHERE legacy_key = $1;`
)
