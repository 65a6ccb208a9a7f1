package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

type queueRepository struct {
	*DB
	logger *logger.Logger
}

func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *queueRepository) Upsert(ctx context.Context, item models.QueueItem) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, upsertQueueItem,
		item.Ref.Kind,
		item.Ref.ID,
		item.Direction,
		item.Priority.Weight(),
		item.Payload,
		item.EnqueuedAt,
		item.Attempts,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Upsert").
			Str("entity", item.Ref.Key()).
			Str("direction", string(item.Direction)).
			Msg("failed to execute upsert for queue item")
		return fmt.Errorf("failed to upsert queue item (ref=%s): %w", item.Ref.Key(), err)
	}

	return nil
}

// Drain selects and deletes in one transaction so a concurrent Upsert can
// never observe an item as both returned and still queued.
func (r *queueRepository) Drain(ctx context.Context, direction models.Direction, maxBatch int) ([]models.QueueItem, error) {
	log := logger.FromContext(ctx)

	if maxBatch <= 0 {
		return nil, nil
	}

	query, args, err := sq.Select("kind", "id", "direction", "priority", "payload", "enqueued_at", "attempts").
		From("sync_queue").
		Where(sq.Eq{"direction": direction}).
		Where("failed_at IS NULL").
		OrderBy("priority DESC", "enqueued_at ASC", "rowid ASC").
		Limit(uint64(maxBatch)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Drain").
			Msg("failed to begin drain transaction")
		return nil, fmt.Errorf("%w: %v", ErrBeginningTransaction, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Drain").
			Msg("failed to query queue items")
		return nil, fmt.Errorf("failed to query queue items: %w", err)
	}

	var items []models.QueueItem
	for rows.Next() {
		var item models.QueueItem
		var weight int

		scanErr := rows.Scan(
			&item.Ref.Kind,
			&item.Ref.ID,
			&item.Direction,
			&weight,
			&item.Payload,
			&item.EnqueuedAt,
			&item.Attempts,
		)
		if scanErr != nil {
			rows.Close()
			log.Err(scanErr).
				Str("func", "queueRepository.Drain").
				Msg("failed to scan queue item row")
			return nil, fmt.Errorf("failed to scan queue item row: %w", scanErr)
		}
		item.Priority = models.PriorityFromWeight(weight)
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating queue rows: %w", rowsErr)
	}
	rows.Close()

	for _, item := range items {
		if _, err = tx.ExecContext(ctx, deleteQueueItem, item.Ref.Kind, item.Ref.ID, item.Direction); err != nil {
			log.Err(err).
				Str("func", "queueRepository.Drain").
				Str("entity", item.Ref.Key()).
				Msg("failed to delete drained queue item")
			return nil, fmt.Errorf("failed to delete drained queue item (ref=%s): %w", item.Ref.Key(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Drain").
			Msg("failed to commit drain transaction")
		return nil, fmt.Errorf("%w: %v", ErrCommitingTransaction, err)
	}

	return items, nil
}

func (r *queueRepository) Depth(ctx context.Context) (models.QueueDepth, error) {
	log := logger.FromContext(ctx)

	var depth models.QueueDepth

	rows, err := r.DB.QueryContext(ctx, countQueueByDirection)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Depth").
			Msg("failed to count queue items by direction")
		return models.QueueDepth{}, fmt.Errorf("failed to count queue items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var direction models.Direction
		var count int
		if scanErr := rows.Scan(&direction, &count); scanErr != nil {
			return models.QueueDepth{}, fmt.Errorf("failed to scan queue depth row: %w", scanErr)
		}
		switch direction {
		case models.DirectionUpload:
			depth.Uploads = count
		case models.DirectionDownload:
			depth.Downloads = count
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return models.QueueDepth{}, fmt.Errorf("error iterating queue depth rows: %w", rowsErr)
	}

	row := r.DB.QueryRowContext(ctx, countFailedQueueItems)
	if err = row.Scan(&depth.Failed); err != nil {
		return models.QueueDepth{}, fmt.Errorf("failed to count failed queue items: %w", err)
	}

	return depth, nil
}

func (r *queueRepository) MarkFailed(ctx context.Context, item models.QueueItem, reason string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, markQueueItemFailed,
		item.Ref.Kind,
		item.Ref.ID,
		item.Direction,
		item.Priority.Weight(),
		item.Payload,
		item.EnqueuedAt,
		item.Attempts,
		time.Now().UTC(),
		reason,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.MarkFailed").
			Str("entity", item.Ref.Key()).
			Msg("failed to park queue item in failed bucket")
		return fmt.Errorf("failed to mark queue item failed (ref=%s): %w", item.Ref.Key(), err)
	}

	return nil
}

func (r *queueRepository) FailedItems(ctx context.Context) ([]models.FailedItem, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getFailedQueueItems)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.FailedItems").
			Msg("failed to query failed queue items")
		return nil, fmt.Errorf("failed to query failed queue items: %w", err)
	}
	defer rows.Close()

	var items []models.FailedItem
	for rows.Next() {
		var item models.FailedItem
		var weight int
		var failedAt sql.NullTime
		var failure sql.NullString

		scanErr := rows.Scan(
			&item.Ref.Kind,
			&item.Ref.ID,
			&item.Direction,
			&weight,
			&item.Payload,
			&item.EnqueuedAt,
			&item.Attempts,
			&failedAt,
			&failure,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan failed queue item row: %w", scanErr)
		}

		item.Priority = models.PriorityFromWeight(weight)
		if failedAt.Valid {
			item.FailedAt = failedAt.Time
		}
		item.Failure = failure.String
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating failed queue rows: %w", rowsErr)
	}

	return items, nil
}
