package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

type entityRepository struct {
	*DB
	logger *logger.Logger
}

func NewEntityRepository(db *DB, logger *logger.Logger) EntityRepository {
	return &entityRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *entityRepository) Save(ctx context.Context, entity models.SyncableEntity) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, upsertEntity,
		entity.Ref.Kind,
		entity.Ref.ID,
		entity.Payload,
		entity.LocalModifiedAt,
		entity.RemoteModifiedAt,
		entity.SyncState,
		entity.RemoteSnapshot,
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.Save").
			Str("entity", entity.Ref.Key()).
			Msg("failed to execute upsert for entity")
		return fmt.Errorf("failed to save entity (ref=%s): %w", entity.Ref.Key(), err)
	}

	return nil
}

func (r *entityRepository) Get(ctx context.Context, ref models.EntityRef) (models.SyncableEntity, error) {
	log := logger.FromContext(ctx)

	row := r.DB.QueryRowContext(ctx, getEntity, ref.Kind, ref.ID)

	entity, err := scanEntity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncableEntity{}, ErrEntityNotFound
		}
		log.Err(err).
			Str("func", "entityRepository.Get").
			Str("entity", ref.Key()).
			Msg("failed to scan entity row")
		return models.SyncableEntity{}, fmt.Errorf("failed to scan entity row: %w", err)
	}

	return entity, nil
}

func (r *entityRepository) GetByState(ctx context.Context, state models.SyncState) ([]models.SyncableEntity, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, getEntitiesByState, state)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.GetByState").
			Str("state", string(state)).
			Msg("failed to execute query for entities by state")
		return nil, fmt.Errorf("failed to query entities by state: %w", err)
	}
	defer rows.Close()

	var entities []models.SyncableEntity
	for rows.Next() {
		entity, scanErr := scanEntity(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "entityRepository.GetByState").
				Msg("failed to scan entity row")
			return nil, fmt.Errorf("failed to scan entity row: %w", scanErr)
		}
		entities = append(entities, entity)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "entityRepository.GetByState").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating entity rows: %w", rowsErr)
	}

	return entities, nil
}

func (r *entityRepository) SetState(ctx context.Context, ref models.EntityRef, from, to models.SyncState) error {
	log := logger.FromContext(ctx)

	if !models.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	result, err := r.DB.ExecContext(ctx, setEntityState, to, ref.Kind, ref.ID, from)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.SetState").
			Str("entity", ref.Key()).
			Msg("failed to execute guarded state transition")
		return fmt.Errorf("failed to set entity state (ref=%s): %w", ref.Key(), err)
	}

	return r.requireRowsAffected(result, ref, "entityRepository.SetState")
}

func (r *entityRepository) MarkClean(ctx context.Context, ref models.EntityRef, put models.PutResult) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, markEntityClean, put.RemoteModifiedAt, ref.Kind, ref.ID)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.MarkClean").
			Str("entity", ref.Key()).
			Msg("failed to mark entity clean")
		return fmt.Errorf("failed to mark entity clean (ref=%s): %w", ref.Key(), err)
	}

	return r.requireRowsAffected(result, ref, "entityRepository.MarkClean")
}

func (r *entityRepository) MarkConflicted(ctx context.Context, ref models.EntityRef, remote models.RemoteEntity) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, markEntityConflicted,
		remote.Payload,
		remote.RemoteModifiedAt,
		ref.Kind,
		ref.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.MarkConflicted").
			Str("entity", ref.Key()).
			Msg("failed to mark entity conflicted")
		return fmt.Errorf("failed to mark entity conflicted (ref=%s): %w", ref.Key(), err)
	}

	return r.requireRowsAffected(result, ref, "entityRepository.MarkConflicted")
}

func (r *entityRepository) ApplyRemote(ctx context.Context, ref models.EntityRef, remote models.RemoteEntity) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, applyRemotePayload,
		remote.Payload,
		remote.RemoteModifiedAt,
		ref.Kind,
		ref.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ApplyRemote").
			Str("entity", ref.Key()).
			Msg("failed to apply remote payload")
		return fmt.Errorf("failed to apply remote payload (ref=%s): %w", ref.Key(), err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (ref=%s): %w", ref.Key(), err)
	}
	if rows == 0 {
		// Either the entity is missing or the guard blocked the write
		// because a local edit is pending.
		log.Warn().
			Str("func", "entityRepository.ApplyRemote").
			Str("entity", ref.Key()).
			Msg("remote payload not applied: state guard rejected the write")
		return ErrStateMismatch
	}

	return nil
}

func (r *entityRepository) ApplyResolution(ctx context.Context, ref models.EntityRef, resolved models.SyncableEntity) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, applyResolvedPayload,
		resolved.Payload,
		resolved.LocalModifiedAt,
		resolved.RemoteModifiedAt,
		resolved.SyncState,
		ref.Kind,
		ref.ID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "entityRepository.ApplyResolution").
			Str("entity", ref.Key()).
			Msg("failed to apply conflict resolution")
		return fmt.Errorf("failed to apply resolution (ref=%s): %w", ref.Key(), err)
	}

	return r.requireRowsAffected(result, ref, "entityRepository.ApplyResolution")
}

func (r *entityRepository) requireRowsAffected(result sql.Result, ref models.EntityRef, caller string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (ref=%s): %w", ref.Key(), err)
	}
	if rows == 0 {
		r.logger.Warn().
			Str("func", caller).
			Str("entity", ref.Key()).
			Msg("no rows affected: entity missing or state changed concurrently")
		return ErrStateMismatch
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (models.SyncableEntity, error) {
	var entity models.SyncableEntity
	var remoteModifiedAt sql.NullTime

	err := row.Scan(
		&entity.Ref.Kind,
		&entity.Ref.ID,
		&entity.Payload,
		&entity.LocalModifiedAt,
		&remoteModifiedAt,
		&entity.SyncState,
		&entity.RemoteSnapshot,
	)
	if err != nil {
		return models.SyncableEntity{}, err
	}

	if remoteModifiedAt.Valid {
		t := remoteModifiedAt.Time
		entity.RemoteModifiedAt = &t
	}

	return entity, nil
}
