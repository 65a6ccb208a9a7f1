package store

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

type migrationRepository struct {
	*DB
	logger *logger.Logger
}

func NewMigrationRepository(db *DB, logger *logger.Logger) MigrationRepository {
	return &migrationRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *migrationRepository) SaveLegacy(ctx context.Context, record models.LegacyRecord) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, saveLegacyRecord,
		record.Key,
		record.Kind,
		record.Payload,
		record.ModifiedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "migrationRepository.SaveLegacy").
			Str("legacy_key", record.Key).
			Msg("failed to save legacy record")
		return fmt.Errorf("failed to save legacy record (key=%s): %w", record.Key, err)
	}

	return nil
}

func (r *migrationRepository) ListUnmigrated(ctx context.Context) ([]models.LegacyRecord, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listUnmigratedLegacy)
	if err != nil {
		log.Err(err).
			Str("func", "migrationRepository.ListUnmigrated").
			Msg("failed to query unmigrated legacy records")
		return nil, fmt.Errorf("failed to query unmigrated legacy records: %w", err)
	}
	defer rows.Close()

	var records []models.LegacyRecord
	for rows.Next() {
		var record models.LegacyRecord

		scanErr := rows.Scan(
			&record.Key,
			&record.Kind,
			&record.Payload,
			&record.ModifiedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "migrationRepository.ListUnmigrated").
				Msg("failed to scan legacy record row")
			return nil, fmt.Errorf("failed to scan legacy record row: %w", scanErr)
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating legacy record rows: %w", rowsErr)
	}

	return records, nil
}

func (r *migrationRepository) CountUnmigrated(ctx context.Context) (int, error) {
	var count int
	row := r.DB.QueryRowContext(ctx, countUnmigratedLegacy)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unmigrated legacy records: %w", err)
	}
	return count, nil
}

func (r *migrationRepository) MarkMigrated(ctx context.Context, legacyKey string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, markKeyMigrated, legacyKey, time.Now().UTC())
	if err != nil {
		log.Err(err).
			Str("func", "migrationRepository.MarkMigrated").
			Str("legacy_key", legacyKey).
			Msg("failed to write migrated-keys marker")
		return fmt.Errorf("failed to mark key migrated (key=%s): %w", legacyKey, err)
	}

	return nil
}

func (r *migrationRepository) DeleteLegacy(ctx context.Context, legacyKey string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, deleteLegacyRecord, legacyKey)
	if err != nil {
		log.Err(err).
			Str("func", "migrationRepository.DeleteLegacy").
			Str("legacy_key", legacyKey).
			Msg("failed to delete legacy record")
		return fmt.Errorf("failed to delete legacy record (key=%s): %w", legacyKey, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected (key=%s): %w", legacyKey, err)
	}
	if rows == 0 {
		return ErrLegacyRecordNotFound
	}

	return nil
}
