package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

func TestMigrationRepository_SaveLegacy(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	record := models.LegacyRecord{
		Key:        "conversation:c-4",
		Kind:       models.KindConversation,
		Payload:    []byte(`{"message_count":1}`),
		ModifiedAt: time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO legacy_records`).
		WithArgs(record.Key, record.Kind, record.Payload, record.ModifiedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.SaveLegacy(context.Background(), record))
}

func TestMigrationRepository_ListUnmigrated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	modified := time.Date(2025, 12, 24, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT(.|\s)+FROM legacy_records`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "kind", "payload", "modified_at"}).
			AddRow("conversation:c-4", models.KindConversation, []byte(`{}`), modified).
			AddRow("profile:u-1", models.KindProfile, []byte(`{}`), modified))

	records, err := repo.ListUnmigrated(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "conversation:c-4", records[0].Key)
	assert.Equal(t, models.KindProfile, records[1].Kind)
}

func TestMigrationRepository_CountUnmigrated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountUnmigrated(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestMigrationRepository_MarkMigrated(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	mock.ExpectExec(`INSERT INTO migrated_keys`).
		WithArgs("conversation:c-4", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.MarkMigrated(context.Background(), "conversation:c-4"))
}

func TestMigrationRepository_DeleteLegacy(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	mock.ExpectExec(`DELETE FROM legacy_records`).
		WithArgs("conversation:c-4").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteLegacy(context.Background(), "conversation:c-4"))
}

func TestMigrationRepository_DeleteLegacy_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMigrationRepository(db, logger.Nop())

	mock.ExpectExec(`DELETE FROM legacy_records`).
		WithArgs("conversation:missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteLegacy(context.Background(), "conversation:missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLegacyRecordNotFound)
}
