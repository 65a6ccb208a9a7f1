// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The studysync Authors

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return &DB{DB: db, logger: logger.Nop()}, mock
}

var testEntityRef = models.EntityRef{Kind: models.KindConversation, ID: "c-7"}

func entityColumns() []string {
	return []string{"kind", "id", "payload", "local_modified_at", "remote_modified_at", "sync_state", "remote_snapshot"}
}

func TestEntityRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	entity := models.SyncableEntity{
		Ref:             testEntityRef,
		Payload:         []byte(`{"message_count":3}`),
		LocalModifiedAt: time.Now().UTC(),
		SyncState:       models.StatePendingUpload,
	}

	mock.ExpectExec(`INSERT INTO entities`).
		WithArgs(
			entity.Ref.Kind,
			entity.Ref.ID,
			entity.Payload,
			entity.LocalModifiedAt,
			entity.RemoteModifiedAt,
			entity.SyncState,
			entity.RemoteSnapshot,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Save(context.Background(), entity))
}

func TestEntityRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	localModified := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	remoteModified := localModified.Add(-time.Hour)

	mock.ExpectQuery(`SELECT(.|\s)+FROM entities`).
		WithArgs(testEntityRef.Kind, testEntityRef.ID).
		WillReturnRows(sqlmock.NewRows(entityColumns()).
			AddRow(testEntityRef.Kind, testEntityRef.ID, []byte(`{}`), localModified, remoteModified, models.StateClean, nil))

	entity, err := repo.Get(context.Background(), testEntityRef)

	require.NoError(t, err)
	assert.Equal(t, testEntityRef, entity.Ref)
	assert.Equal(t, models.StateClean, entity.SyncState)
	require.NotNil(t, entity.RemoteModifiedAt)
	assert.True(t, remoteModified.Equal(*entity.RemoteModifiedAt))
}

func TestEntityRepository_Get_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT(.|\s)+FROM entities`).
		WithArgs(testEntityRef.Kind, testEntityRef.ID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), testEntityRef)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestEntityRepository_Get_NeverSyncedHasNilRemoteTimestamp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT(.|\s)+FROM entities`).
		WithArgs(testEntityRef.Kind, testEntityRef.ID).
		WillReturnRows(sqlmock.NewRows(entityColumns()).
			AddRow(testEntityRef.Kind, testEntityRef.ID, []byte(`{}`), time.Now(), nil, models.StatePendingUpload, nil))

	entity, err := repo.Get(context.Background(), testEntityRef)

	require.NoError(t, err)
	assert.Nil(t, entity.RemoteModifiedAt)
}

func TestEntityRepository_SetState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectExec(`UPDATE entities`).
		WithArgs(models.StateClean, testEntityRef.Kind, testEntityRef.ID, models.StatePendingUpload).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetState(context.Background(), testEntityRef, models.StatePendingUpload, models.StateClean)
	require.NoError(t, err)
}

func TestEntityRepository_SetState_IllegalTransition(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	err := repo.SetState(context.Background(), testEntityRef, models.StateClean, models.StateConflicted)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestEntityRepository_SetState_GuardMiss(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectExec(`UPDATE entities`).
		WithArgs(models.StateClean, testEntityRef.Kind, testEntityRef.ID, models.StatePendingUpload).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetState(context.Background(), testEntityRef, models.StatePendingUpload, models.StateClean)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestEntityRepository_ApplyRemote_GuardBlocksPendingUpload(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	remote := models.RemoteEntity{Payload: []byte(`{}`)}

	// Zero rows affected: the sync_state guard rejected the overwrite.
	mock.ExpectExec(`UPDATE entities`).
		WithArgs(remote.Payload, remote.RemoteModifiedAt, testEntityRef.Kind, testEntityRef.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ApplyRemote(context.Background(), testEntityRef, remote)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStateMismatch)
}

func TestEntityRepository_MarkClean(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	put := models.PutResult{RemoteModifiedAt: time.Now().UTC()}

	mock.ExpectExec(`UPDATE entities`).
		WithArgs(put.RemoteModifiedAt, testEntityRef.Kind, testEntityRef.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkClean(context.Background(), testEntityRef, put))
}

func TestEntityRepository_ApplyResolution(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	remoteModified := time.Now().UTC()
	resolved := models.SyncableEntity{
		Ref:              testEntityRef,
		Payload:          []byte(`{"message_count":9}`),
		LocalModifiedAt:  time.Now().UTC(),
		RemoteModifiedAt: &remoteModified,
		SyncState:        models.StateClean,
	}

	mock.ExpectExec(`UPDATE entities`).
		WithArgs(
			resolved.Payload,
			resolved.LocalModifiedAt,
			resolved.RemoteModifiedAt,
			resolved.SyncState,
			testEntityRef.Kind,
			testEntityRef.ID,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ApplyResolution(context.Background(), testEntityRef, resolved))
}

func TestEntityRepository_GetByState(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEntityRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT(.|\s)+FROM entities`).
		WithArgs(models.StateConflicted).
		WillReturnRows(sqlmock.NewRows(entityColumns()).
			AddRow(models.KindProfile, "u-1", []byte(`{}`), time.Now(), nil, models.StateConflicted, []byte(`{}`)).
			AddRow(models.KindConversation, "c-2", []byte(`{}`), time.Now(), nil, models.StateConflicted, []byte(`{}`)))

	entities, err := repo.GetByState(context.Background(), models.StateConflicted)

	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, "u-1", entities[0].Ref.ID)
	assert.Equal(t, "c-2", entities[1].Ref.ID)
}
