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

func queueColumns() []string {
	return []string{"kind", "id", "direction", "priority", "payload", "enqueued_at", "attempts"}
}

func testQueueItem(id string, priority models.Priority) models.QueueItem {
	return models.QueueItem{
		Ref:        models.EntityRef{Kind: models.KindConversation, ID: id},
		Direction:  models.DirectionUpload,
		Priority:   priority,
		EnqueuedAt: time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestQueueRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	item := testQueueItem("c-1", models.PriorityHigh)
	item.Attempts = 2

	mock.ExpectExec(`INSERT INTO sync_queue`).
		WithArgs(
			item.Ref.Kind,
			item.Ref.ID,
			item.Direction,
			item.Priority.Weight(),
			item.Payload,
			item.EnqueuedAt,
			item.Attempts,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Upsert(context.Background(), item))
}

func TestQueueRepository_Drain(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	first := testQueueItem("c-1", models.PriorityHigh)
	second := testQueueItem("c-2", models.PriorityMedium)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM sync_queue(.|\s)+ORDER BY priority DESC, enqueued_at ASC, rowid ASC`).
		WithArgs(models.DirectionUpload).
		WillReturnRows(sqlmock.NewRows(queueColumns()).
			AddRow(first.Ref.Kind, first.Ref.ID, first.Direction, first.Priority.Weight(), first.Payload, first.EnqueuedAt, first.Attempts).
			AddRow(second.Ref.Kind, second.Ref.ID, second.Direction, second.Priority.Weight(), second.Payload, second.EnqueuedAt, second.Attempts))
	mock.ExpectExec(`DELETE FROM sync_queue`).
		WithArgs(first.Ref.Kind, first.Ref.ID, first.Direction).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sync_queue`).
		WithArgs(second.Ref.Kind, second.Ref.ID, second.Direction).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	items, err := repo.Drain(context.Background(), models.DirectionUpload, 10)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.PriorityHigh, items[0].Priority)
	assert.Equal(t, "c-1", items[0].Ref.ID)
	assert.Equal(t, "c-2", items[1].Ref.ID)
}

func TestQueueRepository_Drain_EmptyBatchSkipsDB(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	items, err := repo.Drain(context.Background(), models.DirectionUpload, 0)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestQueueRepository_Drain_DeleteFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	item := testQueueItem("c-1", models.PriorityMedium)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\s)+FROM sync_queue`).
		WithArgs(models.DirectionUpload).
		WillReturnRows(sqlmock.NewRows(queueColumns()).
			AddRow(item.Ref.Kind, item.Ref.ID, item.Direction, item.Priority.Weight(), item.Payload, item.EnqueuedAt, item.Attempts))
	mock.ExpectExec(`DELETE FROM sync_queue`).
		WithArgs(item.Ref.Kind, item.Ref.ID, item.Direction).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Drain(context.Background(), models.DirectionUpload, 10)

	require.Error(t, err)
}

func TestQueueRepository_Depth(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT direction, COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"direction", "count"}).
			AddRow(models.DirectionUpload, 4).
			AddRow(models.DirectionDownload, 2))
	mock.ExpectQuery(`SELECT COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	depth, err := repo.Depth(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.QueueDepth{Uploads: 4, Downloads: 2, Failed: 1}, depth)
}

func TestQueueRepository_MarkFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	item := testQueueItem("c-3", models.PriorityMedium)
	item.Attempts = 5

	mock.ExpectExec(`INSERT INTO sync_queue`).
		WithArgs(
			item.Ref.Kind,
			item.Ref.ID,
			item.Direction,
			item.Priority.Weight(),
			item.Payload,
			item.EnqueuedAt,
			item.Attempts,
			sqlmock.AnyArg(),
			"attempt ceiling reached",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), item, "attempt ceiling reached"))
}

func TestQueueRepository_FailedItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewQueueRepository(db, logger.Nop())

	failedAt := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	enqueuedAt := failedAt.Add(-time.Hour)

	mock.ExpectQuery(`SELECT(.|\s)+FROM sync_queue(.|\s)+failed_at IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"kind", "id", "direction", "priority", "payload", "enqueued_at", "attempts", "failed_at", "failure"}).
			AddRow(models.KindConversation, "c-9", models.DirectionUpload, models.PriorityMedium.Weight(), nil, enqueuedAt, 5, failedAt, "permanent backend rejection"))

	items, err := repo.FailedItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c-9", items[0].Ref.ID)
	assert.Equal(t, 5, items[0].Attempts)
	assert.True(t, failedAt.Equal(items[0].FailedAt))
	assert.Equal(t, "permanent backend rejection", items[0].Failure)
}
