package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brightpath/studysync/models"
)

func TestMetricsAggregator_Snapshot(t *testing.T) {
	m := NewMetricsAggregator()

	m.RecordCycle(models.CycleResult{Synced: 8, Failed: 1, Duration: 100 * time.Millisecond})
	m.RecordCycle(models.CycleResult{Synced: 2, FailedPermanently: 1, Duration: 300 * time.Millisecond})
	m.AddResolvedConflict()
	m.SetPendingConflicts(2)

	snapshot := m.Snapshot()

	assert.Equal(t, int64(10), snapshot.TotalSynced)
	assert.Equal(t, int64(2), snapshot.Failures)
	assert.Equal(t, int64(1), snapshot.ConflictsResolved)
	assert.Equal(t, int64(2), snapshot.ConflictsPending)
	assert.InDelta(t, 2.0/12.0, snapshot.ErrorRate, 1e-9)
	assert.Equal(t, 200*time.Millisecond, snapshot.AvgLatency)
}

func TestMetricsAggregator_EmptySnapshot(t *testing.T) {
	snapshot := NewMetricsAggregator().Snapshot()

	assert.Zero(t, snapshot.TotalSynced)
	assert.Zero(t, snapshot.ErrorRate)
	assert.Zero(t, snapshot.AvgLatency)
}
