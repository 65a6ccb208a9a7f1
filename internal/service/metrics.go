package service

import (
	"sync"
	"time"

	"github.com/brightpath/studysync/models"
)

// MetricsAggregator accumulates sync counters over the lifetime of one
// session. All methods are safe for concurrent use; Snapshot returns a value
// copy so readers never observe a half-updated set.
type MetricsAggregator struct {
	mu sync.Mutex

	totalSynced       int64
	conflictsResolved int64
	conflictsPending  int64
	failures          int64

	cycles       int64
	totalLatency time.Duration
}

func NewMetricsAggregator() *MetricsAggregator {
	return &MetricsAggregator{}
}

// RecordCycle folds one finished cycle into the counters. Permanently failed
// items count as failures alongside transient ones.
func (m *MetricsAggregator) RecordCycle(result models.CycleResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalSynced += int64(result.Synced)
	m.failures += int64(result.Failed + result.FailedPermanently)
	m.cycles++
	m.totalLatency += result.Duration
}

// AddResolvedConflict counts one conflict resolution, automatic or manual.
func (m *MetricsAggregator) AddResolvedConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictsResolved++
}

// SetPendingConflicts records the current size of the pending conflict set.
func (m *MetricsAggregator) SetPendingConflicts(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictsPending = int64(n)
}

// Snapshot returns a value copy of the current counters. ErrorRate is the
// share of failed operations among all attempted ones; AvgLatency is the mean
// cycle duration.
func (m *MetricsAggregator) Snapshot() models.MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := models.MetricsSnapshot{
		TotalSynced:       m.totalSynced,
		ConflictsResolved: m.conflictsResolved,
		ConflictsPending:  m.conflictsPending,
		Failures:          m.failures,
	}

	if attempted := m.totalSynced + m.failures; attempted > 0 {
		snapshot.ErrorRate = float64(m.failures) / float64(attempted)
	}
	if m.cycles > 0 {
		snapshot.AvgLatency = m.totalLatency / time.Duration(m.cycles)
	}

	return snapshot
}
