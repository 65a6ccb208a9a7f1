package models

import "time"

// MetricsSnapshot is a value copy of the session's sync counters.
type MetricsSnapshot struct {
	TotalSynced       int64         `json:"total_synced"`
	ConflictsResolved int64         `json:"conflicts_resolved"`
	ConflictsPending  int64         `json:"conflicts_pending"`
	Failures          int64         `json:"failures"`
	ErrorRate         float64       `json:"error_rate"`
	AvgLatency        time.Duration `json:"avg_latency"`
}

// SessionSnapshot is the aggregated session state delivered to subscribers on
// every change. The UI only ever sees this plus the pending-conflict list;
// raw backend errors never cross this boundary.
type SessionSnapshot struct {
	UserID             string          `json:"user_id"`
	Online             bool            `json:"online"`
	Syncing            bool            `json:"syncing"`
	LastSuccessfulSync *time.Time      `json:"last_successful_sync,omitempty"`
	LastError          string          `json:"last_error,omitempty"`
	QueueDepth         QueueDepth      `json:"queue_depth"`
	Metrics            MetricsSnapshot `json:"metrics"`
}

// CycleResult summarizes one engine cycle. Per-item failures are counted
// here, never raised as errors: a cycle only errors out when the subsystem
// itself (e.g. the local store) is unavailable.
type CycleResult struct {
	Synced            int           `json:"synced"`
	Conflicted        int           `json:"conflicted"`
	Failed            int           `json:"failed"`
	FailedPermanently int           `json:"failed_permanently"`
	Duration          time.Duration `json:"duration"`
}
