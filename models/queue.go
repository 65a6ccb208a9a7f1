package models

import "time"

// Direction tells whether a queue item pushes local state to the backend or
// pulls remote state into the local store.
type Direction string

const (
	DirectionUpload   Direction = "upload"
	DirectionDownload Direction = "download"
)

// Priority orders queue items within a drain batch. Higher priorities drain
// first; within a priority, older items drain first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Weight maps a priority onto a sortable integer (high=2, medium=1, low=0).
// Unknown values sort as low.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// PriorityFromWeight is the inverse of [Priority.Weight], used when reading
// queue rows back from storage.
func PriorityFromWeight(w int) Priority {
	switch w {
	case 2:
		return PriorityHigh
	case 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// QueueItem is one pending mutation awaiting transfer. At most one item per
// (ref, direction) exists at any time: re-enqueueing replaces the payload but
// keeps the original EnqueuedAt so a frequently edited entity cannot starve.
type QueueItem struct {
	Ref        EntityRef `json:"ref"`
	Direction  Direction `json:"direction"`
	Priority   Priority  `json:"priority"`
	Payload    []byte    `json:"payload,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Attempts   int       `json:"attempts"`
}

// FailedItem is a queue item that exhausted its retry budget and was moved to
// the permanently-failed bucket. It is surfaced to the user instead of being
// retried silently.
type FailedItem struct {
	QueueItem
	FailedAt time.Time `json:"failed_at"`
	Failure  string    `json:"failure"`
}

// QueueDepth is a point-in-time count of pending work by direction.
type QueueDepth struct {
	Uploads   int `json:"uploads"`
	Downloads int `json:"downloads"`
	Failed    int `json:"failed"`
}

// Total returns the number of retry-eligible pending items.
func (d QueueDepth) Total() int { return d.Uploads + d.Downloads }
