package service

import (
	"context"
	"sync"
	"time"

	"github.com/brightpath/studysync/models"
)

// fakeQueue is an in-memory SyncQueue. Hand-rolled instead of generated to
// avoid an import cycle between this package and internal/mock.
type fakeQueue struct {
	mu        sync.Mutex
	uploads   []models.QueueItem
	downloads []models.QueueItem
	requeued  []models.QueueItem
	failed    []models.FailedItem
	enqueued  []models.QueueItem

	drainErr error
}

func (q *fakeQueue) Enqueue(_ context.Context, ref models.EntityRef, direction models.Direction, payload []byte, priority models.Priority) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item := models.QueueItem{
		Ref:        ref,
		Direction:  direction,
		Priority:   priority,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
	q.enqueued = append(q.enqueued, item)
	switch direction {
	case models.DirectionUpload:
		q.uploads = append(q.uploads, item)
	case models.DirectionDownload:
		q.downloads = append(q.downloads, item)
	}
	return nil
}

func (q *fakeQueue) Drain(_ context.Context, direction models.Direction, maxBatch int) ([]models.QueueItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.drainErr != nil {
		return nil, q.drainErr
	}

	var source *[]models.QueueItem
	if direction == models.DirectionUpload {
		source = &q.uploads
	} else {
		source = &q.downloads
	}

	n := len(*source)
	if n > maxBatch {
		n = maxBatch
	}
	drained := (*source)[:n]
	*source = (*source)[n:]
	return drained, nil
}

func (q *fakeQueue) Depth(_ context.Context) (models.QueueDepth, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return models.QueueDepth{
		Uploads:   len(q.uploads),
		Downloads: len(q.downloads),
		Failed:    len(q.failed),
	}, nil
}

func (q *fakeQueue) Requeue(_ context.Context, item models.QueueItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item.Attempts++
	q.requeued = append(q.requeued, item)
	return nil
}

func (q *fakeQueue) MarkFailedPermanently(_ context.Context, item models.QueueItem, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.failed = append(q.failed, models.FailedItem{
		QueueItem: item,
		FailedAt:  time.Now().UTC(),
		Failure:   reason,
	})
	return nil
}

func (q *fakeQueue) FailedItems(_ context.Context) ([]models.FailedItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.FailedItem(nil), q.failed...), nil
}

// stubEngine counts cycles and lets tests block a cycle mid-flight.
type stubEngine struct {
	mu      sync.Mutex
	cycles  int
	result  models.CycleResult
	err     error
	started chan struct{}
	release chan struct{}
}

func (e *stubEngine) RunCycle(ctx context.Context) (models.CycleResult, error) {
	e.mu.Lock()
	e.cycles++
	started := e.started
	release := e.release
	e.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.CycleResult{}, ctx.Err()
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result, e.err
}

func (e *stubEngine) cycleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cycles
}

// appliedResolution records one resolver.Apply call.
type appliedResolution struct {
	conflict   models.Conflict
	resolution models.Resolution
	custom     []byte
}

// stubResolver returns a fixed AutoResolve decision and records Apply calls.
type stubResolver struct {
	mu         sync.Mutex
	resolution models.Resolution
	applyErr   error
	applied    []appliedResolution
}

func (r *stubResolver) AutoResolve(models.Conflict) models.Resolution {
	return r.resolution
}

func (r *stubResolver) Apply(_ context.Context, conflict models.Conflict, resolution models.Resolution, custom []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, appliedResolution{conflict: conflict, resolution: resolution, custom: custom})
	return nil
}

func (r *stubResolver) appliedCalls() []appliedResolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]appliedResolution(nil), r.applied...)
}
