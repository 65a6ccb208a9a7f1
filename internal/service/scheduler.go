package service

import (
	"context"
	"sync"
	"time"

	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

// SchedulerState is the scheduler's externally visible state.
type SchedulerState string

const (
	SchedulerIdle      SchedulerState = "idle"
	SchedulerScheduled SchedulerState = "scheduled"
	SchedulerRunning   SchedulerState = "running"
	SchedulerPaused    SchedulerState = "paused"
)

type syncScheduler struct {
	engine   SyncEngine
	interval time.Duration
	onCycle  func(models.CycleResult, error)
	logger   *logger.Logger

	// trigger is buffered with capacity 1 so bursts of RequestSync calls
	// coalesce into a single pending cycle.
	trigger chan struct{}

	mu       sync.Mutex
	state    SchedulerState
	deferred bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewSyncScheduler creates a scheduler driving the engine every interval and
// on demand. onCycle, when non-nil, is invoked after every executed cycle;
// the scheduler is idle until Start is called.
func NewSyncScheduler(engine SyncEngine, interval time.Duration, onCycle func(models.CycleResult, error), logger *logger.Logger) SyncScheduler {
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	return &syncScheduler{
		engine:   engine,
		interval: interval,
		onCycle:  onCycle,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		state:    SchedulerIdle,
	}
}

// Start implements SyncScheduler. It stops any previously running loop, then
// launches a goroutine that executes a cycle on every ticker tick or trigger.
// The goroutine exits when ctx is cancelled or Stop is called.
func (s *syncScheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				s.markScheduled()
				s.runCycle(loopCtx)
			case <-s.trigger:
				s.runCycle(loopCtx)
			}
		}
	}()
}

// Stop cancels the loop goroutine's context and blocks until it has exited.
// Safe to call when the scheduler is not running.
func (s *syncScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// RequestSync asks for a cycle as soon as possible. Non-blocking; requests
// arriving while one is already pending coalesce.
func (s *syncScheduler) RequestSync() {
	s.markScheduled()

	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// markScheduled records that a tick or sync request claimed the next cycle.
func (s *syncScheduler) markScheduled() {
	s.mu.Lock()
	if s.state == SchedulerIdle {
		s.state = SchedulerScheduled
	}
	s.mu.Unlock()
}

func (s *syncScheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Pausing mid-cycle strands whatever the interrupted cycle requeues;
	// run one catch-up on resume instead of waiting for the next tick.
	if s.state == SchedulerRunning {
		s.deferred = true
	}
	s.state = SchedulerPaused
}

// Resume lifts a pause. If any tick or sync request arrived while paused,
// exactly one deferred cycle is scheduled regardless of how many there were.
func (s *syncScheduler) Resume() {
	s.mu.Lock()
	if s.state != SchedulerPaused {
		s.mu.Unlock()
		return
	}
	s.state = SchedulerIdle
	deferred := s.deferred
	s.deferred = false
	s.mu.Unlock()

	if deferred {
		s.RequestSync()
	}
}

func (s *syncScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *syncScheduler) runCycle(ctx context.Context) {
	s.mu.Lock()
	if s.state == SchedulerPaused {
		s.deferred = true
		s.mu.Unlock()
		return
	}
	s.state = SchedulerRunning
	s.mu.Unlock()

	result, err := s.engine.RunCycle(ctx)

	s.mu.Lock()
	// Pause may have arrived mid-cycle; keep it.
	if s.state == SchedulerRunning {
		s.state = SchedulerIdle
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Err(err).
			Str("func", "syncScheduler.runCycle").
			Msg("sync cycle failed")
	}
	if s.onCycle != nil {
		s.onCycle(result, err)
	}
}
