package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/models"
)

// waitForCycles polls until the engine has executed want cycles or the
// deadline expires.
func waitForCycles(t *testing.T, engine *stubEngine, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if engine.cycleCount() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d cycles, got %d", want, engine.cycleCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestScheduler_RequestSyncRunsCycle(t *testing.T) {
	engine := &stubEngine{}
	s := NewSyncScheduler(engine, time.Hour, nil, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.RequestSync()
	waitForCycles(t, engine, 1)
}

func TestScheduler_TickerRunsCycles(t *testing.T) {
	engine := &stubEngine{}
	s := NewSyncScheduler(engine, 10*time.Millisecond, nil, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	waitForCycles(t, engine, 2)
}

func TestScheduler_PauseDefersAndResumeCoalesces(t *testing.T) {
	engine := &stubEngine{}
	s := NewSyncScheduler(engine, time.Hour, nil, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.Pause()
	assert.Equal(t, SchedulerPaused, s.State())

	// Several triggers while paused must coalesce into one deferred cycle.
	s.RequestSync()
	time.Sleep(20 * time.Millisecond)
	s.RequestSync()
	s.RequestSync()
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, engine.cycleCount(), "no cycles while paused")

	s.Resume()
	waitForCycles(t, engine, 1)

	// Allow any (incorrect) extra deferred cycles to surface.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, engine.cycleCount(), "exactly one coalesced deferred cycle")
}

func TestScheduler_PauseMidCycleRunsCatchUpOnResume(t *testing.T) {
	engine := &stubEngine{started: make(chan struct{}, 2), release: make(chan struct{})}
	s := NewSyncScheduler(engine, time.Hour, nil, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.RequestSync()
	<-engine.started

	// Connectivity drops while the cycle is in flight; the interrupted cycle
	// requeues its remainder, then connectivity returns.
	s.Pause()
	assert.Equal(t, SchedulerPaused, s.State())
	close(engine.release)
	s.Resume()

	// Exactly one coalesced catch-up cycle picks up the remainder.
	waitForCycles(t, engine, 2)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 2, engine.cycleCount(), "exactly one catch-up cycle after resume")
}

func TestScheduler_RequestSyncBeforeStartShowsScheduled(t *testing.T) {
	s := NewSyncScheduler(&stubEngine{}, time.Hour, nil, logger.Nop())

	s.RequestSync()

	assert.Equal(t, SchedulerScheduled, s.State())
}

func TestScheduler_TickPassesThroughScheduled(t *testing.T) {
	s, ok := NewSyncScheduler(&stubEngine{}, time.Hour, nil, logger.Nop()).(*syncScheduler)
	require.True(t, ok)

	// The ticker branch claims the cycle the same way RequestSync does.
	s.markScheduled()

	assert.Equal(t, SchedulerScheduled, s.State())
}

func TestScheduler_ResumeWithoutTriggersRunsNothing(t *testing.T) {
	engine := &stubEngine{}
	s := NewSyncScheduler(engine, time.Hour, nil, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.Pause()
	s.Resume()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, engine.cycleCount())
	assert.Equal(t, SchedulerIdle, s.State())
}

func TestScheduler_StopWaitsForLoopExit(t *testing.T) {
	engine := &stubEngine{}
	s := NewSyncScheduler(engine, 5*time.Millisecond, nil, logger.Nop())

	s.Start(context.Background())
	waitForCycles(t, engine, 1)
	s.Stop()

	count := engine.cycleCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, engine.cycleCount(), "no cycles after Stop")
}

func TestScheduler_StopWithoutStartIsNoop(t *testing.T) {
	s := NewSyncScheduler(&stubEngine{}, time.Hour, nil, logger.Nop())
	s.Stop()
	assert.Equal(t, SchedulerIdle, s.State())
}

func TestScheduler_OnCycleCallback(t *testing.T) {
	engine := &stubEngine{result: models.CycleResult{Synced: 3}}

	got := make(chan models.CycleResult, 1)
	s := NewSyncScheduler(engine, time.Hour, func(result models.CycleResult, err error) {
		require.NoError(t, err)
		got <- result
	}, logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	s.RequestSync()

	select {
	case result := <-got:
		assert.Equal(t, 3, result.Synced)
	case <-time.After(2 * time.Second):
		t.Fatal("onCycle callback was not invoked")
	}
}
