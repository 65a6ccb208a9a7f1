package service

import (
	"github.com/brightpath/studysync/internal/adapter"
	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
)

// Services bundles the session-scoped sync components. One bundle is built
// per sign-in and discarded at sign-out.
type Services struct {
	Queue     SyncQueue
	Resolver  ConflictResolver
	Engine    SyncEngine
	Migration MigrationCoordinator
	Conflicts *ConflictSet
	Metrics   *MetricsAggregator
}

func NewServices(storages *store.Storages, backend adapter.Backend, cfg config.Sync, logger *logger.Logger) *Services {
	conflicts := NewConflictSet()
	metrics := NewMetricsAggregator()

	queue := NewSyncQueue(storages.Queue, storages.Entities, logger)
	resolver := NewConflictResolver(storages.Entities, queue, cfg.FreshnessWindow, logger)
	engine := NewSyncEngine(storages.Entities, queue, backend, resolver, conflicts, metrics, cfg, logger)

	return &Services{
		Queue:     queue,
		Resolver:  resolver,
		Engine:    engine,
		Migration: NewMigrationCoordinator(storages.Migration, storages.Entities, queue, engine, logger),
		Conflicts: conflicts,
		Metrics:   metrics,
	}
}
