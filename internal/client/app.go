package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/brightpath/studysync/internal/adapter"
	"github.com/brightpath/studysync/internal/auth"
	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/service"
	"github.com/brightpath/studysync/internal/store"
)

// ErrAlreadySignedIn means SignIn was called while a session is active.
var ErrAlreadySignedIn = errors.New("already signed in")

// ErrNotSignedIn means a session operation was requested without one.
var ErrNotSignedIn = errors.New("not signed in")

// App owns the process-scoped pieces (config, storage, backend adapter) and
// manages the session-scoped sync stack built at every sign-in.
type App struct {
	cfg      *config.StructuredConfig
	storages *store.Storages
	backend  adapter.Backend
	logger   *logger.Logger

	mu       sync.Mutex
	session  *service.Session
	services *service.Services
}

func NewApp(cfg *config.StructuredConfig, storages *store.Storages, backend adapter.Backend, logger *logger.Logger) *App {
	return &App{
		cfg:      cfg,
		storages: storages,
		backend:  backend,
		logger:   logger,
	}
}

// SignIn validates the session token, builds a fresh sync stack for the user
// and starts it. Runs the one-time legacy migration first when needed.
func (a *App) SignIn(ctx context.Context, sessionToken string) (*service.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return nil, ErrAlreadySignedIn
	}

	identity, err := auth.ParseIdentity(sessionToken)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	a.backend.SetToken(sessionToken)
	services := service.NewServices(a.storages, a.backend, a.cfg.Sync, a.logger)

	if err = service.RestoreConflicts(ctx, a.storages.Entities, services.Conflicts, services.Metrics); err != nil {
		return nil, fmt.Errorf("restore conflicts: %w", err)
	}

	depth, err := services.Queue.Depth(ctx)
	if err != nil {
		return nil, fmt.Errorf("read queue depth: %w", err)
	}
	if depth.Total() > 0 {
		a.logger.Info().
			Str("func", "App.SignIn").
			Int("pending", depth.Total()).
			Msg("resuming with queued mutations")
	}

	if err = a.runMigrationIfNeeded(ctx, services); err != nil {
		return nil, err
	}

	session := service.NewSession(
		identity,
		services.Engine,
		services.Queue,
		services.Conflicts,
		services.Resolver,
		services.Metrics,
		a.cfg.Sync.Interval,
		a.logger,
	)
	session.Start(ctx)

	a.session = session
	a.services = services

	a.logger.Info().
		Str("func", "App.SignIn").
		Str("user_id", identity.UserID).
		Msg("session started")

	return session, nil
}

// SignOut closes the current session and drops every session-scoped
// component. The durable queue and entity store stay on disk.
func (a *App) SignOut() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return ErrNotSignedIn
	}

	a.session.Close()
	a.session = nil
	a.services = nil
	a.backend.SetToken("")

	return nil
}

// Session returns the active session, or nil when signed out.
func (a *App) Session() *service.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Run is the daemon entrypoint: sign in with the configured token, request an
// initial sync, then keep syncing until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	session, err := a.SignIn(ctx, a.cfg.Auth.SessionToken)
	if err != nil {
		return err
	}
	defer func() {
		if signOutErr := a.SignOut(); signOutErr != nil {
			a.logger.Err(signOutErr).
				Str("func", "App.Run").
				Msg("sign out failed on shutdown")
		}
	}()

	session.RequestSync()
	<-ctx.Done()

	return nil
}

// runMigrationIfNeeded performs the one-time import of legacy records before
// the first session of this install starts syncing. A partially failed run is
// reported and retried on the next sign-in.
func (a *App) runMigrationIfNeeded(ctx context.Context, services *service.Services) error {
	required, err := services.Migration.IsMigrationRequired(ctx)
	if err != nil {
		return fmt.Errorf("check legacy migration: %w", err)
	}
	if !required {
		return nil
	}

	job, err := services.Migration.RunMigration(ctx)
	if err != nil {
		return fmt.Errorf("legacy migration: %w", err)
	}
	if !job.Completed {
		a.logger.Warn().
			Str("func", "App.runMigrationIfNeeded").
			Int("processed", job.ItemsProcessed).
			Int("total", job.ItemsTotal).
			Int("errors", len(job.Errors)).
			Msg("legacy migration incomplete, will retry on next sign-in")
	}

	return nil
}
