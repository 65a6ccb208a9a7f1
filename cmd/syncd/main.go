package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/brightpath/studysync/internal/adapter"
	"github.com/brightpath/studysync/internal/client"
	"github.com/brightpath/studysync/internal/config"
	"github.com/brightpath/studysync/internal/logger"
	"github.com/brightpath/studysync/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("studysync-syncd")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	backend := adapter.NewHTTPBackend(adapter.HTTPClientConfig{
		BaseURL: cfg.Backend.Address,
		Timeout: cfg.Backend.RequestTimeout,
	})

	app := client.NewApp(cfg, storages, backend, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync daemon error")
	}

	log.Info().Msg("sync daemon stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
