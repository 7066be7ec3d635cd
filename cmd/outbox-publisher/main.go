package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
	"github.com/mariagaitan/condoflow-backend/pkg/migrate"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox/registry"
	"github.com/mariagaitan/condoflow-backend/pkg/pubsub"
)

func main() {
	logg := logger.New("outbox-publisher")

	if err := godotenv.Load(); err != nil {
		logg.Warn(".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal(err, "failed to load config")
	}

	dbClient, err := db.New(cfg.DB)
	if err != nil {
		logg.Fatal(err, "failed to bootstrap database")
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(err, "error closing database")
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Fatal(err, "failed to run dev migrations")
	}

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Fatal(err, "failed to bootstrap pubsub")
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(err, "error closing pubsub client")
		}
	}()

	eventRegistry, err := registry.NewEventRegistry(cfg.PubSub)
	if err != nil {
		logg.Fatal(err, "failed to build event registry")
	}

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: outbox.NewRepository(dbClient.DB),
		Registry:   eventRegistry,
		PubSub:     pubsubClient,
	})
	if err != nil {
		logg.Fatal(err, "failed to create outbox publisher")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg.WithField("env", cfg.App.Env).Info("starting outbox publisher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Fatal(err, "outbox publisher stopped unexpectedly")
	}

	logg.Info("outbox publisher shutting down gracefully")
}
