package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mariagaitan/condoflow-backend/api"
	"github.com/mariagaitan/condoflow-backend/api/routes"
	"github.com/mariagaitan/condoflow-backend/internal/allocations"
	"github.com/mariagaitan/condoflow-backend/internal/charges"
	"github.com/mariagaitan/condoflow-backend/internal/ledgerview"
	"github.com/mariagaitan/condoflow-backend/internal/occupancies"
	"github.com/mariagaitan/condoflow-backend/internal/payments"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
	"github.com/mariagaitan/condoflow-backend/pkg/migrate"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/redis"
)

func main() {
	logg := logger.New("api")

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Fatal(err, "failed to bootstrap redis")
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(err, "error closing redis")
		}
	}()

	outboxSvc := outbox.NewService(outbox.NewRepository(dbClient.DB), logg)
	occupancyRepo := occupancies.NewRepository(dbClient.DB)
	scopes := scope.NewValidator(scope.NewRepository(dbClient.DB), occupancyRepo)

	chargeSvc, err := charges.NewService(charges.NewRepository(dbClient.DB), occupancyRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Fatal(err, "failed to create charges service")
	}
	paymentSvc, err := payments.NewService(payments.NewRepository(dbClient.DB), occupancyRepo, dbClient, outboxSvc)
	if err != nil {
		logg.Fatal(err, "failed to create payments service")
	}
	allocationSvc, err := allocations.NewService(allocations.NewRepository(dbClient.DB), dbClient, outboxSvc)
	if err != nil {
		logg.Fatal(err, "failed to create allocations service")
	}
	ledgerSvc, err := ledgerview.NewService(ledgerview.NewRepository(dbClient.DB))
	if err != nil {
		logg.Fatal(err, "failed to create ledger view service")
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Scopes:      scopes,
		Charges:     chargeSvc,
		Payments:    paymentSvc,
		Allocations: allocationSvc,
		Ledger:      ledgerSvc,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg.WithField("env", cfg.App.Env).Info("starting api server")
	server := api.NewServer(cfg.Service, logg, router)
	if err := server.Run(ctx); err != nil {
		logg.Fatal(err, "api server stopped unexpectedly")
	}

	logg.Info("api server shut down")
}
