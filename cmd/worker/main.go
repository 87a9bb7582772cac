package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/motortrade/notification-api/internal/config"
	"github.com/motortrade/notification-api/internal/repository/postgres"
	"github.com/motortrade/notification-api/internal/worker"
	"github.com/motortrade/notification-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty,
		Service: "notification-worker",
	})
	log.Logger = appLogger

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	repo := postgres.NewNotificationRepository(postgres.NewBaseRepository(db))
	cleanup := worker.NewCleanupWorker(repo, cfg.Retention.Days, cfg.Retention.Interval, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go cleanup.Start(ctx)

	log.Info().
		Int("retention_days", cfg.Retention.Days).
		Dur("interval", cfg.Retention.Interval).
		Msg("cleanup worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	log.Info().Msg("cleanup worker stopped")
}
