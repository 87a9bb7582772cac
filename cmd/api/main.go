package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/motortrade/notification-api/internal/config"
	"github.com/motortrade/notification-api/internal/dispatch"
	"github.com/motortrade/notification-api/internal/email"
	"github.com/motortrade/notification-api/internal/handler"
	emailHandler "github.com/motortrade/notification-api/internal/handler/email"
	notificationHandler "github.com/motortrade/notification-api/internal/handler/notification"
	"github.com/motortrade/notification-api/internal/mailer"
	"github.com/motortrade/notification-api/internal/middleware"
	"github.com/motortrade/notification-api/internal/model"
	"github.com/motortrade/notification-api/internal/repository/postgres"
	"github.com/motortrade/notification-api/internal/router"
	notificationService "github.com/motortrade/notification-api/internal/service/notification"
	"github.com/motortrade/notification-api/internal/template"
	"github.com/motortrade/notification-api/pkg/logger"
	"github.com/motortrade/notification-api/pkg/messaging"
	redisBroker "github.com/motortrade/notification-api/pkg/messaging/redis"
	"github.com/motortrade/notification-api/pkg/metrics"
	"github.com/motortrade/notification-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:   logger.ParseLevel(cfg.Log.Level),
		Pretty:  cfg.Log.Pretty,
		Service: "notification-api",
	})
	log.Logger = appLogger

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.New("notification_api")

	// Repository
	baseRepo := postgres.NewBaseRepository(db)
	notificationRepo := postgres.NewNotificationRepository(baseRepo)

	// Mail pipeline
	renderer := template.NewRenderer()
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP, appLogger, appMetrics)
	purchaseHandler := email.NewPurchaseHandler(renderer, smtpMailer, appLogger)
	shippingHandler := email.NewShippingHandler(renderer, smtpMailer, appLogger)

	// Routing table: adding a notification type is one Register call.
	dispatchRouter := dispatch.NewRouter()
	dispatch.Register[model.PurchasingStatusEmail](dispatchRouter, email.TypePurchaseStatus, purchaseHandler.SendStatusUpdate)
	dispatch.Register[model.ShippingStatusEmail](dispatchRouter, email.TypeShippingStatus, shippingHandler.SendStatusUpdate)

	// Optional accepted-event fanout
	var broker messaging.Broker
	if cfg.Redis.Enabled {
		broker, err = redisBroker.NewBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	notificationSvc := notificationService.NewService(notificationRepo, dispatchRouter, broker, appLogger, appMetrics)

	// HTTP surface
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth)
	healthHandler := handler.NewHealthHandler(db)
	validate := validator.New()

	r := router.New(
		authMiddleware,
		healthHandler,
		appMetrics,
		router.Config{
			RateLimit: middleware.RateLimiterConfig{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
		},
		notificationHandler.NewHandler(notificationSvc, validate),
		emailHandler.NewHandler(purchaseHandler, shippingHandler),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
