package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fasohabita/server/config"
	"fasohabita/server/internal/api"
	"fasohabita/server/internal/auth"
	"fasohabita/server/internal/database"
	"fasohabita/server/internal/events"
	"fasohabita/server/internal/logging"
	"fasohabita/server/internal/objectstore"
	"fasohabita/server/internal/processor"
	"fasohabita/server/internal/queue"
	"fasohabita/server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type eventPublisher interface {
	processor.Publisher
	Close() error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.RequireSessionSecret(); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	defer logCloser.Close()

	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	logger.Infof("Using %s database at: %s", cfg.Database.Driver, cfg.Database.DSN)
	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Event pipeline
	var publisher eventPublisher
	if cfg.Events.NATSURL != "" {
		natsPublisher, err := events.NewNatsPublisher(cfg.Events.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to message broker")
		}
		publisher = natsPublisher
	} else {
		logger.Info("NATS_URL not set, listing events will only be logged")
		publisher = events.NewLogPublisher(logger)
	}

	eventQueue := queue.NewEventQueue(cfg.Events.QueueSize, logger)
	dispatcher := processor.NewEventProcessor(publisher, eventQueue, cfg, logger)
	dispatcher.Start()
	eventQueue.Start()

	// Object storage
	var storage objectstore.Store
	if cfg.Storage.Endpoint != "" {
		minioStore, err := objectstore.NewMinioStore(context.Background(),
			cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey,
			cfg.Storage.Bucket, cfg.Storage.UseSSL, cfg.Storage.UploadTTL, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize object storage")
		}
		storage = minioStore
	} else {
		logger.Warn("STORAGE_ENDPOINT not set, photo uploads are disabled")
	}

	sessions := auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	listings := service.NewListingService(db, eventQueue, logger)
	handler := api.NewHandler(cfg, listings, db, sessions, storage, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.NewRouter(handler),
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Deliver what is still queued, then stop retrying
	go func() {
		<-ctx.Done()
		dispatcher.Stop()
	}()
	if err := eventQueue.Close(); err != nil {
		logger.WithError(err).Error("Failed to close event queue")
	}
	dispatcher.Stop()

	if err := publisher.Close(); err != nil {
		logger.WithError(err).Error("Failed to close event publisher")
	}

	logger.WithFields(logrus.Fields{"pending_events": eventQueue.Len()}).Info("Server stopped")
}
