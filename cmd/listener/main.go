package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/config"
	"github.com/kpcrmv4/manusdentalos/internal/journal"
	"github.com/kpcrmv4/manusdentalos/internal/kafka"
	"github.com/kpcrmv4/manusdentalos/pkg/logger"
	"github.com/kpcrmv4/manusdentalos/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting stock journal listener",
		zap.String("environment", cfg.Environment),
		zap.String("sqlite_path", cfg.JournalSQLitePath),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopicStock),
		zap.String("group_id", cfg.KafkaGroupID),
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := journal.NewSingleWriterDB(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize journal database", zap.Error(err))
	}
	defer db.Close()

	var dlq kafka.DeadLetterSink
	if cfg.DLQEnabled {
		producer, err := kafka.NewDLQProducer(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize DLQ producer", zap.Error(err))
		}
		defer producer.Close()
		dlq = producer
	}

	processor := journal.NewProcessor(db, appLogger)
	consumer, err := kafka.NewConsumer(cfg, processor, dlq, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize Kafka consumer", zap.Error(err))
	}
	consumer.WithPermanentErrors(journal.IsPermanent)
	defer consumer.Close()

	router := gin.New()
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	journal.NewHandler(db, appLogger).RegisterRoutes(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:              ":" + cfg.ListenerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 2)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			errChan <- err
		}
	}()
	go func() {
		appLogger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		appLogger.Error("Listener stopped", zap.Error(err))
	case sig := <-quit:
		appLogger.Info("Shutting down listener", zap.String("signal", sig.String()))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Listener exited")
}
