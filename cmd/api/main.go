package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kpcrmv4/manusdentalos/internal/auth"
	"github.com/kpcrmv4/manusdentalos/internal/config"
	"github.com/kpcrmv4/manusdentalos/internal/events"
	"github.com/kpcrmv4/manusdentalos/internal/handlers"
	"github.com/kpcrmv4/manusdentalos/internal/repository"
	"github.com/kpcrmv4/manusdentalos/internal/service"
	"github.com/kpcrmv4/manusdentalos/pkg/logger"
	"github.com/kpcrmv4/manusdentalos/pkg/middleware"
	"github.com/kpcrmv4/manusdentalos/pkg/validation"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kpcrmv4/manusdentalos/docs"
)

// @title           Dental Inventory API
// @version         1.0
// @description     Lot-level stock with FEFO reservations and surgery case material planning
// @BasePath        /api/v1
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token
func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting inventory API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("kafka_enabled", cfg.KafkaEnabled),
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	store, closeStore := openStore(cfg, appLogger)
	defer closeStore()

	publisher, closePublisher := openPublisher(cfg, appLogger)
	defer closePublisher()

	inventory := service.NewInventoryService(store, publisher, appLogger, cfg.ExpiringSoonDays)
	reservations := service.NewReservationManager(store, publisher, appLogger)
	planner := service.NewPlanner(store, reservations, publisher, appLogger)
	purchasing := service.NewPurchasingService(store, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute, appLogger)
	authHandler := auth.NewAuthHandler(jwtManager, cfg.AuthUsers, appLogger)

	requestIDStore := middleware.NewRequestIDStore(cfg, appLogger)
	if closer, ok := requestIDStore.(io.Closer); ok {
		defer closer.Close()
	}
	idempotencyTTL := time.Duration(cfg.IdempotencyTTLSeconds) * time.Second

	router := gin.New()
	// CORS first so preflight requests never reach auth
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst, appLogger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", authHandler.Login)

	handlers.RegisterRoutes(v1, handlers.Handlers{
		Health:       handlers.NewHealthHandler("inventory-api", store, appLogger),
		Inventory:    handlers.NewInventoryHandler(inventory, reservations, appLogger),
		Reservations: handlers.NewReservationHandler(reservations, appLogger),
		Cases:        handlers.NewCaseHandler(planner, appLogger),
		Purchasing:   handlers.NewPurchaseOrderHandler(purchasing, appLogger),
	},
		middleware.AuthMiddleware(jwtManager, appLogger),
		middleware.IdempotencyMiddleware(requestIDStore, appLogger, idempotencyTTL),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}

// openStore selects the storage backend from DB_DRIVER
func openStore(cfg *config.Config, appLogger *zap.Logger) (repository.Store, func()) {
	if cfg.DBDriver == "memory" {
		appLogger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), func() {}
	}

	db, err := repository.NewPostgresDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	store := repository.NewPostgresStore(db, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Migrate(ctx); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	appLogger.Info("PostgreSQL ready",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return store, func() { db.Close() }
}

// openPublisher connects to Kafka, falling back to the in-memory publisher
func openPublisher(cfg *config.Config, appLogger *zap.Logger) (events.EventPublisher, func()) {
	if !cfg.KafkaEnabled {
		appLogger.Info("Kafka disabled, events are kept in memory")
		return events.NewInMemoryEventPublisher(appLogger), func() {}
	}

	publisher, err := events.NewKafkaEventPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Kafka unavailable, events are kept in memory",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return events.NewInMemoryEventPublisher(appLogger), func() {}
	}
	appLogger.Info("Kafka publisher ready",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic_stock", cfg.KafkaTopicStock),
		zap.String("topic_cases", cfg.KafkaTopicCases),
	)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			appLogger.Warn("Failed to close Kafka publisher", zap.Error(err))
		}
	}
}
