package main

// @title MapperTrip GeoSync API
// @version 1.0.0
// @description Зоны безопасности MapperTrip: список, массовое создание, связывание
// @description с административными границами и отчёты запусков синхронизации.
// @description
// @description Этот же API служит хранилищем зон для CLI geosync в режиме store=api.

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/mappertrip/geosync/docs"
	"github.com/mappertrip/geosync/internal/config"
	httpDelivery "github.com/mappertrip/geosync/internal/delivery/http"
	"github.com/mappertrip/geosync/internal/delivery/http/handler"
	"github.com/mappertrip/geosync/internal/domain/repository"
	"github.com/mappertrip/geosync/internal/pkg/logger"
	"github.com/mappertrip/geosync/internal/repository/cache"
	"github.com/mappertrip/geosync/internal/repository/postgres"
	"github.com/mappertrip/geosync/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting GeoSync API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	checks := map[string]handler.HealthCheck{
		"postgres": db.Health,
	}

	// 4. Connect to Redis (только отчёты запусков, без него API работает)
	var cacheRepo repository.CacheRepository
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Warn("Redis unavailable, run reports disabled", zap.Error(err))
		} else {
			cacheRepo = cache.NewCacheRepository(redisClient)
			checks["redis"] = redisClient.Health
		}
	}

	// 5. Initialize Repositories and Use Cases
	zoneRepo := postgres.NewZoneRepository(db)

	zoneUC := usecase.NewZoneUseCase(zoneRepo, log)
	reportUC := usecase.NewRunReportUseCase(cacheRepo, cfg.Cache.RunReportTTL, log)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewZoneHandler(zoneUC, log),
		handler.NewReportHandler(reportUC, log),
		handler.NewHealthHandler(checks, log),
	)

	// 7. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
