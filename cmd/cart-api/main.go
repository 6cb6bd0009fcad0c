// cmd/cart-api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-services/internal/config"
	"github.com/your-org/shop-services/internal/domain/cart"
	"github.com/your-org/shop-services/internal/infrastructure/database/memory"
	"github.com/your-org/shop-services/internal/infrastructure/database/mongodb"
	"github.com/your-org/shop-services/internal/infrastructure/database/redis"
	"github.com/your-org/shop-services/internal/infrastructure/tracing"
	"github.com/your-org/shop-services/internal/interfaces/http"
	"github.com/your-org/shop-services/internal/interfaces/http/routes"
	"github.com/your-org/shop-services/internal/pkg/auth"
	"github.com/your-org/shop-services/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load("cart-api", "8081", config.DriverMongo)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
	}).Infof("starting %s", cfg.App.Name)

	ctx := context.Background()

	shutdownTracing, err := tracing.InitTracing(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	checks := map[string]http.HealthCheck{}

	var repo cart.Repository
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongodb.NewConnection(ctx, cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Close(context.Background())

		mongoRepo := mongodb.NewCartRepository(client.Database, cfg.Mongo.CartCollection)
		if err := mongoRepo.CreateIndexes(ctx); err != nil {
			log.Fatalf("Failed to create cart indexes: %v", err)
		}
		repo = mongoRepo
		checks["mongodb"] = client.Health
	case config.DriverMemory:
		log.Warn("using in-memory cart store, carts are lost on restart")
		repo = memory.NewCartStore()
	default:
		log.Fatalf("Storage driver %q is not supported by the cart service", cfg.Storage.Driver)
	}

	var redisClient *redis.Client
	if cfg.Security.RateLimitEnabled {
		redisClient, err = redis.NewConnection(ctx, cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	}

	cartService := cart.NewService(repo, log)
	jwtManager := auth.NewJWTManager(cfg)

	server := http.NewServer(cfg, log, redisClient.GetClient(), checks, func(apiV1 *gin.RouterGroup) {
		routes.SetupCartRoutes(apiV1, cartService, jwtManager)
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to shutdown HTTP server gracefully")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to flush traces")
	}

	log.Info("server shutdown completed")
}
