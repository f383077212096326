package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perkakas/internal/config"
	"perkakas/internal/database"
	"perkakas/internal/handlers"
	"perkakas/internal/logger"
	"perkakas/internal/repositories"
	"perkakas/internal/server"
	"perkakas/internal/services"
	"perkakas/pkg/rabbitmq"
	"perkakas/pkg/redis"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// --- Configuration ---
	// A missing .env is fine, the environment wins either way.
	_ = godotenv.Load()
	v := viper.New()
	v.AutomaticEnv()
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, closeStore, err := database.Open(startCtx, cfg, zl)
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			zl.Warn("error closing store", zap.Error(err))
		}
	}()

	var repo repositories.ProductRepository = store
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		repo = repositories.NewCachedProductRepository(store, redis.NewProductCache(client, cfg.CacheTTL), zl)
		zl.Info("product cache enabled", zap.Duration("ttl", cfg.CacheTTL))
	}

	// --- Events ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, zl)
		if err != nil {
			return fmt.Errorf("initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeCatalogEvents(rabbitmq.LogEvent(zl)); err != nil {
			zl.Warn("failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	// --- Services and handlers ---
	productService := services.NewProductService(repo, publisher, zl, cfg.StoreTimeout)
	if cfg.SeedOnStartup {
		inserted, err := productService.Seed(ctx, services.DefaultCatalog())
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		zl.Info("startup seed finished", zap.Int("inserted", inserted))
	}

	productHandler := handlers.NewProductHandler(productService, zl)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(store, cfg.DatabaseURL != "", cfg.DatabaseName, cfg.StoreTimeout)
	app := server.New(productHandler, diagnosticsHandler, zl)

	return serve(ctx, app, cfg.ListenAddr(), zl)
}

// serve runs app until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, app *fiber.App, addr string, zl *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		zl.Info("starting server", zap.String("addr", addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	zl.Info("server gracefully stopped")
	return nil
}
