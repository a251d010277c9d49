// Package main is the entry point for the stockhub inventory service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockhub/internal/core/servicetoken"
	"stockhub/internal/domain/catalog/product"
	"stockhub/internal/domain/catalog/warehouse"
	"stockhub/internal/domain/damaged"
	"stockhub/internal/domain/reservation"
	"stockhub/internal/domain/stock"
	v1 "stockhub/internal/infrastructure/http/v1"
	"stockhub/internal/infrastructure/storage/postgres"
	"stockhub/internal/infrastructure/storage/postgres/catalog_repo"
	"stockhub/internal/infrastructure/storage/postgres/damaged_repo"
	"stockhub/internal/infrastructure/storage/postgres/reservation_repo"
	"stockhub/internal/infrastructure/storage/postgres/stock_repo"
	"stockhub/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting stockhub inventory service")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	stockRepo := stock_repo.NewRepo(txManager)
	reservationRepo := reservation_repo.NewRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	warehouseRepo := catalog_repo.NewWarehouseRepo(txManager)
	damagedRepo := damaged_repo.NewRepo(txManager)
	outbox := postgres.NewOutboxStore(txManager)

	// --- Services ---
	warehouseService := warehouse.NewService(warehouseRepo, stockRepo)
	productService := product.NewService(productRepo, stockRepo, warehouseService)
	stockService := stock.NewService(stockRepo, productService, outbox, txManager)
	reservationService := reservation.NewService(stockService, reservationRepo)
	damagedService := damaged.NewService(damagedRepo, stockService)

	// --- Router ---
	tokenValidator := servicetoken.NewValidator(mustEnv("SERVICE_TOKEN_SECRET"))
	router, err := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		TokenValidator: tokenValidator,
		Stocks:         stockService,
		Reservations:   reservationService,
		Products:       productService,
		Warehouses:     warehouseService,
		Returns:        damagedService,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
