// Package main is the entry point for the stockhub shop gateway.
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
	"stockhub/internal/gateway"
	"stockhub/internal/infrastructure/http/gatewayapi"
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

	log.Info("starting stockhub gateway")

	issuer := servicetoken.NewIssuer(mustEnv("SERVICE_TOKEN_SECRET"), "gateway")
	orchestrator := gateway.NewOrchestrator(gateway.Config{
		InventoryBaseURL: getEnv("INVENTORY_BASE_URL", "http://localhost:8080"),
		TokenIssuer:      issuer,
	})

	router := gatewayapi.NewRouter(gatewayapi.RouterConfig{
		Logger:     log,
		Operations: orchestrator,
	})

	port := getEnv("APP_PORT", "8081")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("gateway starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("gateway failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down gateway...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("gateway forced to shutdown", "error", err)
	}

	log.Info("gateway stopped")
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
