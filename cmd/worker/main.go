// Package main is the entry point for the stockhub background worker:
// reservation expiry reaper and outbox relay.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockhub/internal/domain/reservation"
	"stockhub/internal/domain/stock"
	"stockhub/internal/infrastructure/messaging/kafka"
	"stockhub/internal/infrastructure/storage/postgres"
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

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting stockhub worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	stockRepo := stock_repo.NewRepo(txManager)
	reservationRepo := reservation_repo.NewRepo(txManager)

	// The reaper needs only the release path, not the availability gate.
	// Released holds still record their status transitions through the outbox.
	outbox := postgres.NewOutboxStore(txManager)
	stockService := stock.NewService(stockRepo, nopProducts{}, outbox, txManager)
	reservationService := reservation.NewService(stockService, reservationRepo)

	reaper := reservation.NewReaper(reservationService, reservation.ReaperConfig{
		Interval:  getEnvDuration("REAPER_INTERVAL", time.Minute),
		BatchSize: getEnvInt("REAPER_BATCH_SIZE", 100),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		reaper.Run(ctx)
	}()

	// Outbox relay: pending stock events go to Kafka.
	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	producer := kafka.NewProducer(brokers, getEnv("KAFKA_TOPIC", kafka.DefaultTopic))
	defer producer.Close()

	relay := postgres.NewOutboxRelay(pool.Unwrap(), getEnvInt("OUTBOX_BATCH_SIZE", 100), producer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runRelay(ctx, relay, getEnvDuration("OUTBOX_INTERVAL", 5*time.Second), log)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// runRelay pumps the outbox on a fixed interval until cancelled.
func runRelay(ctx context.Context, relay *postgres.OutboxRelay, interval time.Duration, log *logger.Logger) {
	log.Infow("outbox relay started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			processed, err := relay.ProcessBatch(ctx)
			if err != nil {
				log.Errorw("outbox batch failed", "error", err)
				continue
			}
			if processed > 0 {
				log.Infow("outbox batch published", "count", processed)
			}
		}
	}
}

// nopProducts satisfies the ledger's product gate; the reaper never reads it.
type nopProducts struct{}

func (nopProducts) Lookup(ctx context.Context, sku string) (*stock.ProductInfo, error) {
	return nil, nil
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
