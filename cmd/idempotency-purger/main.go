package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Apurer/go-gin-shop-server/internal/app/api"
)

func main() {
	_ = godotenv.Load()
	if err := run(); err != nil {
		log.Fatalf("idempotency purger: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	services, cleanup, err := api.BuildServices(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = purgeExpired(ctx, services, cfg.IdempotencyTTL, time.Now(), logger)
	return err
}

// errNoSharedStore is returned when only a fresh in-memory store is available.
var errNoSharedStore = errors.New("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")

func purgeExpired(ctx context.Context, services *api.Services, ttl time.Duration, now time.Time, logger *slog.Logger) (int64, error) {
	if services.Purger == nil {
		logger.Info("idempotency keys expire in redis, nothing to purge")
		return 0, nil
	}
	if !services.SharedState {
		return 0, errNoSharedStore
	}
	cutoff := now.UTC().Add(-ttl)
	purged, err := services.Purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("idempotency purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
	return purged, nil
}
