package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	orderkafka "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/kafka"
	ordermemory "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/persistence/postgres"
	orderredis "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/redis"
	orderapp "github.com/Apurer/go-gin-shop-server/internal/domains/orders/application"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	usermemory "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/Apurer/go-gin-shop-server/internal/domains/users/application"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"
	"github.com/Apurer/go-gin-shop-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-shop-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-shop-server/internal/platform/postgres"
	platformredis "github.com/Apurer/go-gin-shop-server/internal/platform/redis"
	"github.com/Apurer/go-gin-shop-server/internal/shared/transaction"
)

// Services are the instrumented use cases shared by the API and the worker.
type Services struct {
	Orders  orderports.Service
	Catalog catalogports.Service
	Users   userports.Service
	// Purger is nil when the idempotency store expires keys on its own.
	Purger orderports.IdempotencyPurger
	// SharedState is true when repositories live in postgres and other
	// processes (the Temporal worker) see the same products, users and orders.
	SharedState bool
}

type repositories struct {
	users    userports.Repository
	products catalogports.Repository
	orders   orderports.Repository
	tx       transaction.Transactor
}

// BuildServices wires repositories, idempotency, and event publishing from cfg.
// Postgres, Redis, and Kafka are optional; each falls back to an in-process
// adapter when unset or unreachable. The returned cleanup releases every connection.
func BuildServices(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Services, func(), error) {
	logger := effectiveLogger(instruments)
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	db, closeDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("apply migrations: %w", err)
		}
	}
	repos := buildRepositories(db)

	idempotency, purger, closeIdem := buildIdempotencyStore(ctx, cfg, db, logger)
	cleanups = append(cleanups, closeIdem)

	publisher, closePublisher := buildEventPublisher(cfg, logger)
	cleanups = append(cleanups, closePublisher)

	gatekeeper := userapp.NewGatekeeper(repos.users)
	orders := orderobs.New(
		orderapp.NewService(
			repos.orders,
			repos.products,
			gatekeeper,
			repos.tx,
			orderapp.WithIdempotencyStore(idempotency),
			orderapp.WithEventPublisher(publisher),
			orderapp.WithLogger(logger),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	catalog := catalogobs.New(
		catalogapp.NewService(repos.products, gatekeeper, repos.tx),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	users := userobs.New(
		userapp.NewService(repos.users),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	return &Services{
		Orders:      orders,
		Catalog:     catalog,
		Users:       users,
		Purger:      purger,
		SharedState: db != nil,
	}, cleanup, nil
}

func buildRepositories(db *gorm.DB) repositories {
	if db == nil {
		store := platformmemory.NewStore()
		return repositories{
			users:    usermemory.NewRepository(store),
			products: catalogmemory.NewRepository(store),
			orders:   ordermemory.NewRepository(store),
			tx:       store,
		}
	}
	return repositories{
		users:    userpostgres.NewRepository(db),
		products: catalogpostgres.NewRepository(db),
		orders:   orderpostgres.NewRepository(db),
		tx:       platformpostgres.NewTransactor(db),
	}
}

// buildIdempotencyStore prefers Redis when configured, then the transactional
// Postgres table, then process memory.
func buildIdempotencyStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (orderports.IdempotencyStore, orderports.IdempotencyPurger, func()) {
	if client, closeClient := platformredis.ConnectOptional(ctx, cfg.RedisAddr, cfg.RedisPassword, logger); client != nil {
		logger.Info("order idempotency keys stored in redis", slog.Duration("ttl", cfg.IdempotencyTTL))
		return orderredis.NewIdempotencyStore(client, cfg.IdempotencyTTL), nil, closeClient
	}
	if db != nil {
		store := orderpostgres.NewIdempotencyStore(db)
		return store, store, func() {}
	}
	store := ordermemory.NewIdempotencyStore().Expire(cfg.IdempotencyTTL)
	return store, store, func() {}
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, order events are not published")
		return orderports.NoopPublisher{}, func() {}
	}
	publisher := orderkafka.NewPublisher(
		orderkafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaOrderEventsTopic),
		orderkafka.WithLogger(logger),
	)
	logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaOrderEventsTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}
