// Package postgres owns the shared GORM handle and the row-locking unit of work.
package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool bounds the connections kept by the database/sql pool under GORM.
// Each in-flight placement holds one connection for the life of its transaction.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	PingTimeout time.Duration
}

// DefaultPool is used by Connect.
var DefaultPool = Pool{MaxOpen: 20, MaxIdle: 5, MaxLifetime: 30 * time.Minute, PingTimeout: 5 * time.Second}

var errEmptyDSN = errors.New("postgres DSN is empty")

// Connect opens dsn with DefaultPool and pings it.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	return ConnectWithPool(ctx, dsn, DefaultPool)
}

// ConnectWithPool opens dsn and pings it. Driver errors are translated, so a
// unique violation surfaces as gorm.ErrDuplicatedKey and a check violation as
// gorm.ErrCheckConstraintViolated.
func ConnectWithPool(ctx context.Context, dsn string, pool Pool) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errEmptyDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pool.PingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// ConnectOptional returns a nil DB and a no-op cleanup when dsn is empty or
// unreachable; callers then wire the in-memory adapters.
func ConnectOptional(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		if errors.Is(err, errEmptyDSN) {
			logger.Warn("POSTGRES_DSN not set, using in-memory repositories")
		} else {
			logger.Warn("postgres unavailable, using in-memory repositories", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
