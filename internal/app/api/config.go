package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	orderkafka "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/kafka"
	orderredis "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/redis"
)

// Config carries environment-driven settings for the shop processes.
type Config struct {
	Port                  string
	PostgresDSN           string
	TemporalAddress       string
	TemporalNamespace     string
	TemporalDisabled      bool
	KafkaBrokers          []string
	KafkaOrderEventsTopic string
	RedisAddr             string
	RedisPassword         string
	IdempotencyTTL        time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                  envDefault("PORT", "8080"),
		PostgresDSN:           strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:       envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:     envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:      isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderEventsTopic: envDefault("KAFKA_ORDER_EVENTS_TOPIC", orderkafka.DefaultTopic),
		RedisAddr:             strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		IdempotencyTTL:        orderredis.DefaultTTL,
	}
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
