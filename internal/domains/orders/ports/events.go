package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
)

// EventPublisher ships committed order events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
