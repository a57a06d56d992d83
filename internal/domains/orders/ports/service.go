package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
)

// PlaceOrderInput is a placement request. Items maps product id to quantity.
type PlaceOrderInput struct {
	CustomerID     int64
	Items          map[int64]int
	IdempotencyKey string
}

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	Deliver(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	Return(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}
