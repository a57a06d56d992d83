package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
)

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Repository abstracts persistence for orders and their line items.
type Repository interface {
	// Save inserts a new order (ID 0) with its items, or updates the lifecycle flags of an existing one.
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// LockByID loads the order and holds its row lock until the unit of work ends.
	LockByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}
