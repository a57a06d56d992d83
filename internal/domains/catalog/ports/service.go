package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
)

// Service exposes catalog administration use cases to adapters.
type Service interface {
	AddProduct(ctx context.Context, userID int64, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, code string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, userID int64, code string, update domain.Update) (*domain.Product, error)
	DeleteProduct(ctx context.Context, userID int64, code string) error
	AddStock(ctx context.Context, userID int64, code string, quantity int) (*domain.Product, error)
}
