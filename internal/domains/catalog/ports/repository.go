package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
)

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateCode = errors.New("product code already exists")
)

// Repository persists products and backs the inventory ledger.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	// LockByID loads the product and holds its row lock until the surrounding
	// unit of work ends. Callers must be inside transaction.Transactor.WithinTx.
	LockByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
	DeleteByCode(ctx context.Context, code string) error
	List(ctx context.Context) ([]*domain.Product, error)
}
