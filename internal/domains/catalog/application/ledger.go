package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
)

// Ledger is the inventory ledger over product stock. Every method locks the
// product row first, so a sufficiency check and the decrement that follows it
// inside the same unit of work observe the same stock value.
type Ledger struct {
	repo ports.Repository
}

func NewLedger(repo ports.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// HasSufficientStock reports whether at least quantity units are available.
func (l *Ledger) HasSufficientStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	product, err := l.lock(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.HasStock(quantity), nil
}

// DecrementStock subtracts quantity, failing with domain.ErrStockInconsistency
// rather than letting stock go negative.
func (l *Ledger) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	product, err := l.lock(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.DecrementStock(quantity); err != nil {
		return err
	}
	return l.repo.UpdateStock(ctx, product.ID, product.Stock)
}

// IncrementStock adds quantity back to stock.
func (l *Ledger) IncrementStock(ctx context.Context, productID int64, quantity int) error {
	product, err := l.lock(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.IncrementStock(quantity); err != nil {
		return err
	}
	return l.repo.UpdateStock(ctx, product.ID, product.Stock)
}

func (l *Ledger) lock(ctx context.Context, productID int64) (*domain.Product, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidProductID
	}
	product, err := l.repo.LockByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.ErrInvalidProductID
		}
		return nil, err
	}
	return product, nil
}
