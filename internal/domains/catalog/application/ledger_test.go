package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
)

func TestLedger_HasSufficientStock(t *testing.T) {
	repo := memory.NewRepository(nil)
	product := seedProduct(t, repo, "SKU-1", 3)
	ledger := NewLedger(repo)
	ctx := context.Background()

	ok, err := ledger.HasSufficientStock(ctx, product.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ledger.HasSufficientStock(ctx, product.ID, 4)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = ledger.HasSufficientStock(ctx, 0, 1)
	require.ErrorIs(t, err, domain.ErrInvalidProductID)
	_, err = ledger.HasSufficientStock(ctx, 404, 1)
	require.ErrorIs(t, err, domain.ErrInvalidProductID)
}

func TestLedger_DecrementAndIncrement(t *testing.T) {
	repo := memory.NewRepository(nil)
	product := seedProduct(t, repo, "SKU-1", 5)
	ledger := NewLedger(repo)
	ctx := context.Background()

	require.NoError(t, ledger.DecrementStock(ctx, product.ID, 5))
	require.Equal(t, 0, stockOf(t, repo, product.ID))

	require.ErrorIs(t, ledger.DecrementStock(ctx, product.ID, 1), domain.ErrStockInconsistency)
	require.Equal(t, 0, stockOf(t, repo, product.ID))

	require.NoError(t, ledger.IncrementStock(ctx, product.ID, 2))
	require.Equal(t, 2, stockOf(t, repo, product.ID))

	require.ErrorIs(t, ledger.IncrementStock(ctx, product.ID, 0), domain.ErrInvalidQuantity)
	require.ErrorIs(t, ledger.DecrementStock(ctx, product.ID, -1), domain.ErrInvalidQuantity)
	require.ErrorIs(t, ledger.IncrementStock(ctx, 404, 1), domain.ErrInvalidProductID)
}

func seedProduct(t *testing.T, repo *memory.Repository, code string, stock int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(code, decimal.NewFromInt(10), domain.CurrencyRON, "", stock)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func stockOf(t *testing.T, repo *memory.Repository, id int64) int {
	t.Helper()
	product, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}
