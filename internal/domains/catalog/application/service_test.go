package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	usermemory "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/memory"
	userapp "github.com/Apurer/go-gin-shop-server/internal/domains/users/application"
	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"
)

type catalogFixture struct {
	svc       *Service
	repo      *memory.Repository
	admin     int64
	editor    int64
	client    int64
	expeditor int64
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()
	store := platformmemory.NewStore()
	users := usermemory.NewRepository(store)
	repo := memory.NewRepository(store)
	fx := catalogFixture{
		svc:  NewService(repo, userapp.NewGatekeeper(users), store),
		repo: repo,
	}
	fx.admin = saveUser(t, users, "admin", userdomain.RoleAdmin)
	fx.editor = saveUser(t, users, "editor", userdomain.RoleEditor)
	fx.client = saveUser(t, users, "client", userdomain.RoleClient)
	fx.expeditor = saveUser(t, users, "expeditor", userdomain.RoleExpeditor)
	return fx
}

func saveUser(t *testing.T, repo *usermemory.Repository, name string, roles ...userdomain.Role) int64 {
	t.Helper()
	user, err := userdomain.NewUser(0, name, roles...)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), user)
	require.NoError(t, err)
	return saved.ID
}

func newProduct(t *testing.T, code string, stock int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(code, decimal.RequireFromString("19.99"), domain.CurrencyEUR, "widget", stock)
	require.NoError(t, err)
	return product
}

func TestAddProduct_AdminOnly(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()

	created, err := fx.svc.AddProduct(ctx, fx.admin, newProduct(t, "SKU-1", 4))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = fx.svc.AddProduct(ctx, fx.editor, newProduct(t, "SKU-2", 4))
	require.ErrorIs(t, err, userdomain.ErrInvalidOperation)

	_, err = fx.svc.AddProduct(ctx, fx.client, newProduct(t, "SKU-3", 4))
	require.ErrorIs(t, err, userdomain.ErrInvalidOperation)

	_, err = fx.svc.AddProduct(ctx, 0, newProduct(t, "SKU-3", 4))
	require.ErrorIs(t, err, userdomain.ErrInvalidCustomerID)

	_, err = fx.svc.AddProduct(ctx, fx.admin, newProduct(t, "SKU-1", 1))
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrDuplicateCode)
}

func TestUpdateProduct_KeepsCode(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	_, err := fx.svc.AddProduct(ctx, fx.admin, newProduct(t, "SKU-1", 4))
	require.NoError(t, err)

	updated, err := fx.svc.UpdateProduct(ctx, fx.editor, "SKU-1", domain.Update{
		Valid:       false,
		Price:       decimal.RequireFromString("5.00"),
		Currency:    domain.CurrencyUSD,
		Description: "discontinued",
		Stock:       9,
	})
	require.NoError(t, err)
	require.Equal(t, "SKU-1", updated.Code)
	require.False(t, updated.Valid)
	require.Equal(t, 9, updated.Stock)
	require.True(t, decimal.RequireFromString("5").Equal(updated.Price))

	_, err = fx.svc.UpdateProduct(ctx, fx.editor, "SKU-1", domain.Update{Currency: domain.CurrencyRON, Stock: -1})
	require.ErrorIs(t, err, domain.ErrNegativeStock)

	_, err = fx.svc.UpdateProduct(ctx, fx.editor, "missing", domain.Update{Currency: domain.CurrencyRON})
	require.ErrorIs(t, err, domain.ErrInvalidProductCode)

	_, err = fx.svc.UpdateProduct(ctx, fx.expeditor, "SKU-1", domain.Update{Currency: domain.CurrencyRON})
	require.ErrorIs(t, err, userdomain.ErrInvalidOperation)
}

func TestDeleteProduct_AdminOnly(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	_, err := fx.svc.AddProduct(ctx, fx.admin, newProduct(t, "SKU-1", 4))
	require.NoError(t, err)

	require.ErrorIs(t, fx.svc.DeleteProduct(ctx, fx.editor, "SKU-1"), userdomain.ErrInvalidOperation)
	require.NoError(t, fx.svc.DeleteProduct(ctx, fx.admin, "SKU-1"))

	_, err = fx.svc.GetProduct(ctx, "SKU-1")
	require.ErrorIs(t, err, domain.ErrInvalidProductCode)
	require.ErrorIs(t, fx.svc.DeleteProduct(ctx, fx.admin, ""), domain.ErrInvalidProductCode)
}

func TestAddStock(t *testing.T) {
	fx := newCatalogFixture(t)
	ctx := context.Background()
	_, err := fx.svc.AddProduct(ctx, fx.admin, newProduct(t, "SKU-1", 4))
	require.NoError(t, err)

	restocked, err := fx.svc.AddStock(ctx, fx.admin, "SKU-1", 6)
	require.NoError(t, err)
	require.Equal(t, 10, restocked.Stock)

	_, err = fx.svc.AddStock(ctx, fx.admin, "SKU-1", 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = fx.svc.AddStock(ctx, fx.editor, "SKU-1", 1)
	require.ErrorIs(t, err, userdomain.ErrInvalidOperation)

	list, err := fx.svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 10, list[0].Stock)
}
