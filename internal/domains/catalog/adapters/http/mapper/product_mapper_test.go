package mapper

import (
	"testing"

	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
)

func TestToDomainProduct_DefaultsCurrency(t *testing.T) {
	product, err := ToDomainProduct(Product{Code: "SKU-1", Price: "9.5", Stock: 2})
	require.NoError(t, err)
	require.Equal(t, catalogdomain.CurrencyRON, product.Currency)
	require.True(t, product.Valid)

	out := FromDomainProduct(product)
	require.Equal(t, "9.50", out.Price)
	require.Equal(t, "RON", out.Currency)
}

func TestToDomainProduct_RejectsBadInput(t *testing.T) {
	_, err := ToDomainProduct(Product{Code: "SKU-1", Price: "abc"})
	require.ErrorIs(t, err, catalogdomain.ErrInvalidPrice)

	_, err = ToDomainProduct(Product{Code: "SKU-1", Currency: "GBP"})
	require.ErrorIs(t, err, catalogdomain.ErrInvalidCurrency)

	_, err = ToDomainUpdate(Product{Price: "-1"})
	require.NoError(t, err)
}
