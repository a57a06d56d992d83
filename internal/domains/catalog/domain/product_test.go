package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Validation(t *testing.T) {
	_, err := NewProduct(" ", decimal.NewFromInt(10), CurrencyRON, "", 1)
	require.ErrorIs(t, err, ErrInvalidProductCode)

	_, err = NewProduct("P-1", decimal.NewFromInt(-1), CurrencyRON, "", 1)
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("P-1", decimal.NewFromInt(1), Currency("XYZ"), "", 1)
	require.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = NewProduct("P-1", decimal.NewFromInt(1), CurrencyRON, "", -1)
	require.ErrorIs(t, err, ErrNegativeStock)

	product, err := NewProduct(" P-1 ", decimal.RequireFromString("19.99"), CurrencyEUR, " mug ", 3)
	require.NoError(t, err)
	require.Equal(t, "P-1", product.Code)
	require.Equal(t, "mug", product.Description)
	require.True(t, product.Valid)
}

func TestProduct_StockMovements(t *testing.T) {
	product, err := NewProduct("P-1", decimal.NewFromInt(5), CurrencyRON, "", 2)
	require.NoError(t, err)

	require.True(t, product.HasStock(2))
	require.False(t, product.HasStock(3))

	require.NoError(t, product.DecrementStock(2))
	require.Equal(t, 0, product.Stock)

	require.ErrorIs(t, product.DecrementStock(1), ErrStockInconsistency)
	require.Equal(t, 0, product.Stock)

	require.NoError(t, product.IncrementStock(2))
	require.Equal(t, 2, product.Stock)

	require.ErrorIs(t, product.IncrementStock(0), ErrInvalidQuantity)
	require.ErrorIs(t, product.DecrementStock(-1), ErrInvalidQuantity)
}

func TestProduct_ApplyKeepsCodeAndRejectsInvalidUpdates(t *testing.T) {
	product, err := NewProduct("P-1", decimal.NewFromInt(5), CurrencyRON, "old", 2)
	require.NoError(t, err)

	err = product.Apply(Update{Valid: false, Price: decimal.NewFromInt(7), Currency: CurrencyUSD, Description: "new", Stock: -4})
	require.ErrorIs(t, err, ErrNegativeStock)
	require.Equal(t, "old", product.Description)

	require.NoError(t, product.Apply(Update{Valid: false, Price: decimal.NewFromInt(7), Currency: CurrencyUSD, Description: "new", Stock: 9}))
	require.Equal(t, "P-1", product.Code)
	require.False(t, product.Valid)
	require.Equal(t, 9, product.Stock)
	require.True(t, product.Price.Equal(decimal.NewFromInt(7)))
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("")
	require.NoError(t, err)
	require.Equal(t, CurrencyRON, c)

	c, err = ParseCurrency("eur")
	require.NoError(t, err)
	require.Equal(t, CurrencyEUR, c)

	_, err = ParseCurrency("btc")
	require.ErrorIs(t, err, ErrInvalidCurrency)
}
