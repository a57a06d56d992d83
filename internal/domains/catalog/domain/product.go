package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidProductID is returned when a referenced product id does not resolve.
	ErrInvalidProductID = errors.New("a product id in the request is not valid")
	// ErrInvalidProductCode is returned when a product code is empty or does not resolve.
	ErrInvalidProductCode = errors.New("the product code is not valid")
	// ErrNotEnoughStock is returned when a requested quantity exceeds available stock.
	ErrNotEnoughStock = errors.New("a product did not have enough stock")
	// ErrStockInconsistency signals a decrement that would drive stock negative.
	// Reaching it means the caller skipped the locked sufficiency check.
	ErrStockInconsistency = errors.New("stock would become negative")

	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNegativeStock   = errors.New("stock cannot be negative")
	ErrInvalidPrice    = errors.New("price cannot be negative")
	ErrInvalidCurrency = errors.New("currency is not supported")
)

// Currency is the ISO code a product is priced in.
type Currency string

const (
	CurrencyRON Currency = "RON"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency normalises a currency code; empty defaults to RON.
func ParseCurrency(raw string) (Currency, error) {
	currency := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if currency == "" {
		return CurrencyRON, nil
	}
	if !currency.Valid() {
		return "", ErrInvalidCurrency
	}
	return currency, nil
}

// Valid reports whether c is supported.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyRON, CurrencyEUR, CurrencyUSD:
		return true
	default:
		return false
	}
}

// Product is a sellable item together with its stock count.
type Product struct {
	ID          int64
	Code        string
	Description string
	Price       decimal.Decimal
	Currency    Currency
	Valid       bool
	Stock       int
}

// Update carries the editable product attributes.
type Update struct {
	Valid       bool
	Price       decimal.Decimal
	Currency    Currency
	Description string
	Stock       int
}

// NewProduct validates and constructs a product.
func NewProduct(code string, price decimal.Decimal, currency Currency, description string, stock int) (*Product, error) {
	product := &Product{
		Code:        strings.TrimSpace(code),
		Description: strings.TrimSpace(description),
		Price:       price,
		Currency:    currency,
		Valid:       true,
		Stock:       stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Validate enforces invariants on the product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrInvalidProductCode
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if !p.Currency.Valid() {
		return ErrInvalidCurrency
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Apply overwrites the editable attributes. The code is immutable.
func (p *Product) Apply(update Update) error {
	next := *p
	next.Valid = update.Valid
	next.Price = update.Price
	next.Currency = update.Currency
	next.Description = strings.TrimSpace(update.Description)
	next.Stock = update.Stock
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}

// HasStock reports whether quantity units are available.
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}

// DecrementStock removes quantity units.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.Stock-quantity < 0 {
		return ErrStockInconsistency
	}
	p.Stock -= quantity
	return nil
}

// IncrementStock adds quantity units back.
func (p *Product) IncrementStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	return nil
}
