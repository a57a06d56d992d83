package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
)

// Product is the transport-level product payload. Price travels as a decimal string.
type Product struct {
	ID          int64
	Code        string
	Description string
	Price       string
	Currency    string
	Valid       bool
	Stock       int
}

// ToDomainProduct converts a transport product to a validated domain product.
func ToDomainProduct(model Product) (*catalogdomain.Product, error) {
	price, currency, err := parsePricing(model.Price, model.Currency)
	if err != nil {
		return nil, err
	}
	return catalogdomain.NewProduct(model.Code, price, currency, model.Description, model.Stock)
}

// ToDomainUpdate converts a transport product into the editable attribute set.
func ToDomainUpdate(model Product) (catalogdomain.Update, error) {
	price, currency, err := parsePricing(model.Price, model.Currency)
	if err != nil {
		return catalogdomain.Update{}, err
	}
	return catalogdomain.Update{
		Valid:       model.Valid,
		Price:       price,
		Currency:    currency,
		Description: model.Description,
		Stock:       model.Stock,
	}, nil
}

// FromDomainProduct converts a domain product into a transport representation.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:          product.ID,
		Code:        product.Code,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Currency:    string(product.Currency),
		Valid:       product.Valid,
		Stock:       product.Stock,
	}
}

// FromDomainProducts converts a slice of domain products.
func FromDomainProducts(products []*catalogdomain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomainProduct(product))
	}
	return result
}

func parsePricing(rawPrice, rawCurrency string) (decimal.Decimal, catalogdomain.Currency, error) {
	price := decimal.Zero
	if rawPrice != "" {
		parsed, err := decimal.NewFromString(rawPrice)
		if err != nil {
			return decimal.Zero, "", catalogdomain.ErrInvalidPrice
		}
		price = parsed
	}
	currency, err := catalogdomain.ParseCurrency(rawCurrency)
	if err != nil {
		return decimal.Zero, "", err
	}
	return price, currency, nil
}
