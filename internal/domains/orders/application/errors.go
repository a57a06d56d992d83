package application

import (
	"errors"
	"fmt"

	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
)

var (
	// ErrInvalidInput signals the request was rejected by a business rule.
	ErrInvalidInput = errors.New("invalid order request")
)

// rejection pairs a stable code with the sentinel it stands for. Codes cross
// process boundaries (workflow results), so they must never be renamed.
type rejection struct {
	code string
	err  error
}

var rejections = []rejection{
	{"InvalidCustomerId", userdomain.ErrInvalidCustomerID},
	{"InvalidOperation", userdomain.ErrInvalidOperation},
	{"InvalidProducts", domain.ErrInvalidProducts},
	{"InvalidQuantity", domain.ErrInvalidQuantity},
	{"InvalidProductId", catalogdomain.ErrInvalidProductID},
	{"InvalidProductCode", catalogdomain.ErrInvalidProductCode},
	{"NotEnoughStock", catalogdomain.ErrNotEnoughStock},
	{"InvalidOrderId", domain.ErrInvalidOrderID},
	{"OrderCanceled", domain.ErrOrderCanceled},
	{"OrderAlreadyDelivered", domain.ErrOrderAlreadyDelivered},
	{"OrderNotDeliveredYet", domain.ErrOrderNotDeliveredYet},
	{"OrderAlreadyReturned", domain.ErrOrderAlreadyReturned},
	{"StockInconsistency", catalogdomain.ErrStockInconsistency},
}

// ErrorCode returns the stable code of the first taxonomy sentinel err wraps.
func ErrorCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.code, true
		}
	}
	return "", false
}

// ErrorFromCode rebuilds the service error for a code produced by ErrorCode.
// Unknown codes yield nil.
func ErrorFromCode(code string) error {
	for _, r := range rejections {
		if r.code == code {
			return mapError(r.err)
		}
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, catalogdomain.ErrStockInconsistency) {
		return err
	}
	if _, ok := ErrorCode(err); ok {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
