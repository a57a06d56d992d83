package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/go-gin-shop-server/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

const (
	// PlaceOrderActivityName runs one placement unit of work.
	PlaceOrderActivityName = "orders.activities.PlaceOrder"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder runs the placement workflow once. Business rejections come back
// as non-retryable application errors typed with their stable code.
func (a *Activities) PlaceOrder(ctx context.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("place order activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("place order activity not initialized")
	}
	logger.Info("PlaceOrder activity started", "customerId", input.CustomerID, "lines", len(input.Items))
	order, err := a.service.PlaceOrder(ctx, input)
	if err != nil {
		if code, ok := orderapp.ErrorCode(err); ok {
			logger.Info("PlaceOrder activity rejected", "customerId", input.CustomerID, "reason", code)
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), code, err)
		}
		if errors.Is(err, orderports.ErrIdempotencyConflict) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), IdempotencyConflictType, err)
		}
		logger.Error("PlaceOrder activity failed", "customerId", input.CustomerID, "error", err)
		return nil, err
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID)
	return order, nil
}

// IdempotencyConflictType marks an application error caused by a reused idempotency key.
const IdempotencyConflictType = "IdempotencyConflict"
