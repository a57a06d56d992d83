package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderdomain "github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/go-gin-shop-server/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the placement activity exactly once. A
// failed placement is rolled back and the caller must resubmit, so there is
// no retry.
func RunOrderPlacementSequence(ctx workflow.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "customerId", input.CustomerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}

	var order orderdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "customerId", input.CustomerID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", order.ID)
	return &order, nil
}
