package shopserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/http/mapper"
	orderdomain "github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

// IdempotencyKeyHeader lets clients retry POST /order safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI. A nil orchestrator places orders through the service directly.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /order
// Place an order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToPlaceOrderInput(orderhttpmapper.PlaceOrder{
		CustomerID:            payload.CustomerId,
		ProductsIdsToQuantity: payload.ProductsIdsToQuantity,
	}, strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)))
	order, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderModel(order))
}

func (api *OrderAPI) placeOrder(ctx context.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /order/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderModel(order))
}

// Patch /order/:orderId/:customerId
// Mark an order delivered
func (api *OrderAPI) DeliverOrder(c *gin.Context) {
	api.transition(c, api.service.Deliver)
}

// Patch /order/cancel/:orderId/:customerId
// Cancel an order
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	api.transition(c, api.service.Cancel)
}

// Patch /order/return/:orderId/:customerId
// Return a delivered order and restock its items
func (api *OrderAPI) ReturnOrder(c *gin.Context) {
	api.transition(c, api.service.Return)
}

func (api *OrderAPI) transition(c *gin.Context, apply func(ctx context.Context, orderID, userID int64) (*orderdomain.Order, error)) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	order, err := apply(c.Request.Context(), orderID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderModel(order))
}

func toOrderModel(order *orderdomain.Order) Order {
	transport := orderhttpmapper.FromDomainOrder(order)
	items := make([]OrderItem, 0, len(transport.Items))
	for _, item := range transport.Items {
		items = append(items, OrderItem{ProductId: item.ProductID, ProductCode: item.ProductCode, Quantity: item.Quantity})
	}
	return Order{
		Id:         transport.ID,
		CustomerId: transport.CustomerID,
		Items:      items,
		Status:     transport.Status,
		Delivered:  transport.Delivered,
		Canceled:   transport.Canceled,
		Returned:   transport.Returned,
		PlacedAt:   transport.PlacedAt,
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return id, true
}
