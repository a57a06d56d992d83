package mapper

import (
	"strconv"
	"time"

	orderdomain "github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

// PlaceOrder is the transport shape of a placement request. Product ids arrive
// as string keys because JSON object keys are always strings.
type PlaceOrder struct {
	CustomerID            int64
	ProductsIdsToQuantity map[string]int
}

// LineItem is one ordered product in the transport representation.
type LineItem struct {
	ProductID   int64
	ProductCode string
	Quantity    int
}

// Order represents the transport-layer shape used by the handlers.
type Order struct {
	ID         int64
	CustomerID int64
	Items      []LineItem
	Status     string
	Delivered  bool
	Canceled   bool
	Returned   bool
	PlacedAt   time.Time
}

// ToPlaceOrderInput converts a transport request into the service command.
// Keys that are not integers map to product id 0, which the service rejects.
// Keys naming the same id ("1", "01") are summed, but a non-positive quantity
// under any of them is kept as is so the service rejects the line.
func ToPlaceOrderInput(request PlaceOrder, idempotencyKey string) orderports.PlaceOrderInput {
	items := make(map[int64]int, len(request.ProductsIdsToQuantity))
	invalid := map[int64]int{}
	for rawID, quantity := range request.ProductsIdsToQuantity {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			id = 0
		}
		if quantity <= 0 {
			invalid[id] = quantity
			continue
		}
		items[id] += quantity
	}
	for id, quantity := range invalid {
		items[id] = quantity
	}
	return orderports.PlaceOrderInput{
		CustomerID:     request.CustomerID,
		Items:          items,
		IdempotencyKey: idempotencyKey,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItem{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		})
	}
	return Order{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Items:      items,
		Status:     string(order.Status()),
		Delivered:  order.Delivered,
		Canceled:   order.Canceled,
		Returned:   order.Returned,
		PlacedAt:   order.PlacedAt,
	}
}
