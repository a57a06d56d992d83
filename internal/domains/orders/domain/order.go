package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidProducts       = errors.New("the order must contain at least one product")
	ErrInvalidOrderID        = errors.New("the supplied order id is not valid")
	ErrOrderCanceled         = errors.New("the order was canceled")
	ErrOrderAlreadyDelivered = errors.New("the order was already delivered")
	ErrOrderNotDeliveredYet  = errors.New("the order was not delivered yet")
	ErrOrderAlreadyReturned  = errors.New("the order was already returned")
	ErrInvalidQuantity       = errors.New("every ordered quantity must be greater than zero")
)

// Status is a derived, read-only view over the lifecycle flags.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
	StatusReturned  Status = "returned"
)

// LineItem is one product and quantity within an order. It never changes after placement.
type LineItem struct {
	ProductID   int64
	ProductCode string
	Quantity    int
}

// Order is the purchase aggregate. The lifecycle flags are independent and
// only change through Deliver, Cancel and Return.
type Order struct {
	ID         int64
	CustomerID int64
	Items      []LineItem
	Delivered  bool
	Canceled   bool
	Returned   bool
	PlacedAt   time.Time

	events []Event
}

// NewOrder builds a placed order owned by customerID. Items are sorted by product id.
func NewOrder(customerID int64, items []LineItem, placedAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidProducts
	}
	sorted := make([]LineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })
	for _, item := range sorted {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	return &Order{
		CustomerID: customerID,
		Items:      sorted,
		PlacedAt:   placedAt.UTC(),
	}, nil
}

// Deliver marks the order delivered unless it was canceled.
func (o *Order) Deliver(by int64, at time.Time) error {
	if o.Canceled {
		return ErrOrderCanceled
	}
	o.Delivered = true
	o.record(OrderDelivered{BaseEvent: BaseEvent{Timestamp: at}, OrderID: o.ID, ExpeditorID: by})
	return nil
}

// Cancel marks the order canceled. Only a returned order is too late to
// cancel; a delivered order that was not returned can still be canceled.
func (o *Order) Cancel(by int64, at time.Time) error {
	if o.Returned {
		return ErrOrderAlreadyDelivered
	}
	o.Canceled = true
	o.record(OrderCanceled{BaseEvent: BaseEvent{Timestamp: at}, OrderID: o.ID, CustomerID: by})
	return nil
}

// Return marks a delivered order returned. The caller restocks every item.
func (o *Order) Return(by int64, at time.Time) error {
	if !o.Delivered {
		return ErrOrderNotDeliveredYet
	}
	if o.Canceled {
		return ErrOrderCanceled
	}
	if o.Returned {
		return ErrOrderAlreadyReturned
	}
	o.Returned = true
	o.record(OrderReturned{BaseEvent: BaseEvent{Timestamp: at}, OrderID: o.ID, CustomerID: by, Items: o.LineItems()})
	return nil
}

// Status reports the most advanced lifecycle state.
func (o *Order) Status() Status {
	switch {
	case o.Returned:
		return StatusReturned
	case o.Canceled:
		return StatusCanceled
	case o.Delivered:
		return StatusDelivered
	default:
		return StatusPlaced
	}
}

// LineItems returns a copy of the items.
func (o *Order) LineItems() []LineItem {
	out := make([]LineItem, len(o.Items))
	copy(out, o.Items)
	return out
}

// TotalQuantity sums the ordered units.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// MarkPlaced records the placement event once the order has its id.
func (o *Order) MarkPlaced() {
	o.record(OrderPlaced{
		BaseEvent:  BaseEvent{Timestamp: o.PlacedAt},
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Items:      o.LineItems(),
	})
}

// Events returns the events recorded since the last ClearEvents.
func (o *Order) Events() []Event {
	out := make([]Event, len(o.events))
	copy(out, o.events)
	return out
}

// ClearEvents drops recorded events.
func (o *Order) ClearEvents() {
	o.events = nil
}

// Clone returns a deep copy without pending events.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = o.LineItems()
	clone.events = nil
	return &clone
}

func (o *Order) record(event Event) {
	o.events = append(o.events, event)
}
