package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once an order and its stock decrements are committed.
type OrderPlaced struct {
	BaseEvent
	OrderID    int64
	CustomerID int64
	Items      []LineItem
}

func (e OrderPlaced) EventName() string  { return "orders.order.placed" }
func (e OrderPlaced) AggregateID() int64 { return e.OrderID }

// OrderDelivered is raised when an expeditor delivers an order.
type OrderDelivered struct {
	BaseEvent
	OrderID     int64
	ExpeditorID int64
}

func (e OrderDelivered) EventName() string  { return "orders.order.delivered" }
func (e OrderDelivered) AggregateID() int64 { return e.OrderID }

// OrderCanceled is raised when a client cancels an order.
type OrderCanceled struct {
	BaseEvent
	OrderID    int64
	CustomerID int64
}

func (e OrderCanceled) EventName() string  { return "orders.order.canceled" }
func (e OrderCanceled) AggregateID() int64 { return e.OrderID }

// OrderReturned is raised when a delivered order comes back and its items are restocked.
type OrderReturned struct {
	BaseEvent
	OrderID    int64
	CustomerID int64
	Items      []LineItem
}

func (e OrderReturned) EventName() string  { return "orders.order.returned" }
func (e OrderReturned) AggregateID() int64 { return e.OrderID }

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}
