// Package kafka publishes committed order events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

const (
	// DefaultTopic receives every order lifecycle event.
	DefaultTopic = "orders.events"
	// EventVersion is bumped when a payload shape changes incompatibly.
	EventVersion = 1
)

// Envelope wraps every event payload on the wire.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// LineItemPayload is the wire form of an order line.
type LineItemPayload struct {
	ProductID   int64  `json:"product_id"`
	ProductCode string `json:"product_code"`
	Quantity    int    `json:"quantity"`
}

// OrderEventPayload carries the fields shared by all order events.
type OrderEventPayload struct {
	OrderID int64             `json:"order_id"`
	UserID  int64             `json:"user_id"`
	Items   []LineItemPayload `json:"items,omitempty"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes one message per event, keyed by order id so a single
// order's events stay on one partition in commit order.
type Publisher struct {
	writer   MessageWriter
	producer string
	logger   *slog.Logger
	newID    func() string
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithProducer(name string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.producer = name
		}
	}
}

// NewWriter builds a synchronous kafka writer for topic.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// NewPublisher wraps writer.
func NewPublisher(writer MessageWriter, opts ...Option) *Publisher {
	p := &Publisher{
		writer:   writer,
		producer: "shop-api",
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Publish encodes and writes events. Failures are logged and returned; the
// caller decides whether they matter.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.writer == nil {
		return errors.New("kafka publisher not configured")
	}
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		msg, err := p.message(ctx, event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order events",
			slog.Int("event.count", len(msgs)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) message(ctx context.Context, event domain.Event) (kafkago.Message, error) {
	payload, err := json.Marshal(toPayload(event))
	if err != nil {
		return kafkago.Message{}, err
	}
	orderID := strconv.FormatInt(event.AggregateID(), 10)
	envelope := Envelope{
		EventID:       p.newID(),
		EventType:     event.EventName(),
		EventVersion:  EventVersion,
		OccurredAt:    event.OccurredAt().UTC(),
		Producer:      p.producer,
		TraceID:       traceID(ctx),
		CorrelationID: orderID,
		Payload:       payload,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return kafkago.Message{}, err
	}
	msg := kafkago.Message{
		Key:   []byte(orderID),
		Value: value,
		Time:  envelope.OccurredAt,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(envelope.EventType)},
		},
	}
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier{Headers: &msg.Headers})
	return msg, nil
}

func toPayload(event domain.Event) OrderEventPayload {
	switch e := event.(type) {
	case domain.OrderPlaced:
		return OrderEventPayload{OrderID: e.OrderID, UserID: e.CustomerID, Items: toItems(e.Items)}
	case domain.OrderDelivered:
		return OrderEventPayload{OrderID: e.OrderID, UserID: e.ExpeditorID}
	case domain.OrderCanceled:
		return OrderEventPayload{OrderID: e.OrderID, UserID: e.CustomerID}
	case domain.OrderReturned:
		return OrderEventPayload{OrderID: e.OrderID, UserID: e.CustomerID, Items: toItems(e.Items)}
	default:
		return OrderEventPayload{OrderID: event.AggregateID()}
	}
}

func toItems(items []domain.LineItem) []LineItemPayload {
	out := make([]LineItemPayload, 0, len(items))
	for _, item := range items {
		out = append(out, LineItemPayload{ProductID: item.ProductID, ProductCode: item.ProductCode, Quantity: item.Quantity})
	}
	return out
}

func traceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}
