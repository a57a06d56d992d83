package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublisher_WritesEnvelopeKeyedByOrder(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewPublisher(writer, WithProducer("shop-test"))
	pub.newID = func() string { return "evt-1" }

	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	err := pub.Publish(context.Background(), domain.OrderPlaced{
		BaseEvent:  domain.BaseEvent{Timestamp: at},
		OrderID:    15,
		CustomerID: 3,
		Items:      []domain.LineItem{{ProductID: 1, ProductCode: "A", Quantity: 2}},
	})
	require.NoError(t, err)
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	require.Equal(t, "15", string(msg.Key))
	require.Equal(t, "orders.order.placed", HeaderCarrier{Headers: &msg.Headers}.Get("event_type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.Equal(t, "evt-1", env.EventID)
	require.Equal(t, "orders.order.placed", env.EventType)
	require.Equal(t, EventVersion, env.EventVersion)
	require.Equal(t, "shop-test", env.Producer)
	require.Equal(t, "15", env.CorrelationID)
	require.True(t, at.Equal(env.OccurredAt))

	var payload OrderEventPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.Equal(t, int64(3), payload.UserID)
	require.Equal(t, []LineItemPayload{{ProductID: 1, ProductCode: "A", Quantity: 2}}, payload.Items)
}

func TestPublisher_PropagatesTraceContext(t *testing.T) {
	writer := &fakeWriter{}
	pub := NewPublisher(writer)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	prop := propagation.TraceContext{}
	msg, err := pub.message(ctx, domain.OrderCanceled{OrderID: 2, CustomerID: 3})
	require.NoError(t, err)
	prop.Inject(ctx, HeaderCarrier{Headers: &msg.Headers})

	carrier := HeaderCarrier{Headers: &msg.Headers}
	require.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", env.TraceID)
}

func TestPublisher_ReturnsWriterError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("leader not available")}
	pub := NewPublisher(writer)

	err := pub.Publish(context.Background(), domain.OrderDelivered{OrderID: 1, ExpeditorID: 2})
	require.EqualError(t, err, "leader not available")
	require.NoError(t, pub.Publish(context.Background()))
}
