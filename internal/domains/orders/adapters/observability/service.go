package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderapp "github.com/Apurer/go-gin-shop-server/internal/domains/orders/application"
	orderdomain "github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core orders service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input orderports.PlaceOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.Int64("user.id", input.CustomerID),
		attribute.Int("order.lines", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()
	s.logInfo(ctx, "placing order", slog.Int64("user.id", input.CustomerID), slog.Int("order.lines", len(input.Items)))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "place", err)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("user.id", input.CustomerID))
	}
	span.SetAttributes(attribute.Int64("order.id", result.ID))
	s.metrics.recordPlaced(ctx, result.TotalQuantity())
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.ID),
		slog.Int64("user.id", result.CustomerID),
		slog.Int("order.units", result.TotalQuantity()))
	return result, nil
}

func (s *Service) Deliver(ctx context.Context, orderID, userID int64) (*orderdomain.Order, error) {
	return s.transition(ctx, "Deliver", "deliver", orderID, userID, s.inner.Deliver)
}

func (s *Service) Cancel(ctx context.Context, orderID, userID int64) (*orderdomain.Order, error) {
	return s.transition(ctx, "Cancel", "cancel", orderID, userID, s.inner.Cancel)
}

func (s *Service) Return(ctx context.Context, orderID, userID int64) (*orderdomain.Order, error) {
	return s.transition(ctx, "Return", "return", orderID, userID, s.inner.Return)
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()
	result, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) transition(
	ctx context.Context,
	name, action string,
	orderID, userID int64,
	call func(ctx context.Context, orderID, userID int64) (*orderdomain.Order, error),
) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService."+name, trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("user.id", userID),
	))
	defer span.End()
	result, err := call(ctx, orderID, userID)
	if err != nil {
		s.metrics.recordRejected(ctx, action, err)
		return nil, s.handleError(ctx, span, err, "failed to "+action+" order",
			slog.Int64("order.id", orderID),
			slog.Int64("user.id", userID))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status())))
	s.metrics.recordTransition(ctx, action)
	s.logInfo(ctx, "order "+string(result.Status()),
		slog.Int64("order.id", result.ID),
		slog.Int64("user.id", userID))
	return result, nil
}

// handleError records err on the span. Business rejections log at warn, everything else at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if errors.Is(err, orderapp.ErrInvalidInput) || errors.Is(err, orderports.ErrIdempotencyConflict) {
		level = slog.LevelWarn
	}
	s.log(ctx, level, msg, append(attrs, slog.String("error", err.Error()))...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	ordersPlaced metric.Int64Counter
	unitsSold    metric.Int64Counter
	transitions  metric.Int64Counter
	rejections   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.placed", metric.WithDescription("Number of orders placed"))
	units, _ := m.Int64Counter("orders.service.units_sold", metric.WithDescription("Units taken out of stock by placements"))
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Successful lifecycle transitions"))
	rejections, _ := m.Int64Counter("orders.service.rejections", metric.WithDescription("Requests rejected by a business rule"))
	return serviceMetrics{ordersPlaced: placed, unitsSold: units, transitions: transitions, rejections: rejections}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, units int) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.unitsSold != nil {
		m.unitsSold.Add(ctx, int64(units))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, action string) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, action string, err error) {
	if m.rejections == nil {
		return
	}
	code, ok := orderapp.ErrorCode(err)
	if !ok {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("reason", code),
	))
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ orderports.Service = (*Service)(nil)
