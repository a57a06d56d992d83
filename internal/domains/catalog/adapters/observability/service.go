package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-shop-server/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) AddProduct(ctx context.Context, userID int64, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	code := ""
	if product != nil {
		code = product.Code
	}
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddProduct", trace.WithAttributes(
		attribute.String("product.code", code),
		attribute.Int64("user.id", userID),
	))
	defer span.End()
	result, err := s.inner.AddProduct(ctx, userID, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add product", slog.String("product.code", code), slog.Int64("user.id", userID))
	}
	s.metrics.recordStockChange(ctx, "create", result.Stock)
	s.logInfo(ctx, "product added", slog.Int64("product.id", result.ID), slog.String("product.code", result.Code))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, code string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.code", code)))
	defer span.End()
	result, err := s.inner.GetProduct(ctx, code)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.code", code))
	}
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()
	result, err := s.inner.ListProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, userID int64, code string, update catalogdomain.Update) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(
		attribute.String("product.code", code),
		attribute.Int64("user.id", userID),
	))
	defer span.End()
	result, err := s.inner.UpdateProduct(ctx, userID, code, update)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.code", code), slog.Int64("user.id", userID))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", result.ID), slog.Int("product.stock", result.Stock))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, userID int64, code string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(
		attribute.String("product.code", code),
		attribute.Int64("user.id", userID),
	))
	defer span.End()
	if err := s.inner.DeleteProduct(ctx, userID, code); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.code", code), slog.Int64("user.id", userID))
	}
	s.logInfo(ctx, "product deleted", slog.String("product.code", code))
	return nil
}

func (s *Service) AddStock(ctx context.Context, userID int64, code string, quantity int) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.AddStock", trace.WithAttributes(
		attribute.String("product.code", code),
		attribute.Int("stock.quantity", quantity),
	))
	defer span.End()
	result, err := s.inner.AddStock(ctx, userID, code, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add stock", slog.String("product.code", code), slog.Int("stock.quantity", quantity))
	}
	s.metrics.recordStockChange(ctx, "restock", quantity)
	s.logInfo(ctx, "stock added", slog.String("product.code", code), slog.Int("product.stock", result.Stock))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

type serviceMetrics struct {
	stockAdded metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("catalog.service.stock_added", metric.WithDescription("Units of stock added to the catalog"))
	return serviceMetrics{stockAdded: added}
}

func (m serviceMetrics) recordStockChange(ctx context.Context, reason string, units int) {
	if m.stockAdded != nil && units > 0 {
		m.stockAdded.Add(ctx, int64(units), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ catalogports.Service = (*Service)(nil)
