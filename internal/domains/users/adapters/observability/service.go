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

	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

const tracerName = "github.com/Apurer/go-gin-shop-server/internal/domains/users/adapters/observability/service"

// Service traces user directory calls and counts them per operation and outcome.
type Service struct {
	inner    userports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	requests metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.requests, _ = m.Int64Counter("users.service.requests",
			metric.WithDescription("User directory calls by operation and outcome"))
	}
}

func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateUser(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	var username string
	if user != nil {
		username = user.Username
	}
	ctx, finish := s.observe(ctx, "CreateUser", attribute.String("user.username", username))
	created, err := s.inner.CreateUser(ctx, user)
	if err == nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "user created",
			slog.Int64("user.id", created.ID), slog.String("username", created.Username),
			slog.Any("roles", created.Roles.Slice()))
	}
	return created, finish(err)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*userdomain.User, error) {
	ctx, finish := s.observe(ctx, "GetUser", attribute.Int64("user.id", id))
	user, err := s.inner.GetUser(ctx, id)
	return user, finish(err)
}

func (s *Service) ListUsers(ctx context.Context) ([]*userdomain.User, error) {
	ctx, finish := s.observe(ctx, "ListUsers")
	users, err := s.inner.ListUsers(ctx)
	if err == nil {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("user.count", len(users)))
	}
	return users, finish(err)
}

// observe opens a span for op. The returned func ends it, records the outcome,
// and hands err back unchanged.
func (s *Service) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error) error) {
	ctx, span := s.tracer.Start(ctx, "UserService."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) error {
		defer span.End()
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.LogAttrs(ctx, slog.LevelWarn, "user operation failed",
				slog.String("operation", op), slog.String("error", err.Error()))
		}
		if s.requests != nil {
			s.requests.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", op),
				attribute.String("outcome", outcome),
			))
		}
		return err
	}
}

var _ userports.Service = (*Service)(nil)
