package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

type stubUsers struct {
	user *userdomain.User
	err  error
}

func (s stubUsers) CreateUser(context.Context, *userdomain.User) (*userdomain.User, error) {
	return s.user, s.err
}
func (s stubUsers) GetUser(context.Context, int64) (*userdomain.User, error) { return s.user, s.err }
func (s stubUsers) ListUsers(context.Context) ([]*userdomain.User, error) {
	return []*userdomain.User{s.user}, s.err
}

func TestService_CountsOutcomes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	recorder := tracetest.NewSpanRecorder()
	tracer := trace.NewTracerProvider(trace.WithSpanProcessor(recorder)).Tracer("test")

	ok := New(stubUsers{user: &userdomain.User{ID: 1, Username: "ada"}}, WithMeter(meter), WithTracer(tracer))
	failing := New(stubUsers{err: userports.ErrNotFound}, WithMeter(meter), WithTracer(tracer))

	_, err := ok.GetUser(context.Background(), 1)
	require.NoError(t, err)
	_, err = failing.GetUser(context.Background(), 2)
	require.ErrorIs(t, err, userports.ErrNotFound)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, isSum := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, isSum)
	require.Len(t, sum.DataPoints, 2)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "UserService.GetUser", spans[0].Name())
}
