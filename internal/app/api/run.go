package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	shopserver "github.com/Apurer/go-gin-shop-server/go"

	orderworkflows "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/go-gin-shop-server/internal/platform/observability"
)

const serviceName = "shop-api"

// Run boots the shop HTTP API with observability, repositories, and workflows wired.
// It returns once ctx is canceled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, cleanup, err := BuildServices(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()

	placement, closePlacement := choosePlacement(services, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments, "temporal-client")
	}, logger)
	defer closePlacement()

	handlers := shopserver.ApiHandleFunctions{
		OrderAPI:   shopserver.NewOrderAPI(services.Orders, placement),
		ProductAPI: shopserver.NewProductAPI(services.Catalog),
		UserAPI:    shopserver.NewUserAPI(services.Users),
	}
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = shopserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Shop API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Shop API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("Shop API shutting down")
	return server.Shutdown(shutdownCtx)
}

// choosePlacement sends placements to the Temporal worker only when the worker
// reads the same storage as this process. In-memory repositories are private
// to the API, so placements then stay inline and Temporal is never dialed.
func choosePlacement(services *Services, dial func() (client.Client, error), logger *slog.Logger) (orderports.WorkflowOrchestrator, func()) {
	inline := orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if !services.SharedState {
		logger.Warn("repositories are in-memory and invisible to a Temporal worker, placing orders inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging,
// unless cfg disables it.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
