// Package worker runs the Temporal worker that executes order placement workflows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-shop-server/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-shop-server/internal/platform/observability"
	orderactivities "github.com/Apurer/go-gin-shop-server/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-shop-server/internal/platform/temporal/workflows/orders"
)

const serviceName = "shop-worker"

// ErrSharedStorageRequired stops a worker that would place orders against a
// private in-memory store the API never reads.
var ErrSharedStorageRequired = errors.New("worker requires a reachable POSTGRES_DSN: in-memory repositories are private to each process")

func requireSharedState(services *api.Services) error {
	if services == nil || !services.SharedState {
		return ErrSharedStorageRequired
	}
	return nil
}

// Run polls the order placement task queue until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
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

	services, cleanup, err := api.BuildServices(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := requireSharedState(services); err != nil {
		return err
	}

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := orderactivities.NewActivities(services.Orders)
	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	if err := w.Run(stop); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
