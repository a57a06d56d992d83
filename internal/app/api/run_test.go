package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	orderworkflows "github.com/Apurer/go-gin-shop-server/internal/domains/orders/adapters/workflows"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChoosePlacement_InMemoryStaysInline(t *testing.T) {
	dialed := false
	placement, closePlacement := choosePlacement(&Services{SharedState: false}, func() (client.Client, error) {
		dialed = true
		return &mocks.Client{}, nil
	}, discardLogger())
	defer closePlacement()

	require.False(t, dialed, "a worker cannot see this process's memory store")
	require.IsType(t, &orderworkflows.InlineOrderWorkflows{}, placement)
}

func TestChoosePlacement_SharedStorageUsesTemporal(t *testing.T) {
	placement, _ := choosePlacement(&Services{SharedState: true}, func() (client.Client, error) {
		return &mocks.Client{}, nil
	}, discardLogger())

	require.IsType(t, &orderworkflows.TemporalOrderWorkflows{}, placement)
}

func TestChoosePlacement_UnreachableTemporalFallsBackInline(t *testing.T) {
	placement, closePlacement := choosePlacement(&Services{SharedState: true}, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, discardLogger())
	defer closePlacement()

	require.IsType(t, &orderworkflows.InlineOrderWorkflows{}, placement)
}
