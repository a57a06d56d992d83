package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shop-server/internal/app/api"
)

type recordingPurger struct {
	cutoff time.Time
}

func (p *recordingPurger) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 3, nil
}

func TestPurgeExpired(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	purger := &recordingPurger{}
	purged, err := purgeExpired(ctx, &api.Services{Purger: purger, SharedState: true}, 24*time.Hour, now, logger)
	require.NoError(t, err)
	require.Equal(t, int64(3), purged)
	require.Equal(t, now.Add(-24*time.Hour), purger.cutoff)

	purged, err = purgeExpired(ctx, &api.Services{}, 24*time.Hour, now, logger)
	require.NoError(t, err)
	require.Zero(t, purged)

	_, err = purgeExpired(ctx, &api.Services{Purger: &recordingPurger{}}, 24*time.Hour, now, logger)
	require.ErrorIs(t, err, errNoSharedStore)
}
