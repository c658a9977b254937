package server

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utpbw/order-integration-service/internal/config"
)

func TestBuildRunnables(t *testing.T) {
	t.Parallel()

	handler := slog.NewTextHandler(io.Discard, nil)

	t.Run("builds all three components", func(t *testing.T) {
		runnables, err := buildRunnables(t.Context(), handler, config.Default())
		require.NoError(t, err)
		require.Len(t, runnables, 3)

		names := make([]string, 0, len(runnables))
		for _, r := range runnables {
			names = append(names, r.String())
		}
		assert.Contains(t, names, "saga.Runner")
		assert.Contains(t, names, "statusconsumer.Runner")
		assert.Contains(t, names, "intake.Runner[:8000]")
	})

	t.Run("empty listen address fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.Intake.ListenAddr = ""
		_, err := buildRunnables(t.Context(), handler, cfg)
		assert.Error(t, err)
	})
}

func TestNewAdapters(t *testing.T) {
	t.Parallel()

	adapters := newAdapters(config.Default(), slog.NewTextHandler(io.Discard, nil))
	require.NotNil(t, adapters.NewInventory)
	require.NotNil(t, adapters.NewPayment)
	require.NotNil(t, adapters.NewShipment)

	// gRPC channels and HTTP clients construct lazily without a live
	// backend; only the AMQP publisher dials eagerly.
	inv, err := adapters.NewInventory()
	require.NoError(t, err)
	assert.NoError(t, inv.Close())

	pay, err := adapters.NewPayment()
	require.NoError(t, err)
	pay.Close()
}
