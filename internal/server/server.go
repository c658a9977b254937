// Package server wires the intake listener, the saga runner, and the
// status consumer together under one supervisor.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/utpbw/order-integration-service/internal/adapters/inventory"
	"github.com/utpbw/order-integration-service/internal/adapters/payment"
	"github.com/utpbw/order-integration-service/internal/adapters/shipment"
	"github.com/utpbw/order-integration-service/internal/config"
	"github.com/utpbw/order-integration-service/internal/domain"
	"github.com/utpbw/order-integration-service/internal/intake"
	"github.com/utpbw/order-integration-service/internal/saga"
	"github.com/utpbw/order-integration-service/internal/statusconsumer"
)

// newAdapters builds the per-saga adapter factories from configuration.
// Each saga gets fresh adapter instances; the coordinator closes them on
// every exit path.
func newAdapters(cfg *config.Config, handler slog.Handler) saga.Adapters {
	return saga.Adapters{
		NewInventory: func() (saga.InventoryPort, error) {
			return inventory.NewClient(cfg.Inventory.Addr,
				inventory.WithCallTimeout(cfg.Inventory.CallTimeout),
				inventory.WithLogHandler(handler),
			)
		},
		NewPayment: func() (saga.PaymentPort, error) {
			return payment.NewClient(cfg.Payment.BaseURL,
				payment.WithTimeouts(cfg.Payment.ConnectTimeout, cfg.Payment.ReadTimeout),
				payment.WithLogHandler(handler),
			)
		},
		NewShipment: func() (saga.ShipmentPort, error) {
			return shipment.NewPublisher(cfg.AMQPURL(),
				shipment.WithQueue(cfg.Broker.ShipmentQueue),
				shipment.WithHeartbeat(cfg.Broker.Heartbeat),
				shipment.WithLogHandler(handler),
			)
		},
	}
}

// buildRunnables constructs the three supervised components sharing one
// order siphon.
func buildRunnables(
	ctx context.Context,
	handler slog.Handler,
	cfg *config.Config,
) ([]supervisor.Runnable, error) {
	siphon := make(chan domain.Order, cfg.Intake.QueueDepth)

	coordinator, err := saga.NewCoordinator(newAdapters(cfg, handler), saga.WithLogHandler(handler))
	if err != nil {
		return nil, fmt.Errorf("failed to create saga coordinator: %w", err)
	}

	sagaRunner, err := saga.NewRunner(coordinator, siphon,
		saga.WithRunnerLogHandler(handler),
		saga.WithRunnerContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create saga runner: %w", err)
	}

	intakeRunner, err := intake.NewRunner(cfg.Intake.ListenAddr, siphon,
		intake.WithRunnerLogHandler(handler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake runner: %w", err)
	}

	consumer, err := statusconsumer.NewRunner(cfg.AMQPURL(),
		statusconsumer.WithQueue(cfg.Broker.StatusQueue),
		statusconsumer.WithReconnectDelay(cfg.Broker.ReconnectDelay),
		statusconsumer.WithLogHandler(handler),
		statusconsumer.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create status consumer: %w", err)
	}

	// Order matters: the saga runner must be draining the siphon before
	// the intake listener starts accepting orders.
	return []supervisor.Runnable{sagaRunner, intakeRunner, consumer}, nil
}

// Run starts the integration service and blocks until shutdown.
func Run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	handler := logger.Handler()

	runnables, err := buildRunnables(ctx, handler, cfg)
	if err != nil {
		return err
	}

	super, err := supervisor.New(
		supervisor.WithLogHandler(handler),
		supervisor.WithRunnables(runnables...),
		supervisor.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run integration service: %w", err)
	}

	logger.Info("Integration service shutdown complete")
	return nil
}
