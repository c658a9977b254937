// Package saga drives each accepted order through reserve, charge, and
// ship, and runs the compensating action when a later step fails after an
// earlier one has committed state.
package saga

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utpbw/order-integration-service/internal/domain"
	"github.com/utpbw/order-integration-service/internal/saga/finitestate"
)

// Step names the workflow step that decided an outcome.
type Step string

const (
	StepReserve    Step = "reserve"
	StepCharge     Step = "charge"
	StepShip       Step = "ship"
	StepCompensate Step = "compensate"
)

// Outcome is the terminal result of one order's workflow. ALERT_MANUAL is
// a first-class outcome here, not an error to swallow.
type Outcome struct {
	OrderID string
	// State is the terminal order-flow state.
	State string
	// Step is the step that decided the outcome.
	Step Step
	// Err is the terminal cause; nil for completed and for business
	// cancellations (out of stock, item not found).
	Err error
}

// Completed reports whether the workflow reached the happy-path terminal.
func (o Outcome) Completed() bool {
	return o.State == finitestate.StateCompleted
}

// NeedsManualAction reports whether an operator must reconcile this order.
func (o Outcome) NeedsManualAction() bool {
	return o.State == finitestate.StateAlertManual
}

// Coordinator executes one saga per order. It is safe for concurrent use;
// each Execute call builds its own adapter instances and state machine.
type Coordinator struct {
	adapters Adapters
	handler  slog.Handler
	logger   *slog.Logger
}

type CoordinatorOption func(*Coordinator)

// WithLogHandler sets a custom log handler for the Coordinator instance.
func WithLogHandler(handler slog.Handler) CoordinatorOption {
	return func(c *Coordinator) {
		c.handler = handler
		c.logger = slog.New(handler).WithGroup("saga.Coordinator")
	}
}

// NewCoordinator creates a Coordinator over the given adapter factories.
func NewCoordinator(adapters Adapters, opts ...CoordinatorOption) (*Coordinator, error) {
	if adapters.NewInventory == nil || adapters.NewPayment == nil || adapters.NewShipment == nil {
		return nil, fmt.Errorf("all adapter factories must be provided")
	}

	c := &Coordinator{
		adapters: adapters,
		handler:  slog.Default().Handler(),
		logger:   slog.Default().WithGroup("saga.Coordinator"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Execute runs the full workflow for one order and returns its terminal
// outcome. The order has already passed intake validation.
func (c *Coordinator) Execute(ctx context.Context, order domain.Order) Outcome {
	logger := c.logger.With("order_id", order.OrderID)

	flow, err := finitestate.NewOrderFlowFSM(c.handler)
	if err != nil {
		logger.Error("Failed to create order flow state machine", "error", err)
		return Outcome{OrderID: order.OrderID, State: finitestate.StateCancelled, Step: StepReserve, Err: err}
	}

	logger.Info("Starting order processing")
	c.transition(flow, logger, finitestate.StateReserving)

	// Step 1: reserve inventory. The client stays open through step 2 so
	// a failed charge can release on the same channel.
	inv, err := c.adapters.NewInventory()
	if err != nil {
		logger.Error("Workflow aborted: inventory adapter unavailable", "step", StepReserve, "error", err)
		c.transition(flow, logger, finitestate.StateCancelled)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepReserve, Err: err}
	}
	defer func() {
		if err := inv.Close(); err != nil {
			logger.Warn("Failed to close inventory channel", "error", err)
		}
	}()

	reservation, err := inv.ReserveItems(ctx, order.OrderID, order.Items)
	if err != nil {
		// No compensation: nothing was committed downstream.
		logger.Error("Workflow aborted: inventory reservation failed", "step", StepReserve, "error", err)
		c.transition(flow, logger, finitestate.StateCancelled)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepReserve, Err: err}
	}

	switch reservation.Status {
	case domain.ReservationReserved:
		logger.Info("Inventory reserved", "reservation_id", reservation.ID)
		c.transition(flow, logger, finitestate.StateReserved)
	case domain.ReservationOutOfStock:
		logger.Warn("Order cancelled: items out of stock")
		c.transition(flow, logger, finitestate.StateCancelled)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepReserve}
	case domain.ReservationItemNotFound:
		logger.Error("Order cancelled: item SKU not found")
		c.transition(flow, logger, finitestate.StateCancelled)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepReserve}
	default:
		logger.Error("Order cancelled: unknown inventory error", "status", string(reservation.Status))
		c.transition(flow, logger, finitestate.StateCancelled)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepReserve,
			Err: fmt.Errorf("unknown reservation status %q", reservation.Status)}
	}

	// Step 2: charge payment.
	c.transition(flow, logger, finitestate.StateCharging)
	pay, err := c.adapters.NewPayment()
	if err != nil {
		logger.Error("Payment adapter unavailable, starting compensation", "step", StepCharge, "error", err)
		return c.compensate(ctx, flow, logger, inv, order, err)
	}
	defer pay.Close()

	amountCents := domain.Cents(order.TotalAmount)
	charge, err := pay.CreateCharge(ctx, order.OrderID, order.PaymentToken, amountCents, order.Currency)
	if err != nil {
		// Transport failures compensate too, even though the charge may
		// have landed; see the open-question decisions in DESIGN.md.
		logger.Error("Charge failed, starting compensation",
			"step", StepCharge, "amount_cents", amountCents, "error", err)
		return c.compensate(ctx, flow, logger, inv, order, err)
	}
	logger.Info("Payment succeeded", "transaction_id", charge.TransactionID, "amount_cents", amountCents)
	c.transition(flow, logger, finitestate.StateCharged)

	// Step 3: ship. The payment stands regardless of what happens here;
	// reversing a captured charge is an operator decision.
	c.transition(flow, logger, finitestate.StateShipping)
	ship, err := c.adapters.NewShipment()
	if err != nil {
		logger.Error("MANUAL ACTION REQUIRED: payment captured but shipment adapter unavailable",
			"step", StepShip, "error", err, "manual_action_required", true)
		c.transition(flow, logger, finitestate.StateAlertManual)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepShip, Err: err}
	}
	defer func() {
		if err := ship.Close(); err != nil {
			logger.Warn("Failed to close shipment adapter", "error", err)
		}
	}()

	if err := ship.SendShipment(ctx, order.OrderID, order.Items); err != nil {
		logger.Error("MANUAL ACTION REQUIRED: payment captured but shipment publish failed",
			"step", StepShip, "error", err, "manual_action_required", true)
		c.transition(flow, logger, finitestate.StateAlertManual)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepShip, Err: err}
	}

	c.transition(flow, logger, finitestate.StateCompleted)
	logger.Info("Order processing completed, awaiting WMS updates")
	return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepShip}
}

// compensate releases the order's reservation after a failed charge and
// settles the flow in its terminal state.
func (c *Coordinator) compensate(
	ctx context.Context,
	flow *finitestate.OrderFlowFSM,
	logger *slog.Logger,
	inv InventoryPort,
	order domain.Order,
	cause error,
) Outcome {
	c.transition(flow, logger, finitestate.StateCompensating)

	if err := inv.ReleaseItems(ctx, order.OrderID); err != nil {
		logger.Error("MANUAL ACTION REQUIRED: compensation failed, reservation still held",
			"step", StepCompensate, "error", err, "manual_action_required", true)
		c.transition(flow, logger, finitestate.StateAlertManual)
		return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepCompensate, Err: err}
	}

	logger.Info("Compensation complete, workflow stopped")
	c.transition(flow, logger, finitestate.StateCompensated)
	return Outcome{OrderID: order.OrderID, State: flow.GetState(), Step: StepCharge, Err: cause}
}

// transition advances the flow machine. An invalid transition is a
// programming error in the transition table; it is logged and the flow
// continues with its current state.
func (c *Coordinator) transition(flow *finitestate.OrderFlowFSM, logger *slog.Logger, state string) {
	if err := flow.Transition(state); err != nil {
		logger.Error("Order flow transition rejected", "target", state, "current", flow.GetState(), "error", err)
	}
}
