// Package statusconsumer ingests asynchronous warehouse status updates
// from the broker for the life of the process, surviving broker loss by
// reconnecting.
package statusconsumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/utpbw/order-integration-service/internal/server/finitestate"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

const (
	// DefaultQueue is the WMS status update queue.
	DefaultQueue = "wms.status.updates"
	// DefaultReconnectDelay is how long the consumer waits after losing
	// the broker before dialing again.
	DefaultReconnectDelay = 10 * time.Second
)

// Runner is the long-lived status consumer. It shares no state with the
// intake port or any saga; it only logs what the warehouse reports.
type Runner struct {
	url            string
	queue          string
	reconnectDelay time.Duration

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
	fsm       finitestate.Machine
	logger    *slog.Logger
}

type Option func(*Runner)

// WithQueue overrides the consumed queue name.
func WithQueue(name string) Option {
	return func(r *Runner) {
		r.queue = name
	}
}

// WithReconnectDelay overrides the post-failure reconnect delay.
func WithReconnectDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.reconnectDelay = d
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		r.logger = slog.New(handler).WithGroup("statusconsumer.Runner")
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// NewRunner creates a status consumer for the broker at url.
func NewRunner(url string, opts ...Option) (*Runner, error) {
	if url == "" {
		return nil, fmt.Errorf("broker URL cannot be empty")
	}

	runner := &Runner{
		url:            url,
		queue:          DefaultQueue,
		reconnectDelay: DefaultReconnectDelay,
		logger:         slog.Default().WithGroup("statusconsumer.Runner"),
		parentCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(runner)
	}

	fsmLogger := runner.logger.WithGroup("fsm")
	machine, err := finitestate.New(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = machine

	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "statusconsumer.Runner"
}

// Run implements the supervisor.Runnable interface. The loop never
// terminates on its own; only context cancellation ends it.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, runCancel := context.WithCancel(ctx)
	r.runCtx, r.runCancel = runCtx, runCancel
	go func() {
		select {
		case <-r.parentCtx.Done():
			runCancel()
		case <-runCtx.Done():
		}
	}()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}
	r.logger.Info("Status consumer started", "queue", r.queue)

	for {
		err := r.consume(runCtx)
		if runCtx.Err() != nil {
			return r.shutdown()
		}
		r.logger.Warn("Lost broker connection, reconnecting",
			"delay", r.reconnectDelay, "error", err)
		select {
		case <-runCtx.Done():
			return r.shutdown()
		case <-time.After(r.reconnectDelay):
		}
	}
}

// consume dials the broker and processes deliveries until the connection
// drops or the context is canceled. Returns the terminal error of this
// connection attempt; nil only when ctx ended it.
func (r *Runner) consume(ctx context.Context) error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open broker channel: %w", err)
	}

	if _, err := ch.QueueDeclare(r.queue, false, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", r.queue, err)
	}

	deliveries, err := ch.Consume(r.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	connClosed := conn.NotifyClose(make(chan *amqp.Error, 1))
	r.logger.Info("Listening for WMS status updates", "queue", r.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-connClosed:
			if amqpErr == nil {
				return errors.New("broker connection closed")
			}
			return amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			r.handleDelivery(d)
		}
	}
}

// handleDelivery logs one status update and settles its disposition:
// ack for JSON object payloads, nack-without-requeue for everything else
// so the broker can dead-letter it.
func (r *Runner) handleDelivery(d amqp.Delivery) {
	update, err := parseUpdate(d.Body)
	if err != nil {
		r.logger.Error("Rejecting malformed status message", "body", string(d.Body), "error", err)
		if err := d.Nack(false, false); err != nil {
			r.logger.Error("Failed to nack message", "error", err)
		}
		return
	}

	r.logger.Info("WMS status update",
		"order_id", update.OrderID, "status", update.Status, "detail", update.Detail)
	if err := d.Ack(false); err != nil {
		r.logger.Error("Failed to ack message", "error", err)
	}
}

// shutdown settles the lifecycle machine after the loop ends.
func (r *Runner) shutdown() error {
	r.logger.Info("Status consumer shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	if r.runCancel != nil {
		r.runCancel()
	}
}

// GetState implements the supervisor.Stateable interface
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan implements the supervisor.Stateable interface
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning implements the supervisor.Stateable interface
func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}
