package saga

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/utpbw/order-integration-service/internal/domain"
	"github.com/utpbw/order-integration-service/internal/server/finitestate"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Runner owns the receiving side of the order siphon. Each order that
// arrives is handed to the coordinator on its own goroutine, so sagas for
// different orders interleave freely while each saga stays sequential.
type Runner struct {
	coordinator *Coordinator
	siphon      <-chan domain.Order

	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
	wg        sync.WaitGroup
	fsm       finitestate.Machine
	logger    *slog.Logger

	// onOutcome, when set, observes each terminal outcome. Used by tests.
	onOutcome func(Outcome)
}

type RunnerOption func(*Runner)

// WithRunnerLogHandler sets a custom log handler for the Runner instance.
func WithRunnerLogHandler(handler slog.Handler) RunnerOption {
	return func(r *Runner) {
		r.logger = slog.New(handler).WithGroup("saga.Runner")
	}
}

// WithRunnerContext sets a custom parent context for the Runner instance.
func WithRunnerContext(ctx context.Context) RunnerOption {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}

// WithOutcomeObserver registers a callback invoked with each saga's
// terminal outcome.
func WithOutcomeObserver(fn func(Outcome)) RunnerOption {
	return func(r *Runner) {
		r.onOutcome = fn
	}
}

// NewRunner creates a Runner consuming orders from siphon.
func NewRunner(coordinator *Coordinator, siphon <-chan domain.Order, opts ...RunnerOption) (*Runner, error) {
	if coordinator == nil {
		return nil, fmt.Errorf("coordinator cannot be nil")
	}
	if siphon == nil {
		return nil, fmt.Errorf("order siphon cannot be nil")
	}

	runner := &Runner{
		coordinator: coordinator,
		siphon:      siphon,
		logger:      slog.Default().WithGroup("saga.Runner"),
		parentCtx:   context.Background(),
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
	return "saga.Runner"
}

// Run implements the supervisor.Runnable interface. It blocks, launching
// one saga goroutine per order, until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner")

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	r.runCtx, r.runCancel = context.WithCancel(ctx)

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	for {
		select {
		case <-r.parentCtx.Done():
			r.logger.Debug("Parent context canceled")
			return r.shutdown()
		case <-r.runCtx.Done():
			r.logger.Debug("Run context canceled")
			return r.shutdown()
		case order := <-r.siphon:
			r.wg.Add(1)
			go func() {
				defer r.wg.Done()
				outcome := r.coordinator.Execute(r.runCtx, order)
				r.logger.Info("Saga finished",
					"order_id", outcome.OrderID,
					"state", outcome.State,
					"step", string(outcome.Step))
				if r.onOutcome != nil {
					r.onOutcome(outcome)
				}
			}()
		}
	}
}

// shutdown cancels in-flight sagas and waits for their goroutines to
// observe the cancellation. Every outbound call is deadline-bounded, so
// the wait is too.
func (r *Runner) shutdown() error {
	r.logger.Info("Runner shutting down")

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	r.runCancel()
	r.wg.Wait()

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
