// Order workflow state machine.
// Tracks one order's progress through reserve, charge, and ship.
package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

// Error aliases from go-fsm for use by the coordinator
var (
	ErrInvalidStateTransition = fsm.ErrInvalidStateTransition
)

// Order flow state constants
const (
	StateStarting  = "starting"
	StateReserving = "reserving"
	StateReserved  = "reserved"
	StateCharging  = "charging"
	StateCharged   = "charged"
	StateShipping  = "shipping"

	// StateCompleted is the happy-path terminal state.
	StateCompleted = "completed"

	// StateCancelled terminates a flow that never committed anything
	// downstream; no compensation is required.
	StateCancelled = "cancelled"

	// Compensation states
	StateCompensating = "compensating" // reservation release in progress
	StateCompensated  = "compensated"  // release done (terminal state)

	// StateAlertManual means automated reconciliation is not possible
	// and an operator must intervene (terminal state).
	StateAlertManual = "alert_manual"
)

// OrderFlowTransitions defines the valid state transitions for one order's
// workflow.
var OrderFlowTransitions = map[string][]string{
	StateStarting:  {StateReserving},
	StateReserving: {StateReserved, StateCancelled},
	StateReserved:  {StateCharging},
	StateCharging:  {StateCharged, StateCompensating},
	StateCharged:   {StateShipping},
	StateShipping:  {StateCompleted, StateAlertManual},

	// A failed charge releases the reservation. If the release itself
	// fails, the flow escalates to manual intervention.
	StateCompensating: {StateCompensated, StateAlertManual},

	StateCompleted:   {}, // terminal
	StateCancelled:   {}, // terminal
	StateCompensated: {}, // terminal
	StateAlertManual: {}, // terminal
}

// Terminal reports whether state is one of the four terminal outcomes.
func Terminal(state string) bool {
	switch state {
	case StateCompleted, StateCancelled, StateCompensated, StateAlertManual:
		return true
	}
	return false
}

type OrderFlowFSM struct {
	*fsm.Machine
}

func (s *OrderFlowFSM) GetStateChan(ctx context.Context) <-chan string {
	return s.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

func NewOrderFlowFSM(handler slog.Handler) (*OrderFlowFSM, error) {
	machine, err := fsm.New(handler, StateStarting, OrderFlowTransitions)
	if err != nil {
		return nil, err
	}
	return &OrderFlowFSM{Machine: machine}, nil
}
